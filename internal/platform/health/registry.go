// Package health tracks the readiness of downstream dependencies. Components
// with a connection to probe register themselves at startup; the readiness
// endpoint runs every registered check on each probe.
package health

import (
	"context"
	"sync"

	"github.com/unbacklog/backlog-service/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

// Registry is the concrete [ports.HealthRegistry]. Registration and checking
// are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	checkers []ports.HealthChecker
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register adds a checker.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// CheckAll runs every registered check and maps checker name to its result;
// nil means healthy. Checks run outside the lock against a snapshot of the
// checker list.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make([]ports.HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	results := make(map[string]error, len(checkers))
	for _, c := range checkers {
		results[c.Name()] = c.HealthCheck(ctx)
	}
	return results
}
