package ports

import "context"

// HealthChecker is implemented by components with a dependency worth probing,
// such as the database pool or the remote identity provider client.
type HealthChecker interface {
	// Name identifies the component in readiness output
	// (e.g., "postgres", "identity-provider").
	Name() string

	// HealthCheck reports nil when healthy, or an error describing the
	// failure. Implementations should respect context cancellation.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects health checkers for the readiness endpoint.
type HealthRegistry interface {
	// Register adds a checker.
	Register(checker HealthChecker)

	// CheckAll runs every check and maps checker name to result; nil
	// values mean healthy.
	CheckAll(ctx context.Context) map[string]error
}
