package middleware

import "net/http"

// Chain folds a list of middleware into one. Middleware are applied so that
// the first argument sees the request first and the response last:
//
//	Chain(Recovery(logger), RequestID(), Timeout(d))(h)
//
// wraps h as Recovery(RequestID(Timeout(h))).
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := next
		for i := len(middlewares) - 1; i >= 0; i-- {
			wrapped = middlewares[i](wrapped)
		}
		return wrapped
	}
}
