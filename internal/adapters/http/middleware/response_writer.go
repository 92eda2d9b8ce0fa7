// Package middleware implements the inbound HTTP pipeline for the backlog
// service. The server installs the chain in this order:
//
//	Recovery, RequestID, CorrelationID, OpenTelemetry, Logging, Timeout
//
// with the handler at the innermost position. Every middleware has the shape
// func(http.Handler) http.Handler and composes through Chain.
package middleware

import "net/http"

// responseWriter records the status code and body size of a response as it
// passes through. Recovery, the otel middleware, and the request logger all
// read it after the handler returns.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader records the first status code. Later calls are dropped, which
// keeps net/http from logging a superfluous-WriteHeader warning when both a
// handler and a middleware try to finish the response.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

// Write counts body bytes. A write without a prior WriteHeader counts as the
// implicit 200 the underlying writer will send.
func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.headerWritten = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap exposes the wrapped writer for http.ResponseController and for
// interface upgrades like http.Flusher.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
