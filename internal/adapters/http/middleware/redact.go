package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/unbacklog/backlog-service/internal/platform/logging"
)

// RedactHeaders flattens request headers into slog attributes for debug
// logging. Headers named in logging.SensitiveHeaders are replaced with
// "[REDACTED]" and multi-value headers are comma-joined.
func RedactHeaders(headers http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(headers))
	for key, vals := range headers {
		if logging.SensitiveHeaders[strings.ToLower(key)] {
			attrs = append(attrs, slog.String(key, "[REDACTED]"))
			continue
		}
		attrs = append(attrs, slog.String(key, strings.Join(vals, ",")))
	}
	return attrs
}
