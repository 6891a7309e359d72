// Package middleware provides HTTP middleware for the API: trace ID
// propagation and bearer-token authentication.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taskhive/taskhive/internal/api/shared"
	"github.com/taskhive/taskhive/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and attaches it
// to the request-scoped logger. Apply early in the middleware chain so
// all subsequent handlers have access to the trace ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
