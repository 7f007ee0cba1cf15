package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/chris/jastip-settlement/pkg/models"
	"github.com/go-chi/chi/v5/middleware"
)

type logEntryKey struct{}

// logEntry is shared between the logger and the auth middleware further down the chain,
// so the access log can name the actor once the request has been authenticated.
type logEntry struct {
	actor *models.Actor
}

func recordActor(ctx context.Context, actor models.Actor) {
	if e, ok := ctx.Value(logEntryKey{}).(*logEntry); ok {
		e.actor = &actor
	}
}

// NewStructuredLogger is a custom middleware that provides structured logging for requests.
func NewStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			tww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			entry := &logEntry{}
			r = r.WithContext(context.WithValue(r.Context(), logEntryKey{}, entry))

			tStart := time.Now()
			defer func() {
				status := tww.Status()
				latency := time.Since(tStart)

				requestAttrs := slog.Group("request",
					slog.String("id", middleware.GetReqID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				)

				responseAttrs := slog.Group("response",
					slog.Int("status", status),
					slog.Int("bytes", tww.BytesWritten()),
					slog.String("latency", latency.String()),
				)

				attrs := []any{requestAttrs, responseAttrs}
				if entry.actor != nil {
					attrs = append(attrs, slog.Group("actor",
						slog.String("id", entry.actor.ID),
						slog.String("role", string(entry.actor.Role)),
					))
				}

				if status >= 500 {
					logger.Error("server error", attrs...)
				} else {
					logger.Info("request completed", attrs...)
				}
			}()

			next.ServeHTTP(tww, r)
		}
		return http.HandlerFunc(fn)
	}
}
