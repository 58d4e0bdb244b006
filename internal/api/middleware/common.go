package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/colormatch/internal/api/apierr"
	"github.com/mcoot/colormatch/internal/middleware"
)

// Logging tags request logs with the api component.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "api")))
}

// Recovery answers a panicking handler with the INTERNAL_ERROR envelope.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "api")), func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
