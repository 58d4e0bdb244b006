package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/colormatch/internal/middleware"
	"github.com/mcoot/colormatch/internal/web/templates/components"
	"github.com/mcoot/colormatch/internal/web/templates/layout"
	"github.com/mcoot/colormatch/internal/web/templates/pages"
)

func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "web")))
}

// Recovery renders the error page. htmx requests get the bare fragment so
// it can be swapped into the board area.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "web")), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		message := "Something went wrong. Please try again later."
		if r.Header.Get("HX-Request") == "true" {
			_ = components.ErrorMessage(message).Render(r.Context(), w)
			return
		}
		data := pages.ErrorData{
			PageData: layout.PageData{Title: "Error", Player: GetPlayer(r.Context())},
			Message:  message,
		}
		_ = pages.Error(data).Render(r.Context(), w)
	})
}
