package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/colormatch/internal/api/apierr"
	"github.com/mcoot/colormatch/internal/web/middleware"
	"github.com/mcoot/colormatch/internal/web/templates/components"
	"github.com/mcoot/colormatch/internal/web/templates/layout"
	"github.com/mcoot/colormatch/internal/web/templates/pages"
)

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = c.Render(r.Context(), w)
}

// renderError shows a full error page, or just the message for htmx requests
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierr.Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Something went wrong. Please try again later."
	}

	if isHTMX(r) {
		render(w, r, status, components.ErrorMessage(message))
		return
	}
	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: "Error", Player: middleware.GetPlayer(r.Context())},
		Message:  message,
	}))
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
