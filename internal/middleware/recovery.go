package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicResponder writes the client-facing response after a handler panics.
type PanicResponder func(w http.ResponseWriter, r *http.Request)

// Recovery logs a handler panic and hands the response to respond.
// http.ErrAbortHandler is re-raised untouched: the stream handlers use it
// to drop a connection without a response.
func Recovery(logger *slog.Logger, respond PanicResponder) func(http.Handler) http.Handler {
	if respond == nil {
		respond = plainInternalError
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				attrs := append(requestAttrs(r),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				logger.ErrorContext(r.Context(), "handler panicked", attrs...)
				respond(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func plainInternalError(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
