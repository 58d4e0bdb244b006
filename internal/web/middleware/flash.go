package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/mcoot/colormatch/internal/web/templates/layout"
)

const (
	flashCookieName                = "flash"
	flashContextKey     contextKey = "flash"
	flashCookieLifetime            = 60
)

// Flash kinds, used as CSS classes on the banner.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// GetFlash returns the message queued by the previous response, if any.
func GetFlash(ctx context.Context) *layout.FlashMessage {
	flash, _ := ctx.Value(flashContextKey).(*layout.FlashMessage)
	return flash
}

// SetFlash queues a one-shot banner for the next full page the browser loads.
func SetFlash(w http.ResponseWriter, kind, message string) {
	raw, _ := json.Marshal(layout.FlashMessage{Type: kind, Message: message})
	http.SetCookie(w, flashCookie(base64.RawURLEncoding.EncodeToString(raw), flashCookieLifetime))
}

// Flash consumes the flash cookie on full page loads. htmx swaps leave it
// in place, since a board fragment has nowhere to show the banner.
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(flashCookieName)
			if err != nil || cookie.Value == "" || r.Header.Get("HX-Request") == "true" {
				next.ServeHTTP(w, r)
				return
			}

			http.SetCookie(w, flashCookie("", -1))
			if flash := decodeFlash(cookie.Value); flash != nil {
				r = r.WithContext(context.WithValue(r.Context(), flashContextKey, flash))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func decodeFlash(value string) *layout.FlashMessage {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flash layout.FlashMessage
	if json.Unmarshal(raw, &flash) != nil || flash.Message == "" {
		return nil
	}
	if flash.Type == "" {
		flash.Type = FlashInfo
	}
	return &flash
}

func flashCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
