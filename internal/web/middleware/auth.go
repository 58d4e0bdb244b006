package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/auth"
)

type contextKey string

const loginContextKey contextKey = "login"

// SessionCookieName is the cookie holding the login token. The API accepts
// the same cookie, so the browser's event stream and the JSON API share a login.
const SessionCookieName = "session"

type login struct {
	token  string
	player *model.Player
}

// GetPlayer returns the logged-in player, or nil for anonymous visitors.
func GetPlayer(ctx context.Context) *model.Player {
	if l, ok := ctx.Value(loginContextKey).(*login); ok {
		return l.player
	}
	return nil
}

// GetToken returns the login token behind the current player.
func GetToken(ctx context.Context) string {
	if l, ok := ctx.Value(loginContextKey).(*login); ok {
		return l.token
	}
	return ""
}

// Auth sends anonymous visitors to the home page with a next parameter so
// sign-in can bring them back to the board they asked for. htmx requests
// get an HX-Redirect instead of a plain redirect.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := resolveLogin(w, r, authService)
			if l == nil {
				target := "/?next=" + url.QueryEscape(r.URL.Path)
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", target)
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loginContextKey, l)))
		})
	}
}

// OptionalAuth attaches the player when the cookie is valid and otherwise
// lets the request through anonymously.
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l := resolveLogin(w, r, authService); l != nil {
				r = r.WithContext(context.WithValue(r.Context(), loginContextKey, l))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveLogin looks the cookie's token up, expiring the cookie in the
// browser when the token is no longer valid.
func resolveLogin(w http.ResponseWriter, r *http.Request, authService *auth.Service) *login {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	player, err := authService.GetPlayer(cookie.Value)
	if err != nil {
		ClearSessionCookie(w)
		return nil
	}
	return &login{token: cookie.Value, player: player}
}

// ClearSessionCookie logs the browser out.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
