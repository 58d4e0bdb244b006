package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/colormatch/internal/api/apierr"
	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/auth"
)

type loginKey struct{}

// Auth rejects requests without a live login token. The token may come from
// a bearer header, the web session cookie, or a token query parameter, the
// last being the only option for a browser opening the session websocket.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := requestToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			login, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loginKey{}, login)))
		})
	}
}

func requestToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return r.URL.Query().Get("token")
}

// GetSession returns the login attached by Auth, or nil.
func GetSession(ctx context.Context) *auth.Session {
	login, _ := ctx.Value(loginKey{}).(*auth.Session)
	return login
}

// GetPlayer returns the logged-in player, or nil.
func GetPlayer(ctx context.Context) *model.Player {
	if login := GetSession(ctx); login != nil {
		return &login.Player
	}
	return nil
}

// MustGetPlayer is for handlers mounted behind Auth.
func MustGetPlayer(ctx context.Context) *model.Player {
	player := GetPlayer(ctx)
	if player == nil {
		panic("api: handler reached without Auth middleware")
	}
	return player
}
