package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/colormatch/internal/services/auth"
	"github.com/mcoot/colormatch/internal/web/middleware"
)

// sessionCookieMaxAge matches the default login token lifetime
const sessionCookieMaxAge = 86400 * 7

// AuthHandler handles authentication actions
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// CreateGuest handles guest player creation
func (h *AuthHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.failAndGoHome(w, r, "Invalid form data")
		return
	}

	displayName := strings.TrimSpace(r.FormValue("display_name"))
	if displayName == "" {
		h.failAndGoHome(w, r, "Display name is required")
		return
	}
	if len([]rune(displayName)) > auth.MaxDisplayNameLength {
		displayName = string([]rune(displayName)[:auth.MaxDisplayNameLength])
	}

	session, err := h.authService.CreateGuestPlayer(r.Context(), displayName)
	if err != nil {
		h.failAndGoHome(w, r, "Failed to create guest player")
		return
	}

	h.setSessionCookie(w, session.Token)
	middleware.SetFlash(w, middleware.FlashSuccess, "Welcome, "+session.Player.DisplayName+"!")
	redirectNext(w, r)
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.failAndGoHome(w, r, "Invalid form data")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		h.failAndGoHome(w, r, "Username and password are required")
		return
	}

	session, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		h.failAndGoHome(w, r, "Invalid username or password")
		return
	}

	h.setSessionCookie(w, session.Token)
	middleware.SetFlash(w, middleware.FlashSuccess, "Welcome back, "+session.Player.DisplayName+"!")
	redirectNext(w, r)
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.failAndGoHome(w, r, "Invalid form data")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")

	session, err := h.authService.RegisterPlayer(r.Context(), username, password, displayName)
	if err != nil {
		h.failAndGoHome(w, r, registrationMessage(err))
		return
	}

	h.setSessionCookie(w, session.Token)
	middleware.SetFlash(w, middleware.FlashSuccess, "Account created! Welcome, "+session.Player.DisplayName+"!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.authService.InvalidateSession(cookie.Value)
	}

	middleware.ClearSessionCookie(w)

	middleware.SetFlash(w, middleware.FlashInfo, "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) failAndGoHome(w http.ResponseWriter, r *http.Request, message string) {
	middleware.SetFlash(w, middleware.FlashError, message)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func registrationMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrUsernameExists):
		return "Username already taken"
	case errors.Is(err, auth.ErrInvalidUsername),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrDisplayNameRequired),
		errors.Is(err, auth.ErrDisplayNameTooLong):
		return err.Error()
	default:
		return "Registration failed"
	}
}

// redirectNext sends the browser to the form's next path, or home.
// Only local paths are followed.
func redirectNext(w http.ResponseWriter, r *http.Request) {
	next := r.FormValue("next")
	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
