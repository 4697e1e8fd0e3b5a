package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/robobook/backend/internal/auth"
	"github.com/robobook/backend/internal/log"
)

// AuthService is the slice of the auth service the handlers need.
// Implemented by *auth.Service.
type AuthService interface {
	SessionValidator
	CreateUser(ctx context.Context, email, password, name string) (*auth.User, error)
	Authenticate(ctx context.Context, email, password string) (*auth.User, error)
	CreateSession(ctx context.Context, userID, ipAddress, userAgent string) (string, error)
	InvalidateSession(ctx context.Context, token string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// userPayload is the wire shape for a user, compatible with Better Auth
// clients.
type userPayload struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// sessionPayload is the wire shape for a session. ExpiresAt is a pointer so
// a missing expiry serializes as null rather than the zero time.
type sessionPayload struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type authResponse struct {
	User    userPayload    `json:"user"`
	Session sessionPayload `json:"session"`
}

func userPayloadOf(u *auth.User) userPayload {
	return userPayload{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.CreatedAt,
	}
}

// authHandler serves the email/password authentication endpoints.
type authHandler struct {
	service    AuthService
	trustProxy bool
	isDev      bool
	logger     log.Logger
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// signUp handles POST /api/auth/sign-up/email.
func (h *authHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_email", err.Error())
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_password", err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "email_exists", "User already exists")
			return
		}
		h.logger.Error("creating user", "error", err)
		writeError(w, http.StatusInternalServerError, "registration_failed", "Failed to create account")
		return
	}

	token, err := h.service.CreateSession(r.Context(), user.ID, clientIP(r, h.trustProxy), r.UserAgent())
	if err != nil {
		h.logger.Error("creating session", "error", err, "user", user.ID)
		writeError(w, http.StatusInternalServerError, "session_failed", "Failed to create session")
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{
		User:    userPayloadOf(user),
		Session: sessionPayload{Token: token},
	})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signIn handles POST /api/auth/sign-in/email.
func (h *authHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
			return
		}
		h.logger.Error("authenticating user", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	token, err := h.service.CreateSession(r.Context(), user.ID, clientIP(r, h.trustProxy), r.UserAgent())
	if err != nil {
		h.logger.Error("creating session", "error", err, "user", user.ID)
		writeError(w, http.StatusInternalServerError, "session_failed", "Failed to create session")
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{
		User:    userPayloadOf(user),
		Session: sessionPayload{Token: token},
	})
}

// signOut handles POST /api/auth/sign-out. Invalidating an unknown token is
// not an error; sign-out is idempotent.
func (h *authHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if _, err := h.service.InvalidateSession(r.Context(), token); err != nil {
			h.logger.Warn("invalidating session", "error", err)
		}
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// getSession handles GET /api/auth/get-session. Always returns 200; an
// unauthenticated request gets null session and user.
func (h *authHandler) getSession(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"session": nil, "user": nil})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:    userPayloadOf(user),
		Session: sessionPayload{Token: sessionToken(r)},
	})
}

func (h *authHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   !h.isDev,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *authHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !h.isDev,
		SameSite: http.SameSiteLaxMode,
	})
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return errors.New("email address is not valid")
	}
	return nil
}

// validatePassword enforces the account password policy: at least 8
// characters with an uppercase letter, a lowercase letter, and a digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("password must contain an uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain a lowercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain a digit")
	}
	return nil
}
