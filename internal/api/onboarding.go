package api

import (
	"errors"
	"net/http"

	"github.com/robobook/backend/internal/auth"
	"github.com/robobook/backend/internal/log"
	"github.com/robobook/backend/internal/onboarding"
)

const sessionNotFoundMessage = "Onboarding session not found or expired. Please start over."

// onboardingHandler serves the conversational signup flow. Sessions live in
// memory only; the account and profile are created in one step at complete.
type onboardingHandler struct {
	walker     *onboarding.Walker
	auth       AuthService
	profiles   ProfileStore
	cookies    *authHandler
	trustProxy bool
	logger     log.Logger
}

type onboardingStartRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// start handles POST /api/auth/onboarding/start.
func (h *onboardingHandler) start(w http.ResponseWriter, r *http.Request) {
	var req onboardingStartRequest
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

	exists, err := h.auth.EmailExists(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("checking email", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if exists {
		writeError(w, http.StatusBadRequest, "email_exists", "This email is already registered. Please sign in instead.")
		return
	}

	sess, first := h.walker.Start(req.Email, req.Password)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":       sess.ID,
		"current_question": first,
		"message":          "Onboarding started. Answer questions to complete signup.",
	})
}

// question handles GET /api/auth/onboarding/question/{id}.
func (h *onboardingHandler) question(w http.ResponseWriter, r *http.Request) {
	q, err := h.walker.CurrentQuestion(r.PathValue("id"))
	if err != nil {
		h.writeWalkerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"current_question": q})
}

type onboardingAnswerRequest struct {
	SessionID string `json:"session_id"`
	Answer    any    `json:"answer"`
}

// answer handles POST /api/auth/onboarding/answer.
func (h *onboardingHandler) answer(w http.ResponseWriter, r *http.Request) {
	var req onboardingAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.walker.SubmitAnswer(req.SessionID, req.Answer)
	if err != nil {
		h.writeWalkerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// summary handles GET /api/auth/onboarding/summary/{id}.
func (h *onboardingHandler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.walker.Summary(r.PathValue("id"))
	if err != nil {
		h.writeWalkerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type onboardingCompleteRequest struct {
	SessionID string `json:"session_id"`
}

// complete handles POST /api/auth/onboarding/complete. Creates the account,
// the profile, and an authenticated session in one step, then discards the
// onboarding session. Profile creation failure is logged but does not fail
// the request; the user account already exists at that point.
func (h *onboardingHandler) complete(w http.ResponseWriter, r *http.Request) {
	var req onboardingCompleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enrollment, err := h.walker.CredentialsAndProfile(req.SessionID)
	if err != nil {
		h.writeWalkerError(w, err)
		return
	}

	// The email was free at start, but another signup may have landed
	// since. Re-check before creating the account.
	exists, err := h.auth.EmailExists(r.Context(), enrollment.Email)
	if err != nil {
		h.logger.Error("checking email", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if exists {
		h.walker.Store().Delete(req.SessionID)
		writeError(w, http.StatusBadRequest, "email_exists", "This email is already registered.")
		return
	}

	user, err := h.auth.CreateUser(r.Context(), enrollment.Email, enrollment.Password, "")
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			h.walker.Store().Delete(req.SessionID)
			writeError(w, http.StatusBadRequest, "email_exists", "This email is already registered.")
			return
		}
		h.logger.Error("creating user", "error", err)
		writeError(w, http.StatusInternalServerError, "user_creation_failed", "Failed to create account. Please try again.")
		return
	}

	if _, err := h.profiles.Create(r.Context(), user.ID, enrollment.Software, enrollment.Hardware); err != nil {
		h.logger.Warn("creating profile", "error", err, "user", user.ID)
	}

	token, err := h.auth.CreateSession(r.Context(), user.ID, clientIP(r, h.trustProxy), r.UserAgent())
	if err != nil {
		h.logger.Error("creating session", "error", err, "user", user.ID)
		writeError(w, http.StatusInternalServerError, "session_failed", "Failed to create session")
		return
	}

	h.cookies.setSessionCookie(w, token)
	h.walker.Store().Delete(req.SessionID)

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    userPayloadOf(user),
		"session": sessionPayload{Token: token},
		"profile": map[string]any{
			"software_background": enrollment.Software,
			"hardware_background": enrollment.Hardware,
		},
		"message": "Account created successfully! Welcome aboard.",
	})
}

func (h *onboardingHandler) writeWalkerError(w http.ResponseWriter, err error) {
	if errors.Is(err, onboarding.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session_not_found", sessionNotFoundMessage)
		return
	}
	h.logger.Error("onboarding operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
