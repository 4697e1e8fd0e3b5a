package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/robobook/backend/internal/log"
	"github.com/robobook/backend/internal/profile"
)

// ProfileStore is the slice of the profile store the handlers need.
// Implemented by *profile.Store.
type ProfileStore interface {
	Create(ctx context.Context, userID string, software, hardware map[string]any) (*profile.Profile, error)
	Get(ctx context.Context, userID string) (*profile.Profile, error)
	Skills(ctx context.Context, userID string) (*profile.Skills, error)
	HardwareCapabilities(ctx context.Context, userID string) (*profile.HardwareCapabilities, error)
}

// profileHandler serves the authenticated profile endpoints.
type profileHandler struct {
	profiles ProfileStore
	logger   log.Logger
}

// getProfile handles GET /user/profile.
func (h *profileHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	p, err := h.profiles.Get(r.Context(), user.ID)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// getSkills handles GET /user/profile/skills.
func (h *profileHandler) getSkills(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	skills, err := h.profiles.Skills(r.Context(), user.ID)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// getHardware handles GET /user/profile/hardware.
func (h *profileHandler) getHardware(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	hw, err := h.profiles.HardwareCapabilities(r.Context(), user.ID)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hw)
}

func (h *profileHandler) writeProfileError(w http.ResponseWriter, err error) {
	if errors.Is(err, profile.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "User profile not found")
		return
	}
	h.logger.Error("loading profile", "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
