package api

import (
	"errors"
	"net/http"

	"github.com/robobook/backend/internal/log"
	"github.com/robobook/backend/internal/skills"
)

// skillsHandler serves the direct skill invocation endpoints. Each skill has
// its own request field name; run accepts them all and uses the first one
// present so the handler can serve every skill route.
type skillsHandler struct {
	responder Responder
	logger    log.Logger
}

type skillRequest struct {
	Term    string `json:"term"`    // glossary
	Topic   string `json:"topic"`   // diagram
	Text    string `json:"text"`    // translate
	Chapter string `json:"chapter"` // exercises
	Query   string `json:"query"`   // generic fallback
}

func (req *skillRequest) input() string {
	for _, v := range []string{req.Term, req.Topic, req.Text, req.Chapter, req.Query} {
		if v != "" {
			return v
		}
	}
	return ""
}

type skillResponse struct {
	Result string              `json:"result"`
	Type   skills.ResponseType `json:"type,omitempty"`
}

// run handles POST /api/skills/{skill}.
func (h *skillsHandler) run(w http.ResponseWriter, r *http.Request) {
	skill, err := skills.ParseSkill(r.PathValue("skill"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown_skill", "Unknown skill")
		return
	}

	var req skillRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.responder.RunSkill(r.Context(), skill, req.input())
	if err != nil {
		if errors.Is(err, skills.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, "invalid_request", "input must not be empty")
			return
		}
		h.logger.Error("running skill", "error", err, "skill", skill)
		writeError(w, http.StatusInternalServerError, "generation_failed", "Failed to generate a response")
		return
	}

	writeJSON(w, http.StatusOK, skillResponse{Result: resp.Response, Type: resp.Type})
}
