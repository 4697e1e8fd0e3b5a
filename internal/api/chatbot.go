package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/robobook/backend/internal/knowledge"
	"github.com/robobook/backend/internal/log"
	"github.com/robobook/backend/internal/personalization"
	"github.com/robobook/backend/internal/profile"
	"github.com/robobook/backend/internal/skills"
)

// Responder routes a query to the right skill agent or the general tutor.
// Implemented by *skills.Orchestrator.
type Responder interface {
	Route(ctx context.Context, query, skillName string, userCtx *personalization.UserContext) (*skills.Response, error)
	RunSkill(ctx context.Context, skill skills.Skill, query string) (*skills.Response, error)
}

// Searcher retrieves textbook chunks by semantic similarity.
// Implemented by *knowledge.Store.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
}

// chatbotHandler serves the tutoring chat endpoints.
type chatbotHandler struct {
	responder Responder
	searcher  Searcher
	profiles  ProfileStore
	logger    log.Logger
}

type chatbotRequest struct {
	Query  string `json:"query"`
	Skill  string `json:"skill"`
	UserID string `json:"user_id"`
}

type chatbotResponse struct {
	Response     string              `json:"response"`
	Type         skills.ResponseType `json:"type,omitempty"`
	Personalized bool                `json:"personalized"`
}

// chat handles POST /api/chatbot. The session cookie identifies the user
// when present; an explicit user_id in the body is the fallback for clients
// that hold the id but not the cookie. Requests without either are served
// unpersonalized.
func (h *chatbotHandler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatbotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userCtx := h.resolveUserContext(r, req.UserID)

	resp, err := h.responder.Route(r.Context(), req.Query, req.Skill, userCtx)
	if err != nil {
		if errors.Is(err, skills.ErrEmptyInput) || errors.Is(err, skills.ErrUnknownSkill) {
			writeJSON(w, http.StatusOK, chatbotResponse{Response: err.Error()})
			return
		}
		h.logger.Error("routing chatbot query", "error", err)
		writeError(w, http.StatusInternalServerError, "generation_failed", "Failed to generate a response")
		return
	}

	writeJSON(w, http.StatusOK, chatbotResponse{
		Response:     resp.Response,
		Type:         resp.Type,
		Personalized: userCtx != nil,
	})
}

// greeting handles GET /api/chatbot/greeting.
func (h *chatbotHandler) greeting(w http.ResponseWriter, r *http.Request) {
	userCtx := h.resolveUserContext(r, "")
	writeJSON(w, http.StatusOK, map[string]any{
		"greeting":         skills.Greeting(userCtx),
		"is_authenticated": userCtx != nil,
	})
}

type queryRequest struct {
	Question     string `json:"question"`
	SelectedText string `json:"selected_text"`
}

// query handles POST /api/query: retrieval-augmented question answering
// over the ingested textbook. Retrieval failure degrades to an answer
// without textbook context rather than failing the request.
func (h *chatbotHandler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "question is required")
		return
	}

	question := req.Question
	if req.SelectedText != "" {
		question += "\nContext: " + req.SelectedText
	}

	prompt := question
	if h.searcher != nil {
		results, err := h.searcher.Search(r.Context(), req.Question, knowledge.WithTopK(3))
		if err != nil {
			h.logger.Warn("searching textbook chunks", "error", err)
		} else if len(results) > 0 {
			var b strings.Builder
			b.WriteString("Relevant textbook excerpts:\n")
			for _, res := range results {
				fmt.Fprintf(&b, "- %s\n", res.Chunk.Content)
			}
			b.WriteString("\n")
			b.WriteString(question)
			prompt = b.String()
		}
	}

	userCtx := h.resolveUserContext(r, "")
	resp, err := h.responder.Route(r.Context(), prompt, "", userCtx)
	if err != nil {
		h.logger.Error("answering query", "error", err)
		writeError(w, http.StatusInternalServerError, "generation_failed", "Failed to generate an answer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": resp.Response})
}

// resolveUserContext builds the personalization context for a request, or
// returns nil when no profile can be resolved.
func (h *chatbotHandler) resolveUserContext(r *http.Request, fallbackUserID string) *personalization.UserContext {
	userID := fallbackUserID
	if user, ok := userFromContext(r.Context()); ok {
		userID = user.ID
	}
	if userID == "" {
		return nil
	}

	p, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			h.logger.Warn("loading profile for personalization", "error", err, "user", userID)
		}
		return nil
	}

	userCtx := personalization.ContextOf(p)
	return &userCtx
}
