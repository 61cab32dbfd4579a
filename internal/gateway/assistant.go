package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/MelvinDenish/Skill-Swap/internal/draft"
	"github.com/MelvinDenish/Skill-Swap/internal/models"
)

// SetDrafts attaches the assistant draft store.
func (g *Gateway) SetDrafts(d *draft.Store) {
	g.drafts = d
}

// HandleAssistant serves the AI assistant: GET returns the locally cached
// transcript, POST asks a question and appends the exchange to the
// transcript, DELETE clears the local transcript.
func (g *Gateway) HandleAssistant(w http.ResponseWriter, r *http.Request) {
	user := g.sessions.User()
	if user == nil {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(g.drafts.Transcript(user.ID))

	case http.MethodPost:
		var req struct {
			Question string `json:"question"`
			Skill    string `json:"skill,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
			http.Error(w, "Missing question", http.StatusBadRequest)
			return
		}
		answer, err := g.api.AskAssistant(r.Context(), req.Question, req.Skill)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		entry := models.AiChatMessage{
			ID:        answer.ID,
			Question:  req.Question,
			Answer:    answer.Answer,
			Skill:     req.Skill,
			CreatedAt: answer.CreatedAt,
		}
		g.drafts.Append(user.ID, entry)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entry)

	case http.MethodDelete:
		g.drafts.Clear(user.ID)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
