package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MelvinDenish/Skill-Swap/internal/api"
)

// HandleLogin authenticates against the backend and starts the live
// channels on success.
func (g *Gateway) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		http.Error(w, "Missing email or password", http.StatusBadRequest)
		return
	}

	resp, err := g.api.Login(r.Context(), req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, api.ErrUnauthorized) {
			status = http.StatusUnauthorized
		}
		http.Error(w, err.Error(), status)
		return
	}

	user := resp.User
	g.sessions.SetAuth(resp.Token, &user)
	g.StartRealtime()
	go func() {
		if err := g.cache.RefreshConversations(context.Background()); err != nil {
			log.Warningf("Initial conversation refresh failed: %v", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// HandleLogout best-effort informs the backend, drops local credentials
// unconditionally, and closes the live channels.
func (g *Gateway) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	g.sessions.Logout(r.Context())
	g.StopRealtime()
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession reports the current auth state. Token presence is
// authoritative; the profile may still be loading.
func (g *Gateway) HandleSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"authenticated": g.sessions.IsAuthenticated(),
		"user":          g.sessions.User(),
	})
}
