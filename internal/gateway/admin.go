// Package gateway provides an HTTP server for administration, monitoring,
// and webhooks. It binds to loopback by default and follows the module system pattern.
package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voltmesh/solarbot/internal/core"
)

// sessionJSON is a serializable session snapshot for operators. The full
// session body stays private; this is the triage view.
type sessionJSON struct {
	UserID        string  `json:"user_id"`
	ChatID        string  `json:"chat_id,omitempty"`
	Name          string  `json:"name,omitempty"`
	State         string  `json:"state"`
	SystemSizeKW  float64 `json:"system_size_kw,omitempty"`
	Transactions  int     `json:"transactions"`
	NFTs          int     `json:"nfts"`
	TotalEarnings float64 `json:"total_earnings"`
	AutoTrading   bool    `json:"auto_trading"`
	LastUpdated   string  `json:"last_updated"`
}

// handleListSessions returns all sessions as JSON.
func (g *Gateway) handleListSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := []sessionJSON{}

		if g.sessions != nil {
			all, err := g.sessions.All(r.Context())
			if err != nil {
				http.Error(w, "failed to list sessions", http.StatusInternalServerError)
				return
			}
			for _, sess := range all {
				sessions = append(sessions, sessionJSON{
					UserID:        sess.UserID,
					ChatID:        sess.ChatID,
					Name:          sess.Name,
					State:         sess.State,
					SystemSizeKW:  sess.SystemSizeKW,
					Transactions:  len(sess.Transactions),
					NFTs:          len(sess.NFTs),
					TotalEarnings: sess.TotalEarnings,
					AutoTrading:   sess.AutoTradingEnabled(),
					LastUpdated:   sess.LastUpdated.UTC().Format(time.RFC3339),
				})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sessions)
	}
}

// handleDeleteSession deletes a session by user id.
func (g *Gateway) handleDeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "missing session id", http.StatusBadRequest)
			return
		}

		if g.sessions == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		sess, err := g.sessions.Get(r.Context(), id)
		if err != nil {
			http.Error(w, "failed to load session", http.StatusInternalServerError)
			return
		}
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		if err := g.sessions.Delete(r.Context(), id); err != nil {
			http.Error(w, "failed to delete session", http.StatusInternalServerError)
			return
		}

		g.logger.Info("session deleted via admin API", "user_id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// moduleJSON is a serializable module info snapshot.
type moduleJSON struct {
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// handleListModules lists all compiled modules.
func (g *Gateway) handleListModules() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		mods := core.GetModules()
		out := make([]moduleJSON, 0, len(mods))
		for _, m := range mods {
			out = append(out, moduleJSON{
				ID:        string(m.ID),
				Namespace: m.ID.Namespace(),
				Name:      m.ID.Name(),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}
