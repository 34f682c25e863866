package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/voltmesh/solarbot/internal/core"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Uptime   float64  `json:"uptime_seconds"`
	Version  string   `json:"version,omitempty"`
	Sessions int      `json:"sessions"`
	Modules  []string `json:"modules"`
}

// handleStatus returns an http.HandlerFunc for GET /status. Counter-style
// metrics live on /metrics; this is the operator overview.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			Uptime:  time.Since(g.startedAt).Round(time.Second).Seconds(),
			Version: g.version,
		}

		if g.sessions != nil {
			if n, err := g.sessions.Count(r.Context()); err == nil {
				resp.Sessions = n
			}
		}

		for _, m := range core.GetModules() {
			resp.Modules = append(resp.Modules, string(m.ID))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
