package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// defaultMeterInterval is the tick rate for the live meter stream.
const defaultMeterInterval = 2 * time.Second

// MeterTick is one frame of the live production stream.
type MeterTick struct {
	Timestamp    string  `json:"timestamp"`
	OutputKW     float64 `json:"output_kw"`
	SystemSizeKW float64 `json:"system_size_kw"`
}

// handleMeterSocket upgrades GET /ws/meter?chat_id= to a WebSocket and
// streams simulated meter readings for that user's system until the client
// disconnects.
func (g *Gateway) handleMeterSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := r.URL.Query().Get("chat_id")
		if chatID == "" {
			http.Error(w, "missing chat_id", http.StatusBadRequest)
			return
		}
		if g.sessions == nil {
			http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
			return
		}

		sess, err := g.sessions.Get(r.Context(), chatID)
		if err != nil {
			http.Error(w, "failed to load session", http.StatusInternalServerError)
			return
		}
		if sess == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		sizeKW := sess.SystemSize()

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Warn("meter socket accept failed", "error", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "stream ended")

		g.logger.Info("meter stream opened", "chat_id", chatID, "system_kw", sizeKW)
		g.streamMeter(r.Context(), conn, sizeKW)
	}
}

// streamMeter writes one MeterTick per interval until the context is done
// or the peer goes away.
func (g *Gateway) streamMeter(ctx context.Context, conn *websocket.Conn, sizeKW float64) {
	ticker := time.NewTicker(g.config.meterInterval())
	defer ticker.Stop()

	for {
		tick := MeterTick{
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			OutputKW:     g.sim.MeterReading(sizeKW),
			SystemSizeKW: sizeKW,
		}
		data, err := json.Marshal(tick)
		if err != nil {
			g.logger.Error("meter tick marshal failed", "error", err)
			return
		}
		if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
			if !errors.Is(err, context.Canceled) {
				g.logger.Debug("meter stream closed", "error", err)
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
