package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Public, no auth required.
	r.Get("/health", g.handleHealth())

	// Prometheus scrape endpoint.
	if g.gatherer != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(g.gatherer, promhttp.HandlerOpts{}))
	}

	// Webhooks, own per-source validation (HMAC or the channel's scheme).
	r.Post("/webhooks/{source}", g.dispatcher.ServeHTTP)

	// Admin endpoints, auth required. Not mounted if no auth configured.
	if g.config.Auth.IsConfigured() {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(g.config.Auth))
			r.Get("/status", g.handleStatus())
			r.Get("/ws/meter", g.handleMeterSocket())
			r.Route("/api", func(r chi.Router) {
				r.Get("/sessions", g.handleListSessions())
				r.Delete("/sessions/{id}", g.handleDeleteSession())
				r.Get("/modules", g.handleListModules())
			})
		})
	}

	return r
}
