package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RANForge/ranforge/internal/adapter/ws"
	"github.com/RANForge/ranforge/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers, hub *ws.Hub, corsOrigin string) {
	r.Use(middleware.RequestID)
	r.Use(Logger)
	r.Use(CORS(corsOrigin))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/workflows", h.ListWorkflows)
		r.Get("/workflows/{name}", h.GetWorkflow)

		r.Get("/runs", h.ListRuns)
		r.Post("/runs", h.StartRun)
		r.Get("/runs/{id}", h.GetRun)

		r.Post("/handoffs/validate", h.ValidateHandoffs)
	})

	r.Get("/ws", hub.HandleWS)
}
