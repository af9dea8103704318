package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/hanabot/internal/hub"
	"github.com/DoyleJ11/hanabot/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes builds the local control surface for the running bots.
func SetupRoutes(h *hub.Hub, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Get("/bots", ListBots(h))
	r.Route("/bots/{name}", func(r chi.Router) {
		r.Get("/", GetBot(h))
		r.Post("/join", JoinTable(h))
		r.Post("/follow", FollowUser(h))
		r.Post("/start", StartTable(h))
		r.Post("/tables", CreateTable(h))
	})
	return r
}
