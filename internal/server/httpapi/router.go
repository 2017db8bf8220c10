package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the handlers into a chi router. Signup and login stay
// public; everything else under /api requires a bearer token.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/", h.Root)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/me", h.Me)
			r.Post("/chat", h.Chat)
			r.Get("/stats", h.Stats)
		})
	})

	return r
}
