package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/halvardsen/numwb/server/middle"
)

// NewRouter assembles the full chi router for the workbench HTTP service:
// an unauthenticated /login and /info, and a bearer-token-gated /presets
// and /solves CRUD surface built on top of api.
func NewRouter(api *API, unauthDelay time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middle.DontPanic())

	r.Get("/info", api.HTTPGetInfo())
	r.Post("/login", api.HTTPPostLogin())

	r.Group(func(r chi.Router) {
		r.Use(middle.RequireAuth(api.Secret, unauthDelay))

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", api.HTTPGetPresets())
			r.Post("/", api.HTTPPostPresets())
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.HTTPGetPreset())
				r.Put("/", api.HTTPPutPreset())
				r.Delete("/", api.HTTPDeletePreset())
			})
		})

		r.Route("/solves", func(r chi.Router) {
			r.Get("/", api.HTTPGetSolves())
			r.Post("/", api.HTTPPostSolves())
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.HTTPGetSolve())
				r.Delete("/", api.HTTPDeleteSolve())
			})
		})
	})

	return r
}
