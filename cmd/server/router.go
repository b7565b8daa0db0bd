package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dimitry-co/ai-study-buddy/internal/api"
	"github.com/dimitry-co/ai-study-buddy/internal/api/middleware"
	"github.com/dimitry-co/ai-study-buddy/internal/api/shared"
)

// newRouter assembles the HTTP routes. Generation sits behind JWT auth; the
// health endpoint is open so load balancers can probe it.
func newRouter(genHandler *api.GenerationHandler, authMW *middleware.AuthMiddleware) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(5 * time.Minute))
	r.Use(middleware.TraceMiddleware)

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Post("/generations", genHandler.Generate)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
