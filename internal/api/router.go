package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes live under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Dream journal routes
		r.Post("/dreams", apiHandler.CreateDreamHandler)
		r.Get("/dreams", apiHandler.ListDreamsHandler)
		r.Get("/dreams/{dreamID}", apiHandler.GetDreamHandler)
		r.Delete("/dreams/{dreamID}", apiHandler.DeleteDreamHandler)

		// Dream Guide chat
		r.Post("/dreams/{dreamID}/chat", apiHandler.ChatHandler)
	})

	return r
}
