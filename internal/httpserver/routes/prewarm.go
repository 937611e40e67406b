package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/data-tales/datasources/internal/httpserver/deps"
	"github.com/data-tales/datasources/internal/httpserver/handlers"
)

func init() { Register(registerPrewarm) }

func registerPrewarm(r chi.Router, d deps.Deps) {
	r.Post("/api/prewarm", handlers.Prewarm(d))
}
