package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/data-tales/datasources/internal/httpserver/deps"
	"github.com/data-tales/datasources/internal/httpserver/handlers"
)

func init() { Register(registerCapabilities) }

func registerCapabilities(r chi.Router, d deps.Deps) {
	r.Get("/api/capabilities", handlers.Capabilities(d))
}
