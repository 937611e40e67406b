package handlers

import (
	"net/http"

	"github.com/data-tales/datasources/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready    bool `json:"ready"`
	Services int  `json:"services"`
}

// Readyz reports readiness: the service is ready once the registry is
// loaded; upstream OGC servers being down does not make us unready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, readyzResponse{
			Ready:    d.Registry.Len() > 0,
			Services: d.Registry.Len(),
		})
	}
}
