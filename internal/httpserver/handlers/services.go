package handlers

import (
	"net/http"

	"github.com/data-tales/datasources/internal/httpserver/deps"
)

type serviceEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	URL   string `json:"url"`
}

type serviceGroup struct {
	Name     string         `json:"name"`
	Services []serviceEntry `json:"services"`
}

type servicesResponse struct {
	Count  int            `json:"count"`
	Groups []serviceGroup `json:"groups"`
}

// Services serves GET /api/services: the grouped registry listing used
// by consumers that render a service picker.
func Services(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := servicesResponse{Count: d.Registry.Len()}
		for _, group := range d.Registry.Grouped() {
			g := serviceGroup{Name: group.Name}
			for _, svc := range group.Services {
				g.Services = append(g.Services, serviceEntry{
					Key:   svc.Key,
					Label: svc.Label,
					Kind:  string(svc.Kind),
					URL:   svc.BaseURL,
				})
			}
			resp.Groups = append(resp.Groups, g)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
