package handlers

import (
	"net/http"

	"github.com/data-tales/datasources/internal/httpserver/deps"
	"github.com/data-tales/datasources/internal/logger"
)

// Prewarm triggers a manual cache warm cycle.
func Prewarm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.PrewarmTrigger == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "prewarm is not configured"})
			return
		}

		select {
		case d.PrewarmTrigger <- struct{}{}:
			d.Logger.Info("manual prewarm triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("prewarm triggered\n"))
		default:
			d.Logger.Warn("prewarm already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("prewarm already in progress, please wait\n"))
		}
	}
}
