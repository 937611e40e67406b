package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/data-tales/datasources/internal/httpserver/deps"
	"github.com/data-tales/datasources/internal/logger"
	"github.com/data-tales/datasources/internal/ogc"
)

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Capabilities serves GET /api/capabilities?service=<key>&refresh=0|1.
// refresh=1 bypasses the cache and forces a fresh upstream fetch.
func Capabilities(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceKey := strings.TrimSpace(r.URL.Query().Get("service"))
		refresh := r.URL.Query().Get("refresh") == "1"

		if serviceKey == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter 'service' is required"})
			return
		}

		result, err := d.Pipeline.Fetch(r.Context(), serviceKey, refresh)
		if err != nil {
			d.Logger.Warn("capabilities request failed",
				logger.String("service", serviceKey),
				logger.Bool("refresh", refresh),
				logger.Error(err))
			writeJSON(w, statusForError(err), errorResponse{Error: sanitizeError(err)})
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// statusForError maps typed pipeline failures onto HTTP status codes.
func statusForError(err error) int {
	switch ogc.KindOf(err) {
	case ogc.KindUnknownService, ogc.KindInvalidEndpoint:
		return http.StatusBadRequest
	case ogc.KindTimeout:
		return http.StatusGatewayTimeout
	case ogc.KindHTTPStatus, ogc.KindTransport, ogc.KindCapabilitiesUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sanitizeError bounds the message surfaced to clients.
func sanitizeError(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	if len(msg) > 280 {
		msg = msg[:280] + "…"
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
