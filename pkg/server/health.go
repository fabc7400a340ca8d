package server

import (
	"net/http"
	"time"

	"github.com/olapd/olapd/pkg/httputil"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]any{
		"status":         "ok",
		"session":        s.session.ID(),
		"uptime_seconds": int64(s.Uptime().Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	names, err := s.registry.Names(r.Context())
	if err != nil {
		s.log.Warn("readiness check failed", "error", err)
		httputil.WriteServiceUnavailable(w, map[string]any{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	httputil.WriteOK(w, map[string]any{
		"status":   "ready",
		"catalogs": len(names),
	})
}
