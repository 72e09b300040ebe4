package worker

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/flacuna/ticketlens/pkg/models"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleHealth reports worker liveness and uptime.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !s.ready.Load() {
		status = "starting"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         status,
		"version":        s.version,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	})
}

// handleVectorHealth probes the vector store and reports collection
// existence and size.
func (s *Service) handleVectorHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"exists": false,
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"exists": true,
		"count":  count,
	})
}

// handleRecurrenceReport generates a recurrence report. Query params:
// start and end bound the window (both YYYY-MM-DD, both or neither),
// narrative=true requests the LLM overview.
func (s *Service) handleRecurrenceReport(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	withNarrative := r.URL.Query().Get("narrative") == "true"

	var window *models.Window
	if start != "" || end != "" {
		var err error
		window, err = models.ParseWindow(start, end)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	began := time.Now()
	rep, err := s.reports.Generate(r.Context(), window, withNarrative)
	if err != nil {
		s.metrics.recordRun(r.Context(), time.Since(began), 0, false)
		log.Error().Err(err).Msg("Report generation failed")
		writeError(w, http.StatusBadGateway, "report generation failed: "+err.Error())
		return
	}
	s.metrics.recordRun(r.Context(), time.Since(began), len(rep.Groups), true)

	writeJSON(w, http.StatusOK, rep)
}
