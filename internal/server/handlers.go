package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/repcounter/internal/counter"
	"github.com/claude/repcounter/internal/history"
	"github.com/claude/repcounter/internal/pose"
	"github.com/claude/repcounter/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxBodyBytes bounds request bodies; a frame is a few kilobytes.
const maxBodyBytes = 1 << 20

type startRequest struct {
	Exercise string   `json:"exercise"`
	Hand     string   `json:"hand"`
	WeightKg *float64 `json:"weight_kg"`
}

type frameRequest struct {
	Detected  *bool                    `json:"detected"`
	Landmarks map[string]pose.Landmark `json:"landmarks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.tracker.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	cfg := session.Config{WeightKg: s.defaultWeight}
	ex, err := counter.ParseExercise(req.Exercise)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cfg.Exercise = ex
	if req.Hand != "" {
		hand, err := counter.ParseHand(req.Hand)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		cfg.Hand = hand
	}
	if req.WeightKg != nil {
		cfg.WeightKg = *req.WeightKg
	}

	snap, err := s.tracker.Start(cfg)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.log.Info("workout started", "user", userInfoFromContext(r).Login, "exercise", cfg.Exercise)
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	var req frameRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	landmarks := req.Landmarks
	if req.Detected != nil && !*req.Detected {
		landmarks = nil
	}

	res, err := s.tracker.Frame(landmarks)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Reset())
}

func (s *Server) handleStopSession(w http.ResponseWriter, r *http.Request) {
	rec, err := s.tracker.Stop()
	if errors.Is(err, session.ErrNoActiveSession) {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.log.Info("workout recorded", "user", userInfoFromContext(r).Login, "id", rec.ID, "reps", rec.Reps)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	records, _ := s.tracker.History(r.Context(), limit)
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHistorySummary(w http.ResponseWriter, r *http.Request) {
	sum, _ := s.tracker.Summary(r.Context())
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout id"})
		return
	}
	rec, err := s.tracker.Record(id)
	if errors.Is(err, history.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	n := s.tracker.ClearHistory()
	s.log.Info("history cleared", "user", userInfoFromContext(r).Login, "records", n)
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// writeSessionError maps tracker errors to status codes.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	var cfgErr *session.ConfigError
	switch {
	case errors.As(err, &cfgErr), errors.Is(err, pose.ErrOutOfRange), errors.Is(err, pose.ErrDuplicateJoint):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrSessionActive), errors.Is(err, session.ErrNoActiveSession):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		s.log.Error("session error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
