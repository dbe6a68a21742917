package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/podium/internal/domain/types"
)

const defaultTopLimit = 10

type competitionResponse struct {
	types.Competition
	Leaderboard []types.Entry `json:"leaderboard"`
}

// createCompetitionRequest opens a competition either over an explicit
// [start, end] window or for duration_seconds starting now. Without both
// the service default duration applies.
type createCompetitionRequest struct {
	GameID          string     `json:"game_id" validate:"required,max=64"`
	Start           *time.Time `json:"start" validate:"required_with=End"`
	End             *time.Time `json:"end" validate:"required_with=Start"`
	DurationSeconds int64      `json:"duration_seconds" validate:"gte=0"`
}

// handleCreateCompetition handles POST /competitions.
func (s *Server) handleCreateCompetition(w http.ResponseWriter, r *http.Request) {
	var req createCompetitionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	var (
		c   types.Competition
		err error
	)
	if req.Start != nil {
		c, err = s.deps.CreateCompetition(r.Context(), req.GameID, *req.Start, *req.End)
	} else {
		c, err = s.deps.CreateCompetitionFor(r.Context(), req.GameID, time.Duration(req.DurationSeconds)*time.Second)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleListCompetitions handles GET /competitions?game_id=.
func (s *Server) handleListCompetitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Competitions(r.Context(), r.URL.Query().Get("game_id")))
}

// handleGetCompetition handles GET /competitions/{id}: the competition and
// its full leaderboard.
func (s *Server) handleGetCompetition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.deps.Competition(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := s.deps.Leaderboard(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, competitionResponse{Competition: c, Leaderboard: entries})
}

// handleRetireCompetition handles DELETE /competitions/{id}.
func (s *Server) handleRetireCompetition(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.RetireCompetition(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTop handles GET /competitions/{id}/top?limit=N.
func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	n, err := intQuery(r, "limit", defaultTopLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	if n < 1 || n > s.maxLimit {
		writeError(w, limitError(n, s.maxLimit))
		return
	}
	entries, err := s.deps.Top(r.Context(), chi.URLParam(r, "id"), n)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
