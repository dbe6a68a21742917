package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/podium/internal/domain/ranking"
)

const defaultNeighborCount = 10

type neighborsResponse struct {
	UserID    string `json:"user_id"`
	Direction string `json:"direction"`
	Users     any    `json:"users"`
}

// handleRank handles GET /competitions/{id}/users/{user}.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	entry, err := s.deps.Rank(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "user"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleNeighbors handles
// GET /competitions/{id}/users/{user}/neighbors?direction=lower|higher&count=N.
func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("direction")
	if raw == "" {
		writeError(w, fmt.Errorf("%w: direction is required", ErrBadRequest))
		return
	}
	dir, err := ranking.ParseDirection(raw)
	if err != nil {
		writeError(w, err)
		return
	}
	count, err := intQuery(r, "count", min(defaultNeighborCount, s.deps.MaxNeighborCount()))
	if err != nil {
		writeError(w, err)
		return
	}

	user := chi.URLParam(r, "user")
	users, err := s.deps.Neighbors(r.Context(), chi.URLParam(r, "id"), user, dir, count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, neighborsResponse{UserID: user, Direction: dir.String(), Users: users})
}

func limitError(n, maxLimit int) error {
	return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrBadRequest, maxLimit, n)
}
