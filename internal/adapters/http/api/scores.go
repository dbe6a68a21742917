package api

import (
	"net/http"
	"strconv"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

type submitScoreRequest struct {
	GameID string `json:"game_id" validate:"required,max=64"`
	UserID string `json:"user_id" validate:"required,max=128"`
	Score  *int64 `json:"score" validate:"required"`
}

type ackResponse struct {
	Status string `json:"status"`
}

// handleSubmitScore handles POST /scores. With ?async=true the submission
// is queued and answered with 202.
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		writeError(w, err)
		return
	}
	if s.limiter != nil && !s.limiter.Allow(req.UserID) {
		metrics.RecordRateLimited()
		w.Header().Set("Retry-After", "1")
		writeError(w, ErrRateLimited)
		return
	}

	async, _ := strconv.ParseBool(r.URL.Query().Get("async"))
	if async {
		err := s.deps.Enqueue(r.Context(), model.Submission{
			GameID: req.GameID,
			UserID: req.UserID,
			Score:  *req.Score,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
		return
	}

	res, err := s.deps.SubmitScore(r.Context(), req.GameID, req.UserID, *req.Score)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
