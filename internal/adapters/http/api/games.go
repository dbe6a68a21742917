package api

import (
	"net/http"
)

type addGameRequest struct {
	GameID string `json:"game_id" validate:"required,max=64,excludesall=/"`
}

type gamesResponse struct {
	Games []string `json:"games"`
}

// handleListGames handles GET /games.
func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, gamesResponse{Games: s.deps.SupportedGames()})
}

// handleAddGame handles POST /games.
func (s *Server) handleAddGame(w http.ResponseWriter, r *http.Request) {
	var req addGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.deps.AddSupportedGame(req.GameID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, gamesResponse{Games: s.deps.SupportedGames()})
}
