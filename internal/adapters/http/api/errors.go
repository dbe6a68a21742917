package api

import (
	"errors"
	"net/http"

	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/games"
	"github.com/okian/podium/internal/domain/ranking"
	"github.com/okian/podium/internal/domain/validation"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("too many submissions")
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{repository.ErrNotFound, http.StatusNotFound, "not_found"},
	{ranking.ErrUnknownUser, http.StatusNotFound, "user_not_found"},
	{games.ErrGameNotSupported, http.StatusBadRequest, "game_not_supported"},
	{validation.ErrScoreOutOfRange, http.StatusBadRequest, "score_out_of_range"},
	{service.ErrCountTooLarge, http.StatusBadRequest, "count_too_large"},
	{ranking.ErrInvalidCount, http.StatusBadRequest, "invalid_count"},
	{ranking.ErrInvalidDirection, http.StatusBadRequest, "invalid_direction"},
	{service.ErrInvalidLimit, http.StatusBadRequest, "invalid_limit"},
	{service.ErrInvalidWindow, http.StatusBadRequest, "invalid_window"},
	{repository.ErrInvalidWindow, http.StatusBadRequest, "invalid_window"},
	{service.ErrMissingUserID, http.StatusBadRequest, "bad_request"},
	{repository.ErrInvalidGame, http.StatusBadRequest, "bad_request"},
	{games.ErrEmptyGameID, http.StatusBadRequest, "bad_request"},
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{service.ErrBackpressure, http.StatusTooManyRequests, "backpressure"},
	{ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
}

// statusFor translates a domain error into an HTTP status and error code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
