// Package validation decides which scores are allowed to reach a rank index.
package validation

import "fmt"

// ScoreValidator accepts or rejects a submitted score.
type ScoreValidator interface {
	Validate(score int64) error
}

// RangeValidator accepts scores within [Min, Max], both inclusive.
type RangeValidator struct {
	Min int64
	Max int64
}

// NewRangeValidator creates a validator for [minScore, maxScore].
func NewRangeValidator(minScore, maxScore int64) RangeValidator {
	return RangeValidator{Min: minScore, Max: maxScore}
}

// Validate returns ErrScoreOutOfRange, wrapped with the allowed range, when
// score falls outside the bounds.
func (v RangeValidator) Validate(score int64) error {
	if score < v.Min || score > v.Max {
		return fmt.Errorf("%w: score must be between %d and %d, got %d", ErrScoreOutOfRange, v.Min, v.Max, score)
	}
	return nil
}
