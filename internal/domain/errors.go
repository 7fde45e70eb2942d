package domain

import "errors"

var (
	ErrInvalidPlanShape   = errors.New("invalid plan structure")
	ErrPlanLengthMismatch = errors.New("songs and segments count mismatch")
	ErrTooFewSongs        = errors.New("at least 2 songs required for mashup")
)
