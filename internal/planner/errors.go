package planner

import "errors"

var (
	ErrDependencyUnavailable = errors.New("generative model unavailable")
	ErrMalformedResponse     = errors.New("malformed model response")
)
