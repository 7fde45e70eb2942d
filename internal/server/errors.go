package server

import (
	"errors"
	"net/http"

	"github.com/mixmateai/mixmate/internal/domain"
	"github.com/mixmateai/mixmate/internal/mashup"
	"github.com/mixmateai/mixmate/internal/planner"
)

var ErrRecommenderUnavailable = errors.New("recommender dataset not loaded")

type errorKind struct {
	err    error
	kind   string
	status int
}

// Checked in order; the first match wins.
var errorKinds = []errorKind{
	{planner.ErrDependencyUnavailable, "dependency_unavailable", http.StatusServiceUnavailable},
	{ErrRecommenderUnavailable, "dependency_unavailable", http.StatusServiceUnavailable},
	{planner.ErrMalformedResponse, "malformed_response", http.StatusBadGateway},
	{domain.ErrInvalidPlanShape, "invalid_plan_shape", http.StatusUnprocessableEntity},
	{domain.ErrPlanLengthMismatch, "plan_length_mismatch", http.StatusUnprocessableEntity},
	{domain.ErrTooFewSongs, "too_few_songs", http.StatusUnprocessableEntity},
	{mashup.ErrInvalidSegment, "invalid_segment", http.StatusUnprocessableEntity},
	{mashup.ErrSegmentOutOfRange, "segment_out_of_range", http.StatusUnprocessableEntity},
	{mashup.ErrSourceNotFound, "source_not_found", http.StatusUnprocessableEntity},
	{mashup.ErrSourceUnreadable, "source_unreadable", http.StatusUnprocessableEntity},
	{mashup.ErrEncodingFailure, "encoding_failure", http.StatusInternalServerError},
}

// classify maps a pipeline error to its kind and HTTP status.
func classify(err error) (string, int) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind, k.status
		}
	}
	return "internal", http.StatusInternalServerError
}
