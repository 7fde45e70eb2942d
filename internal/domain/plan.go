package domain

import (
	"encoding/json"
	"fmt"
)

const (
	// DefaultCrossfadeMs is used when a plan does not name a crossfade.
	DefaultCrossfadeMs = 1000

	// MinSongs is the smallest number of songs a mashup can be built from.
	MinSongs = 2
)

// Segment is a [StartMs, EndMs) millisecond range of a source track.
type Segment struct {
	StartMs int64
	EndMs   int64
}

// Duration returns the length of the segment in milliseconds.
func (s Segment) Duration() int64 {
	return s.EndMs - s.StartMs
}

// Valid reports whether the segment starts at or after zero and ends after it starts.
func (s Segment) Valid() bool {
	return s.StartMs >= 0 && s.EndMs > s.StartMs
}

// MarshalJSON encodes the segment as a [start_ms, end_ms] pair.
func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{s.StartMs, s.EndMs})
}

// UnmarshalJSON decodes a [start_ms, end_ms] pair of integers.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var pair []int64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: segment must be a [start_ms, end_ms] pair: %v", ErrInvalidPlanShape, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: segment must have 2 bounds, got %d", ErrInvalidPlanShape, len(pair))
	}
	s.StartMs, s.EndMs = pair[0], pair[1]
	return nil
}

func (s Segment) String() string {
	return fmt.Sprintf("%d-%d", s.StartMs, s.EndMs)
}

// MashupPlan describes which songs to combine, which range of each to use,
// and how long the transition between consecutive songs is.
// Segments[i] applies to Songs[i].
type MashupPlan struct {
	Songs       []string  `json:"songs"`
	Segments    []Segment `json:"segments"`
	CrossfadeMs int       `json:"crossfade_ms"`
}

// ValidateStructure checks that songs and segments pair up and that there
// are enough songs to build a mashup.
func (p *MashupPlan) ValidateStructure() error {
	if p == nil {
		return fmt.Errorf("%w: plan is nil", ErrInvalidPlanShape)
	}
	if len(p.Songs) != len(p.Segments) {
		return fmt.Errorf("%w: %d songs, %d segments", ErrPlanLengthMismatch, len(p.Songs), len(p.Segments))
	}
	if len(p.Songs) < MinSongs {
		return fmt.Errorf("%w: got %d, need at least %d", ErrTooFewSongs, len(p.Songs), MinSongs)
	}
	return nil
}
