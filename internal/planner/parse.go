package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mixmateai/mixmate/internal/domain"
)

// StripFences removes code fence markers the model sometimes wraps its JSON in.
func StripFences(content string) string {
	for {
		next := strings.TrimSpace(content)
		next = strings.ReplaceAll(next, "```json", "")
		next = strings.ReplaceAll(next, "```", "")
		next = strings.TrimSpace(next)
		if next == content {
			return next
		}
		content = next
	}
}

// ParsePlan turns the raw text of a model answer into a structurally valid
// plan. Temporal bounds are not checked here since they need the audio.
func ParsePlan(raw string) (*domain.MashupPlan, error) {
	content := StripFences(raw)
	slog.Debug("Raw model response", "content", content)

	if !json.Valid([]byte(content)) {
		slog.Error("JSON parsing failed", "content", content)
		return nil, fmt.Errorf("%w: invalid JSON response from AI model", ErrMalformedResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: response is not a JSON object", domain.ErrInvalidPlanShape)
	}

	songs, err := parseSongs(fields["songs"])
	if err != nil {
		return nil, err
	}

	segments, err := parseSegments(fields["segments"])
	if err != nil {
		return nil, err
	}

	crossfade := int64(domain.DefaultCrossfadeMs)
	if rawCrossfade, ok := fields["crossfade_ms"]; ok && !isNull(rawCrossfade) {
		crossfade, err = parseInt(rawCrossfade)
		if err != nil {
			return nil, fmt.Errorf("crossfade_ms: %w", err)
		}
	}

	plan := &domain.MashupPlan{
		Songs:       songs,
		Segments:    segments,
		CrossfadeMs: int(crossfade),
	}

	if err := plan.ValidateStructure(); err != nil {
		return nil, err
	}

	return plan, nil
}

func parseSongs(raw json.RawMessage) ([]string, error) {
	items, err := parseList(raw, "songs")
	if err != nil {
		return nil, err
	}

	songs := make([]string, 0, len(items))
	for i, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err != nil {
			return nil, fmt.Errorf("%w: songs[%d] is not a filename", domain.ErrInvalidPlanShape, i)
		}
		songs = append(songs, strings.TrimSpace(name))
	}
	return songs, nil
}

func parseSegments(raw json.RawMessage) ([]domain.Segment, error) {
	items, err := parseList(raw, "segments")
	if err != nil {
		return nil, err
	}

	segments := make([]domain.Segment, 0, len(items))
	for i, item := range items {
		var bounds []json.RawMessage
		if err := json.Unmarshal(item, &bounds); err != nil || len(bounds) != 2 {
			return nil, fmt.Errorf("%w: segments[%d] must be a [start_ms, end_ms] pair", domain.ErrInvalidPlanShape, i)
		}

		start, err := parseInt(bounds[0])
		if err != nil {
			return nil, fmt.Errorf("segments[%d] start: %w", i, err)
		}
		end, err := parseInt(bounds[1])
		if err != nil {
			return nil, fmt.Errorf("segments[%d] end: %w", i, err)
		}

		segments = append(segments, domain.Segment{StartMs: start, EndMs: end})
	}
	return segments, nil
}

// parseList decodes a JSON array field. A missing or null field is an empty list.
func parseList(raw json.RawMessage, field string) ([]json.RawMessage, error) {
	if len(raw) == 0 || isNull(raw) {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s must be a list", domain.ErrInvalidPlanShape, field)
	}
	return items, nil
}

// parseInt coerces a JSON number or numeric string to an integer. Fractions
// are truncated toward zero.
func parseInt(raw json.RawMessage) (int64, error) {
	var value any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&value); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrMalformedResponse, v)
		}
		return int64(f), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrMalformedResponse, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s is not numeric", ErrMalformedResponse, string(raw))
	}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
