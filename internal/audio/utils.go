package audio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// secondsToMillis converts ffprobe's "12.345678" duration output to whole milliseconds.
func secondsToMillis(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return 0, fmt.Errorf("no duration reported")
	}

	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if seconds < 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return 0, fmt.Errorf("invalid duration %q", value)
	}

	return int64(math.Floor(seconds * 1000)), nil
}

// millisToSeconds formats milliseconds the way ffmpeg filter options expect.
func millisToSeconds(ms int64) string {
	return fmt.Sprintf("%.3f", float64(ms)/1000)
}

// BuildFilterGraph returns a filter_complex that trims input i to Clips[i]
// and joins the results into [out]. Consecutive clips overlap by crossfadeMs
// using equal-power curves; with no crossfade they are concatenated.
func BuildFilterGraph(clips []Clip, crossfadeMs int64) string {
	if len(clips) == 0 {
		return ""
	}

	filters := make([]string, 0, len(clips)*2)
	for i, clip := range clips {
		filters = append(filters, fmt.Sprintf("[%d:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[s%d]",
			i, millisToSeconds(clip.StartMs), millisToSeconds(clip.EndMs), i))
	}

	switch {
	case len(clips) == 1:
		filters = append(filters, "[s0]anull[out]")
	case crossfadeMs <= 0:
		var inputs strings.Builder
		for i := range clips {
			fmt.Fprintf(&inputs, "[s%d]", i)
		}
		filters = append(filters, fmt.Sprintf("%sconcat=n=%d:v=0:a=1[out]", inputs.String(), len(clips)))
	default:
		previous := "s0"
		for i := 1; i < len(clips); i++ {
			label := fmt.Sprintf("x%d", i)
			if i == len(clips)-1 {
				label = "out"
			}
			filters = append(filters, fmt.Sprintf("[%s][s%d]acrossfade=d=%s:c1=qsin:c2=qsin[%s]",
				previous, i, millisToSeconds(crossfadeMs), label))
			previous = label
		}
	}

	return strings.Join(filters, ";")
}
