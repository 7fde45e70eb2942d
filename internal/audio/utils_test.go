package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecondsToMillis(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int64
		wantErr  bool
	}{
		{name: "whole seconds", value: "30.000000", expected: 30000},
		{name: "fractional seconds", value: "12.3456", expected: 12345},
		{name: "trailing newline", value: "1.5\n", expected: 1500},
		{name: "zero", value: "0", expected: 0},
		{name: "not available", value: "N/A", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "negative", value: "-1.0", wantErr: true},
		{name: "non-numeric", value: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := secondsToMillis(tt.value)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestMillisToSeconds(t *testing.T) {
	assert.Equal(t, "0.000", millisToSeconds(0))
	assert.Equal(t, "1.500", millisToSeconds(1500))
	assert.Equal(t, "30.001", millisToSeconds(30001))
}

func TestBuildFilterGraph(t *testing.T) {
	clips := []Clip{
		{Path: "a.mp3", StartMs: 0, EndMs: 30000},
		{Path: "b.mp3", StartMs: 1500, EndMs: 20000},
		{Path: "c.mp3", StartMs: 0, EndMs: 10000},
	}

	tests := []struct {
		name      string
		clips     []Clip
		crossfade int64
		expected  string
	}{
		{
			name:      "crossfade chain",
			clips:     clips,
			crossfade: 1000,
			expected: "[0:a]atrim=start=0.000:end=30.000,asetpts=PTS-STARTPTS[s0];" +
				"[1:a]atrim=start=1.500:end=20.000,asetpts=PTS-STARTPTS[s1];" +
				"[2:a]atrim=start=0.000:end=10.000,asetpts=PTS-STARTPTS[s2];" +
				"[s0][s1]acrossfade=d=1.000:c1=qsin:c2=qsin[x1];" +
				"[x1][s2]acrossfade=d=1.000:c1=qsin:c2=qsin[out]",
		},
		{
			name:      "two clips",
			clips:     clips[:2],
			crossfade: 2500,
			expected: "[0:a]atrim=start=0.000:end=30.000,asetpts=PTS-STARTPTS[s0];" +
				"[1:a]atrim=start=1.500:end=20.000,asetpts=PTS-STARTPTS[s1];" +
				"[s0][s1]acrossfade=d=2.500:c1=qsin:c2=qsin[out]",
		},
		{
			name:      "no crossfade concatenates",
			clips:     clips[:2],
			crossfade: 0,
			expected: "[0:a]atrim=start=0.000:end=30.000,asetpts=PTS-STARTPTS[s0];" +
				"[1:a]atrim=start=1.500:end=20.000,asetpts=PTS-STARTPTS[s1];" +
				"[s0][s1]concat=n=2:v=0:a=1[out]",
		},
		{
			name:      "single clip",
			clips:     clips[:1],
			crossfade: 1000,
			expected: "[0:a]atrim=start=0.000:end=30.000,asetpts=PTS-STARTPTS[s0];" +
				"[s0]anull[out]",
		},
		{
			name:     "no clips",
			clips:    nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildFilterGraph(tt.clips, tt.crossfade))
		})
	}
}
