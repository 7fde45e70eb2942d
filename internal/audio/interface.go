package audio

import (
	"context"
)

// Engine probes and renders audio files.
type Engine interface {
	// Duration returns the length of the decoded audio in milliseconds.
	Duration(ctx context.Context, path string) (int64, error)

	// Render trims every clip and joins them in order into OutputPath.
	Render(ctx context.Context, rp RenderParams) error
}

// Clip is the [StartMs, EndMs) range of one source file.
type Clip struct {
	Path    string
	StartMs int64
	EndMs   int64
}

// Duration returns the length of the clip in milliseconds.
func (c Clip) Duration() int64 {
	return c.EndMs - c.StartMs
}

type RenderParams struct {
	Clips       []Clip
	CrossfadeMs int64
	OutputPath  string
	// FileExtension selects the codec and container. Defaults to mp3.
	FileExtension string
	// Bitrate defaults to 128k.
	Bitrate string
}
