// Package mashup realizes a validated plan into a single audio file.
package mashup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mixmateai/mixmate/internal/audio"
	"github.com/mixmateai/mixmate/internal/domain"
)

// ProgressFunc is called as songs are validated and when the output is written.
type ProgressFunc func(done, total int, message string)

// Executor slices the planned segments out of the source assets and joins
// them with crossfades.
type Executor struct {
	assetsDir string
	engine    audio.Engine
	bitrate   string
	progress  ProgressFunc
}

type Option func(*Executor)

// WithBitrate sets the encoder bitrate, e.g. "192k".
func WithBitrate(bitrate string) Option {
	return func(e *Executor) {
		e.bitrate = bitrate
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Executor) {
		e.progress = fn
	}
}

func NewExecutor(assetsDir string, engine audio.Engine, opts ...Option) *Executor {
	e := &Executor{
		assetsDir: assetsDir,
		engine:    engine,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute writes the mashup described by plan to outputPath and returns the
// path. On failure no file is left at outputPath by this call.
func (e *Executor) Execute(ctx context.Context, plan *domain.MashupPlan, outputPath string) (string, error) {
	if err := plan.ValidateStructure(); err != nil {
		slog.Error("Mashup creation failed", "error", err)
		return "", err
	}

	total := len(plan.Songs) + 1
	slog.Info("Starting mashup", "songs", len(plan.Songs))

	clips := make([]audio.Clip, 0, len(plan.Songs))
	for i, song := range plan.Songs {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		clip, err := e.loadClip(ctx, song, plan.Segments[i])
		if err != nil {
			slog.Error("Mashup creation failed", "song", song, "error", err)
			return "", err
		}
		clips = append(clips, clip)

		slog.Info("Added song", "song", song, "start_ms", clip.StartMs, "end_ms", clip.EndMs)
		e.report(i+1, total, fmt.Sprintf("Added %s (%d-%d ms)", song, clip.StartMs, clip.EndMs))
	}

	crossfade := EffectiveCrossfade(clips, int64(plan.CrossfadeMs))
	if crossfade != int64(plan.CrossfadeMs) {
		slog.Warn("Crossfade clamped", "requested_ms", plan.CrossfadeMs, "effective_ms", crossfade)
	}

	if err := e.write(ctx, clips, crossfade, outputPath); err != nil {
		slog.Error("Mashup creation failed", "output", outputPath, "error", err)
		return "", err
	}

	slog.Info("Mashup saved", "path", outputPath, "expected_duration_ms", ExpectedDurationMs(clips, crossfade))
	e.report(total, total, "Mashup saved")
	return outputPath, nil
}

// loadClip resolves the song, probes its duration and checks its segment.
func (e *Executor) loadClip(ctx context.Context, song string, segment domain.Segment) (audio.Clip, error) {
	path, err := e.resolve(song)
	if err != nil {
		return audio.Clip{}, err
	}

	durationMs, err := e.engine.Duration(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return audio.Clip{}, ctx.Err()
		}
		return audio.Clip{}, fmt.Errorf("%w: failed to load %s: %w", ErrSourceUnreadable, song, err)
	}

	if !segment.Valid() {
		return audio.Clip{}, fmt.Errorf("%w for %s: %d-%d", ErrInvalidSegment, song, segment.StartMs, segment.EndMs)
	}
	if segment.EndMs > durationMs {
		return audio.Clip{}, fmt.Errorf("%w: segment end %dms exceeds %s duration (%dms)", ErrSegmentOutOfRange, segment.EndMs, song, durationMs)
	}

	return audio.Clip{Path: path, StartMs: segment.StartMs, EndMs: segment.EndMs}, nil
}

// resolve maps a song name onto a file inside the assets directory.
func (e *Executor) resolve(song string) (string, error) {
	name := strings.TrimSpace(song)
	if name == "" {
		return "", fmt.Errorf("%w: empty filename", ErrSourceNotFound)
	}

	fullPath := filepath.Join(e.assetsDir, name)
	rel, err := filepath.Rel(e.assetsDir, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the assets directory", ErrSourceNotFound, song)
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, fullPath)
	}

	return fullPath, nil
}

// write renders into a temporary sibling of outputPath and renames it into
// place once encoding succeeded.
func (e *Executor) write(ctx context.Context, clips []audio.Clip, crossfade int64, outputPath string) error {
	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create output directory: %v", ErrEncodingFailure, err)
	}

	ext := strings.TrimPrefix(filepath.Ext(outputPath), ".")
	tempPath := filepath.Join(outputDir, "."+filepath.Base(outputPath)+".partial")
	defer os.Remove(tempPath)

	err := e.engine.Render(ctx, audio.RenderParams{
		Clips:         clips,
		CrossfadeMs:   crossfade,
		OutputPath:    tempPath,
		FileExtension: ext,
		Bitrate:       e.bitrate,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	return nil
}

func (e *Executor) report(done, total int, message string) {
	if e.progress != nil {
		e.progress(done, total, message)
	}
}

// EffectiveCrossfade clamps the requested crossfade so it never exceeds the
// shortest clip or the audio engine's limit.
func EffectiveCrossfade(clips []audio.Clip, requestedMs int64) int64 {
	crossfade := requestedMs
	if crossfade < 0 {
		crossfade = 0
	}
	if crossfade > audio.MaxCrossfadeMs {
		crossfade = audio.MaxCrossfadeMs
	}
	for _, clip := range clips {
		if d := clip.Duration(); d < crossfade {
			crossfade = d
		}
	}
	return crossfade
}

// ExpectedDurationMs is the length of the joined clips: every join overlaps
// the neighbouring clips by crossfadeMs.
func ExpectedDurationMs(clips []audio.Clip, crossfadeMs int64) int64 {
	if len(clips) == 0 {
		return 0
	}

	var total int64
	for _, clip := range clips {
		total += clip.Duration()
	}
	total -= int64(len(clips)-1) * crossfadeMs
	if total < 0 {
		return 0
	}
	return total
}
