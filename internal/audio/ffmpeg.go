// Package audio probes and renders audio files using FFmpeg.
// Rendering trims each source clip and joins them with equal-power
// crossfades before encoding the result.
package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Supported audio file extensions and their corresponding FFmpeg codecs and formats
var (
	supportedExtensions = map[string]struct {
		codec  string
		format string
	}{
		"mp3":  {"libmp3lame", "mp3"},
		"m4a":  {"aac", "mp4"},
		"wav":  {"pcm_s16le", "wav"},
		"flac": {"flac", "flac"},
	}

	// Default audio settings
	defaultAudioBitrate  = "128k"
	defaultFileExtension = "mp3"
	defaultID3Version    = "3"
)

// MaxCrossfadeMs is the longest overlap acrossfade accepts.
const MaxCrossfadeMs = 60000

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrFileEmpty        = errors.New("file is empty")
	ErrInvalidPath      = errors.New("invalid path")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrNoClips          = errors.New("no clips to render")
)

// ffmpegError wraps FFmpeg command errors with additional context
type ffmpegError struct {
	cmd     string
	output  string
	wrapped error
}

func (e *ffmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %s\nCommand: %s\nOutput: %s", e.wrapped, e.cmd, e.output)
}

func (e *ffmpegError) Unwrap() error {
	return e.wrapped
}

// newFFmpegError creates a new ffmpegError with truncated command output
func newFFmpegError(cmd *exec.Cmd, output []byte, err error) error {
	cmdStr := cmd.String()
	if len(cmdStr) > 200 {
		cmdStr = cmdStr[:200] + "..."
	}
	out := string(output)
	if len(out) > 2000 {
		out = "..." + out[len(out)-2000:]
	}
	return &ffmpegError{
		cmd:     cmdStr,
		output:  out,
		wrapped: err,
	}
}

type ffmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

func NewFFMPEGEngine() *ffmpeg {
	return &ffmpeg{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
	}
}

func (f *ffmpeg) validateFile(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("unable to access file: %s: %w", path, err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrFileEmpty, path)
	}

	return nil
}

// Duration reports the container duration of the file in milliseconds.
func (f *ffmpeg) Duration(ctx context.Context, path string) (int64, error) {
	if err := f.validateFile(path); err != nil {
		return 0, fmt.Errorf("duration probe failed: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		var stderr []byte
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr = exitErr.Stderr
		}
		return 0, newFFmpegError(cmd, stderr, err)
	}

	ms, err := secondsToMillis(string(output))
	if err != nil {
		return 0, fmt.Errorf("duration probe failed for %s: %w", path, err)
	}

	slog.Debug("Probed audio duration", "path", path, "duration_ms", ms)
	return ms, nil
}

// Render trims every clip, joins the clips with the requested crossfade and
// encodes the result into rp.OutputPath.
func (f *ffmpeg) Render(ctx context.Context, rp RenderParams) error {
	if len(rp.Clips) == 0 {
		return ErrNoClips
	}

	for _, clip := range rp.Clips {
		if err := f.validateFile(clip.Path); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(rp.FileExtension, "."))
	if ext == "" {
		ext = defaultFileExtension
	}
	codecInfo, ok := supportedExtensions[ext]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	bitrate := rp.Bitrate
	if bitrate == "" {
		bitrate = defaultAudioBitrate
	}

	crossfade := rp.CrossfadeMs
	if crossfade > MaxCrossfadeMs {
		crossfade = MaxCrossfadeMs
	}

	args := []string{"-y", "-v", "error"}
	for _, clip := range rp.Clips {
		args = append(args, "-i", clip.Path)
	}

	graph := BuildFilterGraph(rp.Clips, crossfade)
	args = append(args,
		"-filter_complex", graph,
		"-map", "[out]",
		"-c:a", codecInfo.codec,
		"-b:a", bitrate,
		"-f", codecInfo.format,
	)
	if codecInfo.format == "mp3" {
		args = append(args, "-id3v2_version", defaultID3Version)
	}
	args = append(args, rp.OutputPath)

	slog.Debug("Rendering mashup",
		"clips", len(rp.Clips),
		"crossfade_ms", crossfade,
		"output", rp.OutputPath,
		"filter", graph,
	)

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return newFFmpegError(cmd, output, err)
	}

	return nil
}
