package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// FFmpegOpener opens video files by extracting their frames to PNG
// directories via ffmpeg. A path that is already a directory is opened
// directly as a [Dir] source.
//
// Extractions are cached per identifier for the opener's lifetime, so
// reopening the same video (as the playback engine does on every self-loop
// transition) reuses the extracted frames instead of re-running ffmpeg.
// Call [FFmpegOpener.Close] to remove the extraction directories.
type FFmpegOpener struct {
	fps       int
	mu        sync.Mutex
	extracted map[string]string
}

// NewFFmpegOpener creates an opener that extracts frames at the given rate.
// Rates below 1 fall back to [DefaultFPS].
func NewFFmpegOpener(fps int) *FFmpegOpener {
	if fps < 1 {
		fps = int(DefaultFPS)
	}

	return &FFmpegOpener{
		fps:       fps,
		extracted: map[string]string{},
	}
}

// Open opens identifier as a frame source. Each call returns an independent
// source with its own read position, even for the same identifier.
func (o *FFmpegOpener) Open(ctx context.Context, identifier string) (Source, error) {
	info, err := os.Stat(identifier)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", identifier, err)
	}

	if info.IsDir() {
		return OpenDir(identifier, float64(o.fps))
	}

	dir, err := o.frameDir(ctx, identifier)
	if err != nil {
		return nil, err
	}

	return OpenDir(dir, float64(o.fps))
}

// frameDir returns the extraction directory for identifier, extracting on
// first use.
func (o *FFmpegOpener) frameDir(ctx context.Context, identifier string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if dir, ok := o.extracted[identifier]; ok {
		return dir, nil
	}

	dir, err := extractFrames(ctx, identifier, o.fps)
	if err != nil {
		return "", err
	}

	o.extracted[identifier] = dir

	return dir, nil
}

// Close removes all extraction directories. Sources opened from them become
// unreadable.
func (o *FFmpegOpener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var firstErr error

	for id, dir := range o.extracted {
		err := os.RemoveAll(dir)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("removing frames for %s: %w", id, err)
		}

		delete(o.extracted, id)
	}

	return firstErr
}

// extractFrames shells out to ffmpeg to extract PNG frames from a video
// file into a fresh temporary directory.
func extractFrames(ctx context.Context, videoPath string, fps int) (string, error) {
	_, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf(
			"ffmpeg not found in PATH: install ffmpeg or use a directory of PNG frames instead",
		)
	}

	tmpDir, err := os.MkdirTemp("", "asciiplay_frames_*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}

	pattern := filepath.Join(tmpDir, "frame_%05d.png")

	//nolint:gosec // videoPath and fps are operator-provided configuration, not untrusted input.
	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%d", fps),
		pattern,
	)

	// Captured rather than inherited: the player owns the terminal, so
	// ffmpeg chatter must not write over the frame grid.
	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	err = cmd.Run()
	if err != nil {
		os.RemoveAll(tmpDir)

		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("running ffmpeg: %w: %s", err, msg)
		}

		return "", fmt.Errorf("running ffmpeg: %w", err)
	}

	return tmpDir, nil
}
