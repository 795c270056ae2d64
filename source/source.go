// Package source provides seekable frame sources over decoded video
// streams.
//
// A [Source] exposes sequential frame reads plus index-based seeking, frame
// count, and frame rate. An [Opener] turns a video identifier into an open
// [Source]; the playback engine opens one handle per logical slot and may
// hold two handles on the same identifier during a self-loop transition.
package source

import (
	"context"
	"errors"
	"image"
)

// Sentinel errors returned by frame sources.
var (
	// ErrEndOfStream indicates a clean end of stream on ReadNext.
	ErrEndOfStream = errors.New("end of stream")
	// ErrClosed indicates an operation on a closed source.
	ErrClosed = errors.New("source closed")
	// ErrBadSeek indicates a seek target outside the stream.
	ErrBadSeek = errors.New("seek out of range")
)

// DefaultFPS is assumed when a source cannot report its frame rate.
const DefaultFPS = 30.0

// Source is one open decodable video stream with a current read position.
//
// Sources are stateful sequential readers and are not safe for concurrent
// use; each is exclusively owned by the playback slot that opened it.
type Source interface {
	// ReadNext decodes and returns the frame at the current position,
	// advancing the position by one. It returns [ErrEndOfStream] once the
	// stream is exhausted.
	ReadNext() (image.Image, error)

	// Seek moves the read position to the given frame index. The index may
	// be anywhere in [0, FrameCount].
	Seek(frame int) error

	// FrameCount returns the total number of frames in the stream.
	FrameCount() int

	// FPS returns the stream's frame rate, or 0 if unknown.
	FPS() float64

	// Close releases the stream. Reads after Close fail with [ErrClosed].
	Close() error
}

// Opener opens video identifiers as frame sources.
type Opener interface {
	Open(ctx context.Context, identifier string) (Source, error)
}
