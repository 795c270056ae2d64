package source

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Dir is a [Source] over a directory of PNG frames, ordered by filename.
// Frames are decoded lazily on each read, so seeking is an index update
// rather than a decode.
type Dir struct {
	dir    string
	names  []string
	fps    float64
	pos    int
	closed bool
}

// OpenDir opens a directory of PNG frames as a source. The fps value is
// reported verbatim by [Dir.FPS]; pass 0 if unknown.
func OpenDir(dir string, fps float64) (*Dir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading frame directory: %w", err)
	}

	var names []string

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		if strings.HasSuffix(strings.ToLower(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}

	slices.Sort(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no PNG frames found in %s", dir)
	}

	return &Dir{
		dir:   dir,
		names: names,
		fps:   fps,
	}, nil
}

// ReadNext decodes the frame at the current position and advances.
func (d *Dir) ReadNext() (image.Image, error) {
	if d.closed {
		return nil, ErrClosed
	}

	if d.pos >= len(d.names) {
		return nil, ErrEndOfStream
	}

	name := d.names[d.pos]

	img, err := decodePNG(filepath.Join(d.dir, name))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}

	d.pos++

	return img, nil
}

// Seek moves the read position to the given frame index.
func (d *Dir) Seek(frame int) error {
	if d.closed {
		return ErrClosed
	}

	if frame < 0 || frame > len(d.names) {
		return fmt.Errorf("%w: frame %d of %d", ErrBadSeek, frame, len(d.names))
	}

	d.pos = frame

	return nil
}

// FrameCount returns the number of frames in the directory.
func (d *Dir) FrameCount() int {
	return len(d.names)
}

// FPS returns the frame rate the directory was opened with.
func (d *Dir) FPS() float64 {
	return d.fps
}

// Close marks the source closed. Idempotent.
func (d *Dir) Close() error {
	d.closed = true

	return nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		closeErr := f.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing %s: %v\n", path, closeErr)
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	return img, nil
}
