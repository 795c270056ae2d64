package compose

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"strings"
)

// Sentinel errors returned by the compositor.
var (
	// ErrDimensionMismatch indicates the two input frames do not share
	// dimensions. The compositor never resizes; normalization is the
	// caller's job.
	ErrDimensionMismatch = errors.New("frame dimension mismatch")
	// ErrInvalidSpec indicates a transition spec that cannot be executed.
	ErrInvalidSpec = errors.New("invalid transition spec")
)

// Type identifies a transition blend algorithm.
type Type string

const (
	// TypeWipe replaces the frame along a moving boundary.
	TypeWipe Type = "wipe"
	// TypeCrossfade blends the frames per channel.
	TypeCrossfade Type = "crossfade"
	// TypeScan replaces cells one at a time in a fixed scan order.
	TypeScan Type = "scan"
)

// ParseType parses a transition type string.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(s))
	if slices.Contains([]Type{TypeWipe, TypeCrossfade, TypeScan}, t) {
		return t, nil
	}

	return "", fmt.Errorf("%w: unknown type %q", ErrInvalidSpec, s)
}

// Direction identifies the edge a wipe or scan grows from.
type Direction string

const (
	DirectionTop    Direction = "top"
	DirectionBottom Direction = "bottom"
	DirectionLeft   Direction = "left"
	DirectionRight  Direction = "right"
)

// ParseDirection parses a transition direction string.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(s))
	if slices.Contains([]Direction{DirectionTop, DirectionBottom, DirectionLeft, DirectionRight}, d) {
		return d, nil
	}

	return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidSpec, s)
}

// Opposite returns the geometric opposite direction. Transitions that move
// back toward the idle loop run with the opposite of the configured
// direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionTop:
		return DirectionBottom
	case DirectionBottom:
		return DirectionTop
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	}

	return d
}

// Spec describes one transition: the blend algorithm, the direction for the
// directional algorithms, and the number of composite steps.
//
// Crossfade has no directionality; its Direction is ignored.
type Spec struct {
	Type      Type
	Direction Direction
	Frames    int
}

// Validate reports whether the spec can be executed.
func (s Spec) Validate() error {
	if s.Frames < 1 {
		return fmt.Errorf("%w: frames must be >= 1, got %d", ErrInvalidSpec, s.Frames)
	}

	switch s.Type {
	case TypeCrossfade:
		// No directionality.
		return nil

	case TypeWipe, TypeScan:
		_, err := ParseDirection(string(s.Direction))
		if err != nil {
			return err
		}

		return nil
	}

	return fmt.Errorf("%w: unknown type %q", ErrInvalidSpec, s.Type)
}

// Composite blends from and to at the given progress fraction in (0, 1].
// At progress 1 the result is pixel-identical to to. Neither input is
// modified.
func (s Spec) Composite(from, to *image.RGBA, progress float64) (*image.RGBA, error) {
	if !from.Bounds().Eq(to.Bounds()) {
		return nil, fmt.Errorf("%w: from %v vs to %v",
			ErrDimensionMismatch, from.Bounds(), to.Bounds())
	}

	switch s.Type {
	case TypeWipe:
		return wipe(from, to, s.Direction, progress), nil
	case TypeCrossfade:
		return crossfade(from, to, progress), nil
	case TypeScan:
		return scan(from, to, s.Direction, progress), nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidSpec, s.Type)
}

// clone copies img so composites never alias their inputs.
func clone(img *image.RGBA) *image.RGBA {
	out := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)

	return out
}

// wipe splits the frame along a boundary at floor(extent * progress): the
// region swept from the leading edge shows to, the remainder shows from.
func wipe(from, to *image.RGBA, dir Direction, progress float64) *image.RGBA {
	out := clone(from)

	b := out.Bounds()
	w := b.Dx()
	h := b.Dy()

	switch dir {
	case DirectionTop:
		boundary := wipeBoundary(h, progress)
		copyRows(out, to, b.Min.Y, b.Min.Y+boundary)

	case DirectionBottom:
		boundary := wipeBoundary(h, progress)
		copyRows(out, to, b.Max.Y-boundary, b.Max.Y)

	case DirectionLeft:
		boundary := wipeBoundary(w, progress)
		copyCols(out, to, b.Min.X, b.Min.X+boundary)

	case DirectionRight:
		boundary := wipeBoundary(w, progress)
		copyCols(out, to, b.Max.X-boundary, b.Max.X)
	}

	return out
}

// wipeBoundary converts progress into a replaced extent. The floor keeps
// intermediate boundaries aligned to whole rows or columns; any positive
// progress replaces at least one, so every step is visible even when the
// step count exceeds the extent.
func wipeBoundary(extent int, progress float64) int {
	boundary := int(float64(extent) * progress)
	if boundary < 1 && progress > 0 && extent > 0 {
		boundary = 1
	}

	return boundary
}

// copyRows copies rows [y0, y1) of src into dst. Both share bounds.
func copyRows(dst, src *image.RGBA, y0, y1 int) {
	b := dst.Bounds()

	for y := y0; y < y1; y++ {
		lo := dst.PixOffset(b.Min.X, y)
		hi := dst.PixOffset(b.Max.X, y)
		copy(dst.Pix[lo:hi], src.Pix[src.PixOffset(b.Min.X, y):])
	}
}

// copyCols copies columns [x0, x1) of src into dst. Both share bounds.
func copyCols(dst, src *image.RGBA, x0, x1 int) {
	b := dst.Bounds()

	for y := b.Min.Y; y < b.Max.Y; y++ {
		lo := dst.PixOffset(x0, y)
		hi := dst.PixOffset(x1, y)
		copy(dst.Pix[lo:hi], src.Pix[src.PixOffset(x0, y):])
	}
}

// crossfade blends per channel: out = from*(1-progress) + to*progress,
// rounded to the nearest level. At progress 1 the result equals to exactly.
func crossfade(from, to *image.RGBA, progress float64) *image.RGBA {
	out := &image.RGBA{
		Pix:    make([]uint8, len(from.Pix)),
		Stride: from.Stride,
		Rect:   from.Rect,
	}

	inv := 1 - progress

	for i := range from.Pix {
		v := float64(from.Pix[i])*inv + float64(to.Pix[i])*progress

		out.Pix[i] = uint8(v + 0.5)
	}

	return out
}

// scan replaces round(total * progress) cells of from with the
// corresponding cells of to, following a fixed scan order derived from the
// direction: row-major from the top or bottom edge, column-major from the
// left or right edge. The order is stable across steps, so each step's
// replaced set is a superset of the previous step's.
func scan(from, to *image.RGBA, dir Direction, progress float64) *image.RGBA {
	out := clone(from)

	b := out.Bounds()
	w := b.Dx()
	h := b.Dy()
	total := w * h

	n := int(math.Round(float64(total) * progress))
	if n > total {
		n = total
	}

	for i := range n {
		var x, y int

		switch dir {
		case DirectionTop:
			x, y = i%w, i/w
		case DirectionBottom:
			j := total - 1 - i
			x, y = j%w, j/w
		case DirectionLeft:
			x, y = i/h, i%h
		case DirectionRight:
			j := total - 1 - i
			x, y = j/h, j%h
		}

		out.SetRGBA(b.Min.X+x, b.Min.Y+y, to.RGBAAt(b.Min.X+x, b.Min.Y+y))
	}

	return out
}
