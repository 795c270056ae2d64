// Package ascii converts decoded video frames into ANSI-colored half-block
// character grids sized to terminal dimensions.
//
// Each terminal cell represents two vertical pixels via foreground and
// background colors on the "▀" (upper half block) character, so a grid of
// cols x rows cells corresponds to a cols x rows*2 pixel frame.
package ascii

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Renderer implements the frame normalization and rendering capabilities
// consumed by the playback engine. The zero value is ready to use.
type Renderer struct{}

// Resize normalizes img for a cols x rows cell grid. It delegates to
// [Resize].
func (Renderer) Resize(img image.Image, cols, rows int) *image.RGBA {
	return Resize(img, cols, rows)
}

// Render converts a normalized frame into a character grid. It delegates to
// [Render].
func (Renderer) Render(frame *image.RGBA, cols, rows int) string {
	return Render(frame, cols, rows)
}

// Resize scales img to fit within cols x rows terminal cells (cols x rows*2
// pixels). The image is centered within the bounds, padded with black, and
// its aspect ratio is preserved.
func Resize(img image.Image, cols, rows int) *image.RGBA {
	if cols < 1 {
		cols = 1
	}

	if rows < 1 {
		rows = 1
	}

	pixW := cols
	pixH := rows * 2

	dst := image.NewRGBA(image.Rect(0, 0, pixW, pixH))

	srcBounds := img.Bounds()
	srcW := srcBounds.Dx()
	srcH := srcBounds.Dy()

	if srcW == 0 || srcH == 0 {
		return dst
	}

	// Compute scale to fit within target while maintaining aspect ratio.
	scaleX := float64(pixW) / float64(srcW)
	scaleY := float64(pixH) / float64(srcH)

	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	newW := int(float64(srcW) * scale)
	newH := int(float64(srcH) * scale)

	// Center within the destination.
	offsetX := (pixW - newW) / 2
	offsetY := (pixH - newH) / 2

	dstRect := image.Rect(offsetX, offsetY, offsetX+newW, offsetY+newH)
	draw.ApproxBiLinear.Scale(dst, dstRect, img, srcBounds, draw.Over, nil)

	return dst
}

// Render converts a normalized frame into ANSI-styled half-block characters.
// Each terminal row represents 2 vertical pixels: the top pixel is the
// foreground color and the bottom pixel is the background color of a "▀"
// character.
func Render(frame *image.RGBA, cols, rows int) string {
	var sb strings.Builder

	RenderTo(frame, cols, rows, &sb)

	return sb.String()
}

// RenderTo writes the character grid for frame to the provided builder,
// resetting it first. It allows callers on hot paths to reuse one builder.
func RenderTo(frame *image.RGBA, cols, rows int, w *strings.Builder) {
	w.Reset()

	b := frame.Bounds()
	pixW := b.Dx()
	pixH := b.Dy()

	for row := range rows {
		topY := b.Min.Y + row*2
		botY := topY + 1

		for x := range cols {
			var top, bot color.RGBA

			if x < pixW && row*2 < pixH {
				top = frame.RGBAAt(b.Min.X+x, topY)
			}

			if x < pixW && row*2+1 < pixH {
				bot = frame.RGBAAt(b.Min.X+x, botY)
			}

			fmt.Fprintf(w, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀", top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}

		w.WriteString("\033[0m\n")
	}
}
