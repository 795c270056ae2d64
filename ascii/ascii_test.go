package ascii_test

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brkerd/video-to-ascii-mrd/ascii"
)

func TestResizeDimensions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		srcW, srcH int
		cols, rows int
	}{
		"wide source":   {srcW: 160, srcH: 90, cols: 40, rows: 10},
		"tall source":   {srcW: 90, srcH: 160, cols: 40, rows: 10},
		"square":        {srcW: 64, srcH: 64, cols: 16, rows: 8},
		"single cell":   {srcW: 10, srcH: 10, cols: 1, rows: 1},
		"clamped sizes": {srcW: 10, srcH: 10, cols: 0, rows: 0},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src := image.NewRGBA(image.Rect(0, 0, tc.srcW, tc.srcH))

			dst := ascii.Resize(src, tc.cols, tc.rows)

			wantCols := max(tc.cols, 1)
			wantRows := max(tc.rows, 1)

			assert.Equal(t, wantCols, dst.Bounds().Dx())
			assert.Equal(t, wantRows*2, dst.Bounds().Dy())
		})
	}
}

func TestResizePadsWithBlack(t *testing.T) {
	t.Parallel()

	// A very wide white source into a tall target leaves black bands at the
	// top and bottom.
	src := image.NewRGBA(image.Rect(0, 0, 100, 2))
	for x := range 100 {
		for y := range 2 {
			src.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	dst := ascii.Resize(src, 10, 10)

	require.Equal(t, 20, dst.Bounds().Dy())
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(9, 19))
}

func TestRenderHalfBlocks(t *testing.T) {
	t.Parallel()

	// One cell: red top pixel over blue bottom pixel.
	frame := image.NewRGBA(image.Rect(0, 0, 1, 2))
	frame.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	frame.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})

	got := ascii.Render(frame, 1, 1)

	want := "\033[38;2;255;0;0m\033[48;2;0;0;255m▀\033[0m\n"
	assert.Equal(t, want, got)
}

func TestRenderGridShape(t *testing.T) {
	t.Parallel()

	frame := image.NewRGBA(image.Rect(0, 0, 4, 6))

	got := ascii.Render(frame, 4, 3)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 3)

	for i, line := range lines {
		assert.Equal(t, 4, strings.Count(line, "▀"), "row %d", i)
		assert.True(t, strings.HasSuffix(line, "\033[0m"), "row %d missing reset", i)
	}
}

func TestRenderToReusesBuilder(t *testing.T) {
	t.Parallel()

	frame := image.NewRGBA(image.Rect(0, 0, 2, 2))

	var sb strings.Builder

	sb.WriteString("stale content")
	ascii.RenderTo(frame, 2, 1, &sb)

	first := sb.String()
	assert.NotContains(t, first, "stale")

	ascii.RenderTo(frame, 2, 1, &sb)
	assert.Equal(t, first, sb.String())
}

func TestRendererImplementsCapabilities(t *testing.T) {
	t.Parallel()

	var r ascii.Renderer

	src := image.NewRGBA(image.Rect(0, 0, 8, 8))

	frame := r.Resize(src, 4, 2)
	require.Equal(t, 4, frame.Bounds().Dx())

	grid := r.Render(frame, 4, 2)
	assert.Equal(t, ascii.Render(frame, 4, 2), grid)
}
