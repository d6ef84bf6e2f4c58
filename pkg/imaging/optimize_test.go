package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestOptimizeResizesLargeImages(t *testing.T) {
	src := encodePNG(t, 1600, 1200)

	data, name, err := Optimize(src, "banner.png")
	require.NoError(t, err)
	require.Equal(t, "banner.jpg", name)

	out, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	bounds := out.Bounds()
	require.LessOrEqual(t, bounds.Dx(), MaxWidth)
	require.LessOrEqual(t, bounds.Dy(), MaxHeight)
	// Aspect ratio preserved: 1600x1200 fits to 800x600.
	require.Equal(t, 800, bounds.Dx())
	require.Equal(t, 600, bounds.Dy())
}

func TestOptimizeKeepsSmallImages(t *testing.T) {
	src := encodePNG(t, 300, 200)

	data, name, err := Optimize(src, "thumb")
	require.NoError(t, err)
	require.Equal(t, "thumb.jpg", name)

	out, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 300, out.Bounds().Dx())
	require.Equal(t, 200, out.Bounds().Dy())
}

func TestOptimizeRejectsGarbage(t *testing.T) {
	_, _, err := Optimize(bytes.NewReader([]byte("not an image")), "x.png")
	require.Error(t, err)
}
