package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"image-annotator/pkg/geometry"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "sample.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoad(t *testing.T) {
	path := writePNG(t, 40, 30)

	layer, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, layer.Path)
	require.Equal(t, "png", layer.Format)
	require.Equal(t, geometry.NewSize(40, 30), layer.Size())
	require.True(t, layer.Visible)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "notes.txt"))
	require.ErrorContains(t, err, "unsupported image type")

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorContains(t, err, "failed to open image")

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = Load(bad)
	require.ErrorContains(t, err, "failed to decode image")
}

func TestCrop(t *testing.T) {
	layer, err := Load(writePNG(t, 40, 30))
	require.NoError(t, err)

	out, err := layer.Crop(geometry.NewRect(30, 25, -20, -10))
	require.NoError(t, err)
	require.Equal(t, 20, out.Bounds().Dx())
	require.Equal(t, 10, out.Bounds().Dy())
	require.Equal(t, color.RGBA{R: 10, G: 15, A: 255}, out.RGBAAt(0, 0))

	clipped, err := layer.Crop(geometry.NewRect(35, 25, 100, 100))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 5, 5), clipped.Bounds())

	_, err = layer.Crop(geometry.NewRect(100, 100, 10, 10))
	require.Error(t, err)

	var empty *Layer
	_, err = empty.Crop(geometry.NewRect(0, 0, 1, 1))
	require.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	require.True(t, IsSupported("scan.TIFF"))
	require.True(t, IsSupported("/a/b/photo.jpeg"))
	require.False(t, IsSupported("notes.txt"))
}
