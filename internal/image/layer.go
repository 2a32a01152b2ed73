// Package image provides loading of the image being annotated.
package image

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"image-annotator/pkg/geometry"

	_ "golang.org/x/image/tiff"
)

// SupportedExtensions lists the file extensions the decoders understand.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}

// Layer is the image under annotation. The annotation engine never looks
// inside it; only the canvas (for display) and OCR (for region text) do.
type Layer struct {
	Path    string      // Original file path
	Image   image.Image // Decoded image data
	Format  string      // Decoder name reported by image.Decode
	Visible bool
}

// NewLayer creates a visible layer around img.
func NewLayer(img image.Image) *Layer {
	return &Layer{
		Image:   img,
		Visible: true,
	}
}

// IsSupported reports whether path has an extension Load can decode.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load decodes the image at path.
func Load(path string) (*Layer, error) {
	if !IsSupported(path) {
		return nil, fmt.Errorf("unsupported image type %q", filepath.Ext(path))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	layer := NewLayer(img)
	layer.Path = path
	layer.Format = format
	return layer, nil
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l == nil || l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Size returns the image dimensions, used to clamp pointer coordinates.
func (l *Layer) Size() geometry.Size {
	return geometry.Size{
		Width:  float64(l.Width()),
		Height: float64(l.Height()),
	}
}

// Crop copies the part of the image covered by r (in image pixel
// coordinates, any sign of extent) into a new RGBA image.
func (l *Layer) Crop(r geometry.Rect) (*image.RGBA, error) {
	if l == nil || l.Image == nil {
		return nil, fmt.Errorf("no image loaded")
	}
	ri := r.ToInt()
	bounds := l.Image.Bounds()
	src := image.Rect(ri.X, ri.Y, ri.X+ri.Width, ri.Y+ri.Height).
		Add(bounds.Min).
		Intersect(bounds)
	if src.Empty() {
		return nil, fmt.Errorf("region %+v lies outside the image", ri)
	}

	out := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(out, out.Bounds(), l.Image, src.Min, draw.Src)
	return out, nil
}
