// Package ocr suggests commentary for a selection by reading the text inside
// the selected image region.
package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// Engine provides OCR functionality using Tesseract.
type Engine struct {
	client    *gosseract.Client
	whitelist string
}

// NewEngine creates a new OCR engine for the given Tesseract language
// ("eng" when empty).
func NewEngine(language string) (*Engine, error) {
	if language == "" {
		language = "eng"
	}
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// SetWhitelist restricts recognition to the given characters. An empty
// string allows everything.
func (e *Engine) SetWhitelist(chars string) {
	e.whitelist = chars
}

// clientSettings is the part of the Tesseract client configured before
// every recognition.
type clientSettings interface {
	SetPageSegMode(gosseract.PageSegMode) error
	SetWhitelist(string) error
}

// configure applies the engine settings to c. The whitelist is always set
// so that clearing it takes effect on a client that had one.
func (e *Engine) configure(c clientSettings) error {
	// PSM 6 = Assume a single uniform block of text
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := c.SetWhitelist(e.whitelist); err != nil {
		return fmt.Errorf("failed to set whitelist: %w", err)
	}
	return nil
}

// RecognizeImage reads the text in img, typically a cropped selection.
func (e *Engine) RecognizeImage(img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("empty image")
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return "", fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	processed := preprocessForOCR(mat)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.configure(e.client); err != nil {
		return "", err
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return CleanText(text), nil
}

// CleanText collapses whitespace runs and drops lines that carry no
// letters or digits, which Tesseract emits for borders and noise.
func CleanText(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if !strings.ContainsFunc(line, isWordRune) {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func isWordRune(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 0x7f
}
