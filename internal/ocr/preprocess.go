package ocr

import (
	"image"

	"gocv.io/x/gocv"
)

// minOCRHeight is the smallest region dimension Tesseract reads reliably.
const minOCRHeight = 150

// preprocessForOCR upscales small regions and binarizes them as dark text
// on a light background. The input is a BGR Mat; the result is BGR too.
func preprocessForOCR(region gocv.Mat) gocv.Mat {
	h, w := region.Rows(), region.Cols()

	var scaled gocv.Mat
	if minDim := min(h, w); minDim > 0 && minDim < minOCRHeight {
		scale := float64(minOCRHeight) / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(region, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = region.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{X: 8, Y: 8})
	defer clahe.Close()

	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Light text on a dark background: invert.
	if whiteRatio(binary) < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}

func whiteRatio(binary gocv.Mat) float64 {
	total := binary.Rows() * binary.Cols()
	if total == 0 {
		return 1
	}
	return float64(gocv.CountNonZero(binary)) / float64(total)
}
