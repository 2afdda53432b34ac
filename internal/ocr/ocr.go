// Package ocr provides optical character recognition for scanned pages.
package ocr

import (
	"image"

	"pdf-translator/internal/docmodel"
)

// Word is a single recognized word with its bounding box in image pixel
// coordinates and a confidence in [0, 100].
type Word struct {
	Text       string
	Box        docmodel.Rect
	Confidence float64
}

// Engine recognizes words in a page image.
type Engine interface {
	// Recognize returns the words found in img in reading order.
	Recognize(img image.Image) ([]Word, error)
}
