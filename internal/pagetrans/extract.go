package pagetrans

import (
	"strings"

	"pdf-translator/internal/docmodel"
	"pdf-translator/internal/logger"
	"pdf-translator/internal/ocr"
)

const (
	// ocrScale is the raster magnification used for scanned extraction.
	// OCR coordinates are divided back by this factor to page units.
	ocrScale = 2.0

	// ocrConfidenceFloor discards words tesseract is unsure about.
	ocrConfidenceFloor = 30.0
)

// Extractor builds the text inventory of a page. The digital path walks the
// structured content tree at span granularity; the scanned path reconstructs
// line fragments from OCR word boxes.
type Extractor struct {
	OCR ocr.Engine
}

// ExtractPage inventories the fragments of surface. Extraction failures
// never abort the document: the page degrades to zero fragments.
func (e *Extractor) ExtractPage(surface docmodel.Page, scanned bool) *Page {
	page := &Page{Number: surface.Number(), Surface: surface}

	var (
		fragments []*TextFragment
		err       error
	)
	if scanned {
		fragments, err = e.extractScanned(surface)
	} else {
		fragments, err = e.extractDigital(surface)
	}
	if err != nil {
		logger.Warn("page extraction failed, emitting empty page",
			logger.Int("page", surface.Number()),
			logger.Bool("scanned", scanned),
			logger.Err(err))
		return page
	}

	page.Fragments = fragments
	return page
}

// extractDigital walks blocks, lines and spans. Span-level extraction keeps
// per-run styling that block-level text would flatten away.
func (e *Extractor) extractDigital(surface docmodel.Page) ([]*TextFragment, error) {
	blocks, err := surface.Content()
	if err != nil {
		return nil, NewTransErrorWithPage(ErrExtraction, "failed to read page content", surface.Number(), err)
	}

	links, err := surface.Links()
	if err != nil {
		// Links are an enrichment; a page without readable annotations
		// still yields its text.
		logger.Debug("page links unavailable",
			logger.Int("page", surface.Number()),
			logger.Err(err))
		links = nil
	}

	var fragments []*TextFragment
	for _, block := range blocks {
		for _, line := range block.Lines {
			for _, span := range line.Spans {
				text := strings.TrimSpace(span.Text)
				if text == "" {
					continue
				}
				fragments = append(fragments, &TextFragment{
					Text:     text,
					BBox:     span.BBox,
					FontSize: span.FontSize,
					Color:    span.Color,
					Bold:     span.Bold,
					Rotation: span.Rotation,
					Link:     firstIntersectingLink(span.BBox, links),
					Source:   SourceDigital,
				})
			}
		}
	}

	logger.Debug("digital extraction completed",
		logger.Int("page", surface.Number()),
		logger.Int("fragments", len(fragments)))
	return fragments, nil
}

// firstIntersectingLink attaches the first page link whose region intersects
// the span box. First match wins; there is no most-specific tie-break.
func firstIntersectingLink(box docmodel.Rect, links []docmodel.Link) *docmodel.Link {
	for i := range links {
		if links[i].BBox.Intersects(box) {
			return &links[i]
		}
	}
	return nil
}

// extractScanned rasterizes the page, recognizes words and merges them into
// line fragments.
func (e *Extractor) extractScanned(surface docmodel.Page) ([]*TextFragment, error) {
	if e.OCR == nil {
		return nil, NewTransErrorWithPage(ErrExtraction, "no OCR engine configured", surface.Number(), nil)
	}

	img, err := surface.Render(ocrScale)
	if err != nil {
		return nil, NewTransErrorWithPage(ErrExtraction, "failed to rasterize page", surface.Number(), err)
	}

	words, err := e.OCR.Recognize(img)
	if err != nil {
		return nil, NewTransErrorWithPage(ErrExtraction, "OCR recognition failed", surface.Number(), err)
	}

	fragments := mergeWords(words)
	logger.Debug("scanned extraction completed",
		logger.Int("page", surface.Number()),
		logger.Int("words", len(words)),
		logger.Int("fragments", len(fragments)))
	return fragments, nil
}

// mergeWords groups OCR words into line fragments. Words join the current
// line while their vertical offset stays within half the running average
// word height and the horizontal gap stays under max(3 x avg word width,
// 50 page units). Low-confidence words are discarded.
func mergeWords(words []ocr.Word) []*TextFragment {
	var fragments []*TextFragment

	var (
		lineTexts  []string
		lineBox    docmodel.Rect
		sumHeight  float64
		sumWidth   float64
		lineCount  int
		lastRight  float64
		lastCenter float64
	)

	flush := func() {
		if lineCount == 0 {
			return
		}
		fragments = append(fragments, &TextFragment{
			Text:     strings.Join(lineTexts, " "),
			BBox:     lineBox,
			FontSize: sumHeight / float64(lineCount),
			Color:    "#000000",
			Source:   SourceScanned,
		})
		lineTexts = nil
		sumHeight, sumWidth = 0, 0
		lineCount = 0
	}

	for _, w := range words {
		if w.Confidence < ocrConfidenceFloor {
			continue
		}
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}

		// Back from raster pixels to page units.
		box := docmodel.Rect{
			X0: w.Box.X0 / ocrScale,
			Y0: w.Box.Y0 / ocrScale,
			X1: w.Box.X1 / ocrScale,
			Y1: w.Box.Y1 / ocrScale,
		}
		center := (box.Y0 + box.Y1) / 2

		if lineCount > 0 {
			avgHeight := sumHeight / float64(lineCount)
			avgWidth := sumWidth / float64(lineCount)
			hGapLimit := 3 * avgWidth
			if hGapLimit < 50 {
				hGapLimit = 50
			}
			vGap := center - lastCenter
			if vGap < 0 {
				vGap = -vGap
			}
			if vGap > avgHeight*0.5 || box.X0-lastRight > hGapLimit {
				flush()
			}
		}

		if lineCount == 0 {
			lineBox = box
		} else {
			if box.X0 < lineBox.X0 {
				lineBox.X0 = box.X0
			}
			if box.Y0 < lineBox.Y0 {
				lineBox.Y0 = box.Y0
			}
			if box.X1 > lineBox.X1 {
				lineBox.X1 = box.X1
			}
			if box.Y1 > lineBox.Y1 {
				lineBox.Y1 = box.Y1
			}
		}
		lineTexts = append(lineTexts, text)
		sumHeight += box.Height()
		sumWidth += box.Width()
		lineCount++
		lastRight = box.X1
		lastCenter = center
	}
	flush()

	return fragments
}
