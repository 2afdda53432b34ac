package pagetrans

import (
	"pdf-translator/internal/docmodel"
	"pdf-translator/internal/logger"
)

// Reclaimer removes original text from a page ahead of rendering.
type Reclaimer struct{}

// ReclaimPage clears every fragment's render region on the page.
//
// Digital pages mark all regions first and apply the redactions in one
// atomic pass, because incremental application can invalidate subsequent
// region coordinates. Application failure is fatal for the page: the
// fitter's geometry is meaningless if stale text remains.
//
// Scanned pages paint opaque white rectangles over each region instead; a
// failed cover skips only that fragment's replacement.
func (r *Reclaimer) ReclaimPage(page *Page, regions []docmodel.Rect) error {
	if len(page.Fragments) == 0 {
		return nil
	}

	scanned := page.Fragments[0].Source == SourceScanned
	if scanned {
		r.coverScanned(page, regions)
		return nil
	}
	return r.redactDigital(page, regions)
}

func (r *Reclaimer) redactDigital(page *Page, regions []docmodel.Rect) error {
	for _, region := range regions {
		page.Surface.MarkRedact(region)
	}
	if err := page.Surface.ApplyRedactions(); err != nil {
		return NewTransErrorWithPage(ErrReclamation, "failed to apply redactions", page.Number, err)
	}
	logger.Debug("page redacted",
		logger.Int("page", page.Number),
		logger.Int("regions", len(regions)))
	return nil
}

func (r *Reclaimer) coverScanned(page *Page, regions []docmodel.Rect) {
	for i, region := range regions {
		if err := page.Surface.CoverRect(region); err != nil {
			logger.Warn("failed to cover region, skipping fragment replacement",
				logger.Int("page", page.Number),
				logger.Int("fragment", i),
				logger.Err(err))
			page.Fragments[i].skipped = true
		}
	}
}
