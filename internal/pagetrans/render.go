package pagetrans

import (
	"pdf-translator/internal/docmodel"
	"pdf-translator/internal/logger"
)

// Renderer places fitted translation text onto page surfaces, choosing fonts
// and insertion strategies by script.
type Renderer struct {
	Fonts      *FontResolver
	TargetLang string
}

// RenderFragment draws one fragment's output text into region. The embedded
// set tracks fonts already embedded on this page; the orchestrator owns one
// set per page.
//
// Failures cascade through cheaper insertion strategies before giving up on
// the fragment: bounded textbox, then point-anchored lines, then the
// built-in family without embedding. Only a fully exhausted cascade reports
// an error.
func (r *Renderer) RenderFragment(page *Page, f *TextFragment, region docmodel.Rect, embedded map[string]bool) error {
	if f.skipped {
		return nil
	}
	text := f.Output()
	if text == "" {
		return nil
	}

	fit := FitText(text, region, f.FontSize)
	if !fit.Fits && f.Source == SourceScanned {
		// Scanned overflow reroutes to a page-margin band rather than
		// best-effort cramming over the covered area.
		region, _ = FallbackRegion(page.Surface.Bounds())
		fit = FitText(text, region, fallbackFontSize)
	}

	style := docmodel.TextStyle{
		FontSize: fit.FontSize,
		Color:    f.Color,
		Bold:     f.Bold,
	}

	if RequiresWideCoverage(text) {
		font := r.Fonts.Resolve(r.TargetLang, text)
		if !font.Builtin {
			if err := r.ensureEmbedded(page, font, embedded); err != nil {
				logger.Warn("font embedding failed, degrading to built-in family",
					logger.Int("page", page.Number),
					logger.String("font", font.Name),
					logger.Err(err))
				font = &FontResource{Name: BuiltinFontName, Builtin: true}
			}
		}
		if font.Builtin {
			logger.Warn("no wide-coverage font available, glyphs may not render",
				logger.Int("page", page.Number),
				logger.String("lang", r.TargetLang))
		}
		style.FontName = font.Name
	}

	if err := r.insert(page, region, text, fit, style); err != nil {
		return err
	}

	if f.Link != nil {
		// Link annotations are an enrichment; a failed annotation never
		// costs the rendered text.
		if err := page.Surface.InsertLink(docmodel.LinkSpec{
			Region:     region,
			URI:        f.Link.URI,
			TargetPage: f.Link.TargetPage,
			Dest:       f.Link.Dest,
		}); err != nil {
			logger.Debug("link annotation failed",
				logger.Int("page", page.Number),
				logger.Err(err))
		}
	}
	return nil
}

func (r *Renderer) ensureEmbedded(page *Page, font *FontResource, embedded map[string]bool) error {
	if embedded[font.Name] {
		return nil
	}
	if err := page.Surface.EmbedFont(font.Name, font.Data); err != nil {
		return err
	}
	embedded[font.Name] = true
	return nil
}

// insert tries the bounded textbox first, then point-anchored lines, then
// the built-in family at a point.
func (r *Renderer) insert(page *Page, region docmodel.Rect, text string, fit Fit, style docmodel.TextStyle) error {
	placed, err := page.Surface.InsertTextBox(region, text, style)
	if err == nil && placed > 0 {
		return nil
	}
	if err != nil {
		logger.Debug("textbox insertion failed, trying point insertion",
			logger.Int("page", page.Number),
			logger.Err(err))
	}

	if err := r.insertAtPoints(page, region, fit, style); err == nil {
		return nil
	}

	if style.FontName != "" && style.FontName != BuiltinFontName {
		plain := style
		plain.FontName = BuiltinFontName
		if err := r.insertAtPoints(page, region, fit, plain); err == nil {
			logger.Warn("fragment rendered with built-in family",
				logger.Int("page", page.Number))
			return nil
		}
	}

	return NewTransErrorWithPage(ErrRendering, "all insertion strategies failed", page.Number, err)
}

func (r *Renderer) insertAtPoints(page *Page, region docmodel.Rect, fit Fit, style docmodel.TextStyle) error {
	for _, line := range fit.Lines {
		if line.Text == "" {
			continue
		}
		at := docmodel.Point{
			X: region.X0,
			Y: region.Y0 + line.YOffset + style.FontSize,
		}
		if err := page.Surface.InsertTextAt(at, line.Text, style); err != nil {
			return err
		}
	}
	return nil
}
