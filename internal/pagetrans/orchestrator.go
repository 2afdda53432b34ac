package pagetrans

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"pdf-translator/internal/docmodel"
	"pdf-translator/internal/langdetect"
	"pdf-translator/internal/logger"
)

// PageError records a page whose translation was aborted.
type PageError struct {
	Page int
	Err  error
}

// Report summarizes one document translation run.
type Report struct {
	RunID          string
	TargetLanguage string
	SourceLanguage string

	Pages      int
	Fragments  int
	Translated int
	Degraded   int
	Skipped    int

	PageErrors []PageError

	// SourceCorpus and TranslatedCorpus aggregate all fragment text across
	// pages, newline-joined in document order.
	SourceCorpus     string
	TranslatedCorpus string
}

// Orchestrator drives the per-document pipeline: extract everything, batch
// translate document-wide, then reclaim, fit and render page by page.
// A single orchestrator run owns its document's page surfaces exclusively;
// invocations are single-threaded by design.
type Orchestrator struct {
	Extractor *Extractor
	Batch     *BatchAdapter
	Reclaimer *Reclaimer
	Renderer  *Renderer
}

// TranslateDocument translates doc in place and returns the serialized
// result with a run report. Page-level failures are contained: the failed
// page keeps its original content and is recorded in the report while the
// rest of the document proceeds.
func (o *Orchestrator) TranslateDocument(ctx context.Context, doc docmodel.Document, targetLang string, scanned bool) ([]byte, *Report, error) {
	report := &Report{
		RunID:          uuid.New().String(),
		TargetLanguage: targetLang,
		Pages:          doc.PageCount(),
	}

	logger.Info("starting document translation",
		logger.String("runID", report.RunID),
		logger.String("targetLang", targetLang),
		logger.Int("pages", report.Pages),
		logger.Bool("scanned", scanned))

	pages, texts := o.extractAll(doc, scanned, report)
	report.Fragments = len(texts)
	report.SourceLanguage = langdetect.Detect(strings.Join(texts, "\n"))

	if len(texts) > 0 {
		result := o.Batch.TranslateAll(ctx, texts, targetLang)
		report.Degraded = result.Degraded
		report.Translated = len(texts) - result.Degraded
		o.assignTranslations(pages, result.Translations)
	}

	var sourceParts, translatedParts []string
	for _, page := range pages {
		for _, f := range page.Fragments {
			sourceParts = append(sourceParts, f.Text)
			translatedParts = append(translatedParts, f.Output())
		}
		o.translatePage(page, report)
	}
	report.SourceCorpus = strings.Join(sourceParts, "\n")
	report.TranslatedCorpus = strings.Join(translatedParts, "\n")

	data, err := doc.Bytes()
	if err != nil {
		return nil, report, NewTransError(ErrDocumentInvalid, "failed to serialize translated document", err)
	}

	logger.Info("document translation completed",
		logger.String("runID", report.RunID),
		logger.Int("fragments", report.Fragments),
		logger.Int("translated", report.Translated),
		logger.Int("degraded", report.Degraded),
		logger.Int("skipped", report.Skipped),
		logger.Int("pageErrors", len(report.PageErrors)))

	return data, report, nil
}

// extractAll inventories every page up front so translation can run
// document-wide in provider-sized batches instead of per page.
func (o *Orchestrator) extractAll(doc docmodel.Document, scanned bool, report *Report) ([]*Page, []string) {
	var pages []*Page
	var texts []string
	for i := 0; i < doc.PageCount(); i++ {
		surface, err := doc.Page(i)
		if err != nil {
			logger.Warn("failed to open page, skipping",
				logger.Int("page", i),
				logger.Err(err))
			report.PageErrors = append(report.PageErrors, PageError{
				Page: i,
				Err:  NewTransErrorWithPage(ErrExtraction, "failed to open page", i, err),
			})
			continue
		}
		page := o.Extractor.ExtractPage(surface, scanned)
		pages = append(pages, page)
		for _, f := range page.Fragments {
			texts = append(texts, f.Text)
		}
	}
	return pages, texts
}

func (o *Orchestrator) assignTranslations(pages []*Page, translations []string) {
	i := 0
	for _, page := range pages {
		for _, f := range page.Fragments {
			if i < len(translations) {
				f.Translated = translations[i]
			}
			i++
		}
	}
}

// translatePage reclaims and re-renders one page. Bold fragments render
// after normal ones so emphasis stays on top where regions overlap.
func (o *Orchestrator) translatePage(page *Page, report *Report) {
	if len(page.Fragments) == 0 {
		return
	}

	bounds := page.Surface.Bounds()
	regions := make([]docmodel.Rect, len(page.Fragments))
	for i, f := range page.Fragments {
		regions[i] = ComputeRenderRegion(f, bounds)
	}

	if err := o.Reclaimer.ReclaimPage(page, regions); err != nil {
		logger.Error("page reclamation failed, keeping original page", err,
			logger.Int("page", page.Number))
		report.PageErrors = append(report.PageErrors, PageError{Page: page.Number, Err: err})
		report.Skipped += len(page.Fragments)
		return
	}

	// Per-page embed-once set, owned here rather than stashed on the page.
	embedded := make(map[string]bool)

	for pass := 0; pass < 2; pass++ {
		bold := pass == 1
		for i, f := range page.Fragments {
			if f.Bold != bold {
				continue
			}
			if f.skipped {
				report.Skipped++
				continue
			}
			if err := o.Renderer.RenderFragment(page, f, regions[i], embedded); err != nil {
				logger.Warn("fragment rendering failed",
					logger.Int("page", page.Number),
					logger.Int("fragment", i),
					logger.Err(err))
				report.Skipped++
			}
		}
	}
}
