package pagetrans

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pdf-translator/internal/docmodel"
)

func newTestOrchestrator(provider *fakeProvider, lang string) *Orchestrator {
	return &Orchestrator{
		Extractor: &Extractor{},
		Batch:     &BatchAdapter{Provider: provider},
		Reclaimer: &Reclaimer{},
		Renderer:  &Renderer{Fonts: NewFontResolver(""), TargetLang: lang},
	}
}

func TestTranslateDocumentHelloBonjour(t *testing.T) {
	// One digital page with a single span "Hello" at (0,0,100,20), font 12,
	// translated to "Bonjour": the original region is redacted and the
	// replacement lands inside the expanded region of at most 110x20.
	surface := singleSpanPage(0, docmodel.Rect{X1: 612, Y1: 792}, docmodel.Span{
		Text:     "Hello",
		BBox:     docmodel.Rect{X0: 0, Y0: 0, X1: 100, Y1: 20},
		FontSize: 12,
		Color:    "#000000",
	})
	doc := &fakeDoc{pages: []*fakePage{surface}}

	provider := &fakeProvider{
		fn: func(texts []string, lang string) ([]string, error) {
			out := make([]string, len(texts))
			for i, text := range texts {
				if text == "Hello" {
					out[i] = "Bonjour"
				}
			}
			return out, nil
		},
	}

	orch := newTestOrchestrator(provider, "fr")
	data, report, err := orch.TranslateDocument(context.Background(), doc, "fr", false)
	if err != nil {
		t.Fatalf("TranslateDocument: %v", err)
	}
	if len(data) == 0 {
		t.Error("no output bytes")
	}

	if len(surface.marked) != 1 {
		t.Fatalf("marked %d regions, want 1", len(surface.marked))
	}
	if !surface.marked[0].Intersects(docmodel.Rect{X0: 0, Y0: 0, X1: 100, Y1: 20}) {
		t.Errorf("redaction region %+v misses the original span", surface.marked[0])
	}

	if len(surface.textBoxes) != 1 {
		t.Fatalf("placed %d textboxes, want 1", len(surface.textBoxes))
	}
	placed := surface.textBoxes[0]
	if placed.text != "Bonjour" {
		t.Errorf("placed %q, want %q", placed.text, "Bonjour")
	}
	if placed.box.X1 > 110 || placed.box.Y1 > 20 {
		t.Errorf("render region %+v exceeds the 110x20 envelope", placed.box)
	}

	if report.Fragments != 1 || report.Translated != 1 || report.Degraded != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.SourceCorpus != "Hello" || report.TranslatedCorpus != "Bonjour" {
		t.Errorf("corpora = %q / %q", report.SourceCorpus, report.TranslatedCorpus)
	}
	if report.RunID == "" {
		t.Error("report has no run ID")
	}
}

func TestTranslateDocumentPartialDegradation(t *testing.T) {
	surface := newFakePage(0, docmodel.Rect{X1: 612, Y1: 792})
	surface.blocks = []docmodel.Block{{
		Lines: []docmodel.Line{{
			Spans: []docmodel.Span{
				{Text: "Hi there, all.", BBox: docmodel.Rect{X1: 100, Y1: 20}, FontSize: 12},
				{Text: "Bye for now.", BBox: docmodel.Rect{Y0: 30, X1: 100, Y1: 50}, FontSize: 12},
			},
		}},
	}}
	doc := &fakeDoc{pages: []*fakePage{surface}}

	provider := &fakeProvider{
		fn: func(texts []string, lang string) ([]string, error) {
			return []string{"", "Hola"}, nil
		},
	}

	orch := newTestOrchestrator(provider, "es")
	_, report, err := orch.TranslateDocument(context.Background(), doc, "es", false)
	if err != nil {
		t.Fatalf("TranslateDocument: %v", err)
	}

	if len(surface.textBoxes) != 2 {
		t.Fatalf("placed %d textboxes, want 2", len(surface.textBoxes))
	}
	if surface.textBoxes[0].text != "Hi there, all." {
		t.Errorf("fragment 0 rendered %q, want the original text", surface.textBoxes[0].text)
	}
	if surface.textBoxes[1].text != "Hola" {
		t.Errorf("fragment 1 rendered %q, want %q", surface.textBoxes[1].text, "Hola")
	}
	if report.Degraded != 1 {
		t.Errorf("Degraded = %d, want 1", report.Degraded)
	}
}

func TestTranslateDocumentBoldRendersAfterNormal(t *testing.T) {
	surface := newFakePage(0, docmodel.Rect{X1: 612, Y1: 792})
	surface.blocks = []docmodel.Block{{
		Lines: []docmodel.Line{{
			Spans: []docmodel.Span{
				{Text: "Heavy lead-in text.", BBox: docmodel.Rect{X1: 100, Y1: 20}, FontSize: 12, Bold: true},
				{Text: "Normal body text follows.", BBox: docmodel.Rect{Y0: 30, X1: 100, Y1: 50}, FontSize: 12},
			},
		}},
	}}
	doc := &fakeDoc{pages: []*fakePage{surface}}

	orch := newTestOrchestrator(&fakeProvider{}, "fr")
	_, _, err := orch.TranslateDocument(context.Background(), doc, "fr", false)
	if err != nil {
		t.Fatalf("TranslateDocument: %v", err)
	}

	if len(surface.textBoxes) != 2 {
		t.Fatalf("placed %d textboxes, want 2", len(surface.textBoxes))
	}
	if surface.textBoxes[0].style.Bold {
		t.Error("first placement is bold, want normal-first ordering")
	}
	if !surface.textBoxes[1].style.Bold {
		t.Error("second placement is not bold")
	}
}

func TestTranslateDocumentReclamationFailureContainsPage(t *testing.T) {
	bad := singleSpanPage(0, docmodel.Rect{X1: 612, Y1: 792}, docmodel.Span{
		Text: "doomed page", BBox: docmodel.Rect{X1: 100, Y1: 20}, FontSize: 12,
	})
	bad.applyErr = errors.New("redaction failed")
	good := singleSpanPage(1, docmodel.Rect{X1: 612, Y1: 792}, docmodel.Span{
		Text: "healthy page", BBox: docmodel.Rect{X1: 100, Y1: 20}, FontSize: 12,
	})
	doc := &fakeDoc{pages: []*fakePage{bad, good}}

	orch := newTestOrchestrator(&fakeProvider{}, "fr")
	_, report, err := orch.TranslateDocument(context.Background(), doc, "fr", false)
	if err != nil {
		t.Fatalf("one bad page must not fail the document: %v", err)
	}

	if len(report.PageErrors) != 1 {
		t.Fatalf("PageErrors = %+v, want exactly one", report.PageErrors)
	}
	if report.PageErrors[0].Page != 0 {
		t.Errorf("failed page = %d, want 0", report.PageErrors[0].Page)
	}
	if len(bad.textBoxes) != 0 {
		t.Error("text rendered onto a page whose reclamation failed")
	}
	if len(good.textBoxes) != 1 {
		t.Errorf("healthy page placed %d textboxes, want 1", len(good.textBoxes))
	}
	if report.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", report.Skipped)
	}
}

func TestTranslateDocumentScannedCoverSkipsImageRegions(t *testing.T) {
	surface := newFakePage(0, docmodel.Rect{X1: 612, Y1: 792})
	page := &Page{
		Number:  0,
		Surface: surface,
		Fragments: []*TextFragment{{
			Text:       "scan line",
			Translated: "ligne",
			BBox:       docmodel.Rect{X0: 10, Y0: 10, X1: 110, Y1: 25},
			FontSize:   10,
			Source:     SourceScanned,
		}},
	}

	orch := newTestOrchestrator(&fakeProvider{}, "fr")
	report := &Report{}
	orch.translatePage(page, report)

	if len(surface.covered) != 1 {
		t.Fatalf("covered %d regions, want 1", len(surface.covered))
	}
	// An image sitting outside every fragment region is untouched: the
	// only covered rect stays within the fragment's padded neighborhood.
	imageRegion := docmodel.Rect{X0: 300, Y0: 300, X1: 500, Y1: 500}
	if surface.covered[0].Intersects(imageRegion) {
		t.Errorf("cover %+v bleeds into image region %+v", surface.covered[0], imageRegion)
	}
}

func TestTranslateDocumentEmptyDocument(t *testing.T) {
	doc := &fakeDoc{pages: []*fakePage{newFakePage(0, docmodel.Rect{X1: 612, Y1: 792})}}

	provider := &fakeProvider{}
	orch := newTestOrchestrator(provider, "fr")
	data, report, err := orch.TranslateDocument(context.Background(), doc, "fr", false)
	if err != nil {
		t.Fatalf("TranslateDocument: %v", err)
	}
	if len(data) == 0 {
		t.Error("no output bytes")
	}
	if report.Fragments != 0 {
		t.Errorf("Fragments = %d, want 0", report.Fragments)
	}
	if len(provider.calls) != 0 {
		t.Errorf("provider called %d times for an empty document", len(provider.calls))
	}
}

func TestTranslateDocumentCorporaAggregateAcrossPages(t *testing.T) {
	pageOne := singleSpanPage(0, docmodel.Rect{X1: 612, Y1: 792}, docmodel.Span{
		Text: "First page sentence.", BBox: docmodel.Rect{X1: 200, Y1: 20}, FontSize: 12,
	})
	pageTwo := singleSpanPage(1, docmodel.Rect{X1: 612, Y1: 792}, docmodel.Span{
		Text: "Second page sentence.", BBox: docmodel.Rect{X1: 200, Y1: 20}, FontSize: 12,
	})
	doc := &fakeDoc{pages: []*fakePage{pageOne, pageTwo}}

	orch := newTestOrchestrator(&fakeProvider{}, "de")
	_, report, err := orch.TranslateDocument(context.Background(), doc, "de", false)
	if err != nil {
		t.Fatalf("TranslateDocument: %v", err)
	}

	wantSource := "First page sentence.\nSecond page sentence."
	if report.SourceCorpus != wantSource {
		t.Errorf("SourceCorpus = %q, want %q", report.SourceCorpus, wantSource)
	}
	if !strings.Contains(report.TranslatedCorpus, "[de]First page sentence.") ||
		!strings.Contains(report.TranslatedCorpus, "[de]Second page sentence.") {
		t.Errorf("TranslatedCorpus = %q", report.TranslatedCorpus)
	}
}
