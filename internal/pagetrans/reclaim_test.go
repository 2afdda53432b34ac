package pagetrans

import (
	"errors"
	"testing"

	"pdf-translator/internal/docmodel"
)

func TestReclaimDigitalMarksAllThenAppliesOnce(t *testing.T) {
	surface := newFakePage(0, docmodel.Rect{X1: 612, Y1: 792})
	page := &Page{
		Number:  0,
		Surface: surface,
		Fragments: []*TextFragment{
			{Text: "a", Source: SourceDigital},
			{Text: "b", Source: SourceDigital},
			{Text: "c", Source: SourceDigital},
		},
	}
	regions := []docmodel.Rect{
		{X1: 10, Y1: 10},
		{X0: 20, X1: 30, Y1: 10},
		{X0: 40, X1: 50, Y1: 10},
	}

	r := &Reclaimer{}
	if err := r.ReclaimPage(page, regions); err != nil {
		t.Fatalf("ReclaimPage: %v", err)
	}

	// Batch-mark-then-apply: every mark precedes the single apply, because
	// incremental application can invalidate later region coordinates.
	want := []string{"mark", "mark", "mark", "apply"}
	if len(surface.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", surface.ops, want)
	}
	for i, op := range want {
		if surface.ops[i] != op {
			t.Fatalf("ops = %v, want %v", surface.ops, want)
		}
	}
	if len(surface.marked) != 3 {
		t.Errorf("marked %d regions, want 3", len(surface.marked))
	}
}

func TestReclaimDigitalApplyFailureIsPageFatal(t *testing.T) {
	surface := newFakePage(2, docmodel.Rect{X1: 612, Y1: 792})
	surface.applyErr = errors.New("redaction engine failure")
	page := &Page{
		Number:    2,
		Surface:   surface,
		Fragments: []*TextFragment{{Text: "a", Source: SourceDigital}},
	}

	r := &Reclaimer{}
	err := r.ReclaimPage(page, []docmodel.Rect{{X1: 10, Y1: 10}})
	if err == nil {
		t.Fatal("expected page-fatal error")
	}
	var te *TransError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *TransError", err)
	}
	if te.Code != ErrReclamation {
		t.Errorf("code = %q, want %q", te.Code, ErrReclamation)
	}
	if te.Page != 2 {
		t.Errorf("page = %d, want 2", te.Page)
	}
}

func TestReclaimScannedCoversEachRegion(t *testing.T) {
	surface := newFakePage(0, docmodel.Rect{X1: 612, Y1: 792})
	page := &Page{
		Number:  0,
		Surface: surface,
		Fragments: []*TextFragment{
			{Text: "a", Source: SourceScanned},
			{Text: "b", Source: SourceScanned},
		},
	}
	regions := []docmodel.Rect{
		{X1: 10, Y1: 10},
		{X0: 20, X1: 30, Y1: 10},
	}

	r := &Reclaimer{}
	if err := r.ReclaimPage(page, regions); err != nil {
		t.Fatalf("ReclaimPage: %v", err)
	}
	if len(surface.covered) != 2 {
		t.Errorf("covered %d regions, want 2", len(surface.covered))
	}
	for _, op := range surface.ops {
		if op == "apply" || op == "mark" {
			t.Errorf("scanned reclamation used redaction op %q", op)
		}
	}
}

func TestReclaimScannedCoverFailureSkipsFragmentOnly(t *testing.T) {
	surface := newFakePage(0, docmodel.Rect{X1: 612, Y1: 792})
	surface.coverErr = errors.New("paint failed")
	page := &Page{
		Number:  0,
		Surface: surface,
		Fragments: []*TextFragment{
			{Text: "a", Source: SourceScanned},
			{Text: "b", Source: SourceScanned},
		},
	}
	regions := []docmodel.Rect{{X1: 10, Y1: 10}, {X0: 20, X1: 30, Y1: 10}}

	r := &Reclaimer{}
	if err := r.ReclaimPage(page, regions); err != nil {
		t.Fatalf("scanned cover failure must not be page-fatal: %v", err)
	}
	for i, f := range page.Fragments {
		if !f.skipped {
			t.Errorf("fragment %d not marked skipped after cover failure", i)
		}
	}
}
