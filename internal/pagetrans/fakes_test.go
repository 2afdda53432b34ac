package pagetrans

import (
	"context"
	"fmt"
	"image"

	"pdf-translator/internal/docmodel"
)

// fakePage is an in-memory docmodel.Page recording every mutation so tests
// can assert ordering and placement.
type fakePage struct {
	number int
	bounds docmodel.Rect
	blocks []docmodel.Block
	links  []docmodel.Link
	img    image.Image

	// recorded operations in call order, e.g. "mark", "apply", "cover",
	// "embed:Name", "textbox", "point", "link".
	ops []string

	marked   []docmodel.Rect
	covered  []docmodel.Rect
	embedded []string

	textBoxes []placedText
	points    []placedText
	inserted  []docmodel.LinkSpec

	contentErr error
	linksErr   error
	renderErr  error
	applyErr   error
	coverErr   error
	embedErr   error
	linkErr    error

	// textBoxPlaced overrides InsertTextBox's placed count when >= 0;
	// 0 with a nil error simulates text that did not fit.
	textBoxPlaced int
	textBoxErr    error
	insertAtErr   error
}

type placedText struct {
	text  string
	style docmodel.TextStyle
	box   docmodel.Rect
	at    docmodel.Point
}

func newFakePage(number int, bounds docmodel.Rect) *fakePage {
	return &fakePage{number: number, bounds: bounds, textBoxPlaced: -1}
}

func (p *fakePage) Number() int           { return p.number }
func (p *fakePage) Bounds() docmodel.Rect { return p.bounds }

func (p *fakePage) Content() ([]docmodel.Block, error) {
	if p.contentErr != nil {
		return nil, p.contentErr
	}
	return p.blocks, nil
}

func (p *fakePage) Links() ([]docmodel.Link, error) {
	if p.linksErr != nil {
		return nil, p.linksErr
	}
	return p.links, nil
}

func (p *fakePage) MarkRedact(r docmodel.Rect) {
	p.ops = append(p.ops, "mark")
	p.marked = append(p.marked, r)
}

func (p *fakePage) ApplyRedactions() error {
	p.ops = append(p.ops, "apply")
	return p.applyErr
}

func (p *fakePage) InsertTextBox(region docmodel.Rect, text string, style docmodel.TextStyle) (int, error) {
	p.ops = append(p.ops, "textbox")
	if p.textBoxErr != nil {
		return 0, p.textBoxErr
	}
	if p.textBoxPlaced >= 0 {
		return p.textBoxPlaced, nil
	}
	p.textBoxes = append(p.textBoxes, placedText{text: text, style: style, box: region})
	return len(text), nil
}

func (p *fakePage) InsertTextAt(at docmodel.Point, text string, style docmodel.TextStyle) error {
	p.ops = append(p.ops, "point")
	if p.insertAtErr != nil {
		return p.insertAtErr
	}
	p.points = append(p.points, placedText{text: text, style: style, at: at})
	return nil
}

func (p *fakePage) EmbedFont(name string, data []byte) error {
	p.ops = append(p.ops, "embed:"+name)
	if p.embedErr != nil {
		return p.embedErr
	}
	p.embedded = append(p.embedded, name)
	return nil
}

func (p *fakePage) CoverRect(r docmodel.Rect) error {
	p.ops = append(p.ops, "cover")
	if p.coverErr != nil {
		return p.coverErr
	}
	p.covered = append(p.covered, r)
	return nil
}

func (p *fakePage) InsertLink(spec docmodel.LinkSpec) error {
	p.ops = append(p.ops, "link")
	if p.linkErr != nil {
		return p.linkErr
	}
	p.inserted = append(p.inserted, spec)
	return nil
}

func (p *fakePage) Render(scale float64) (image.Image, error) {
	if p.renderErr != nil {
		return nil, p.renderErr
	}
	if p.img == nil {
		return nil, fmt.Errorf("no raster image configured")
	}
	return p.img, nil
}

// fakeDoc is an in-memory docmodel.Document over fake pages.
type fakeDoc struct {
	pages    []*fakePage
	data     []byte
	bytesErr error
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(i int) (docmodel.Page, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, fmt.Errorf("page %d out of range", i)
	}
	return d.pages[i], nil
}

func (d *fakeDoc) Bytes() ([]byte, error) {
	if d.bytesErr != nil {
		return nil, d.bytesErr
	}
	if d.data == nil {
		return []byte("%PDF-fake"), nil
	}
	return d.data, nil
}

func (d *fakeDoc) Close() error { return nil }

// fakeProvider is a scriptable translate.Provider.
type fakeProvider struct {
	name     string
	maxItems int
	maxChars int
	fn       func(texts []string, targetLang string) ([]string, error)

	calls [][]string
}

func (p *fakeProvider) Name() string {
	if p.name == "" {
		return "fake"
	}
	return p.name
}

func (p *fakeProvider) Limits() (int, int) {
	items, chars := p.maxItems, p.maxChars
	if items == 0 {
		items = 50
	}
	if chars == 0 {
		chars = 45000
	}
	return items, chars
}

func (p *fakeProvider) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	call := make([]string, len(texts))
	copy(call, texts)
	p.calls = append(p.calls, call)
	if p.fn != nil {
		return p.fn(texts, targetLang)
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = "[" + targetLang + "]" + t
	}
	return out, nil
}

// singleSpanPage builds a one-span digital page for scenario tests.
func singleSpanPage(number int, bounds docmodel.Rect, span docmodel.Span) *fakePage {
	p := newFakePage(number, bounds)
	p.blocks = []docmodel.Block{{
		BBox:  span.BBox,
		Lines: []docmodel.Line{{BBox: span.BBox, Spans: []docmodel.Span{span}}},
	}}
	return p
}
