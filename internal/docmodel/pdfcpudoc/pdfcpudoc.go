// Package pdfcpudoc implements the document model on top of pdfcpu.
//
// pdfcpu exposes no structured content reader or content-stream editor, so
// this backend supports the raster-surface subset of the model: page
// geometry, white cover rectangles, text stamps, font installation and
// rasterization through an external renderer. Structured content, links and
// redaction report docmodel.ErrUnsupported; flows needing them require a
// different backend.
package pdfcpudoc

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/color"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"pdf-translator/internal/docmodel"
	"pdf-translator/internal/logger"
)

// RasterizeFunc renders the 1-based page of the PDF at path at the given
// scale factor relative to 72 DPI.
type RasterizeFunc func(path string, pageNum int, scale float64) (image.Image, error)

// Options configures an opened document.
type Options struct {
	// Rasterize backs Page.Render. Nil leaves Render unsupported.
	Rasterize RasterizeFunc
}

// Document is a temp-file backed PDF whose mutations are applied through the
// pdfcpu watermark API.
type Document struct {
	path      string
	conf      *model.Configuration
	pageCount int
	dims      []types.Dim
	rasterize RasterizeFunc

	// fonts maps embedded resource names to installed pdfcpu font names.
	fonts map[string]string
}

// Open opens a raster-surface document from raw PDF bytes.
func Open(data []byte) (docmodel.Document, error) {
	return OpenWithOptions(data, Options{})
}

// OpenWithOptions opens a document with explicit backend options.
func OpenWithOptions(data []byte, opts Options) (docmodel.Document, error) {
	tmp, err := os.CreateTemp("", "pdfcpudoc_*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	ctx, err := api.ReadContextFile(tmp.Name())
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	dims, err := ctx.PageDims()
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	return &Document{
		path:      tmp.Name(),
		conf:      model.NewDefaultConfiguration(),
		pageCount: ctx.PageCount,
		dims:      dims,
		rasterize: opts.Rasterize,
		fonts:     make(map[string]string),
	}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.pageCount }

// Page returns the page surface at the zero-based index.
func (d *Document) Page(i int) (docmodel.Page, error) {
	if i < 0 || i >= d.pageCount {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", i, d.pageCount)
	}
	return &page{doc: d, index: i}, nil
}

// Bytes validates and returns the current file contents.
func (d *Document) Bytes() ([]byte, error) {
	if err := api.ValidateFile(d.path, d.conf); err != nil {
		return nil, fmt.Errorf("output validation failed: %w", err)
	}
	return os.ReadFile(d.path)
}

// Close removes the backing temp file.
func (d *Document) Close() error {
	if d.path == "" {
		return nil
	}
	err := os.Remove(d.path)
	d.path = ""
	return err
}

type page struct {
	doc   *Document
	index int
}

func (p *page) Number() int { return p.index }

func (p *page) Bounds() docmodel.Rect {
	dim := p.doc.dims[p.index]
	return docmodel.Rect{X1: dim.Width, Y1: dim.Height}
}

// Content is unsupported: pdfcpu has no structured text reader.
func (p *page) Content() ([]docmodel.Block, error) {
	return nil, docmodel.ErrUnsupported
}

// Links is unsupported on this backend.
func (p *page) Links() ([]docmodel.Link, error) {
	return nil, docmodel.ErrUnsupported
}

// MarkRedact is a no-op; ApplyRedactions reports the missing capability.
func (p *page) MarkRedact(r docmodel.Rect) {}

// ApplyRedactions is unsupported: a raster surface cannot remove content
// objects selectively.
func (p *page) ApplyRedactions() error {
	return docmodel.ErrUnsupported
}

// InsertTextBox stamps text into the region as a positioned text watermark.
func (p *page) InsertTextBox(region docmodel.Rect, text string, style docmodel.TextStyle) (int, error) {
	wm := p.textWatermark(text, style)
	wm.Dx = region.X0
	wm.Dy = region.Y0
	wm.Width = int(region.Width())
	wm.Height = int(region.Height())

	if err := p.stamp(wm); err != nil {
		return 0, err
	}
	return len(text), nil
}

// InsertTextAt stamps text anchored at a point.
func (p *page) InsertTextAt(at docmodel.Point, text string, style docmodel.TextStyle) error {
	wm := p.textWatermark(text, style)
	wm.Dx = at.X
	wm.Dy = at.Y
	return p.stamp(wm)
}

// EmbedFont installs a font file so stamps can reference it by name.
func (p *page) EmbedFont(name string, data []byte) error {
	if _, ok := p.doc.fonts[name]; ok {
		return nil
	}

	dir, err := os.MkdirTemp("", "pdffont_*")
	if err != nil {
		return fmt.Errorf("failed to create font dir: %w", err)
	}
	defer os.RemoveAll(dir)

	fontPath := filepath.Join(dir, name+".ttf")
	if err := os.WriteFile(fontPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write font file: %w", err)
	}
	if err := api.InstallFonts([]string{fontPath}); err != nil {
		return fmt.Errorf("failed to install font: %w", err)
	}

	p.doc.fonts[name] = name
	logger.Debug("font installed", logger.String("font", name))
	return nil
}

// CoverRect paints an opaque white rectangle over the region.
func (p *page) CoverRect(r docmodel.Rect) error {
	bgColor := color.White
	wm := &model.Watermark{
		Mode:       model.WMText,
		TextString: " ",
		BgColor:    &bgColor,
		Opacity:    1.0,
		OnTop:      true,
		Pos:        types.TopLeft,
		Dx:         r.X0,
		Dy:         r.Y0,
		Width:      int(r.Width()),
		Height:     int(r.Height()),
	}
	return p.stamp(wm)
}

// InsertLink is unsupported on this backend.
func (p *page) InsertLink(spec docmodel.LinkSpec) error {
	return docmodel.ErrUnsupported
}

// Render rasterizes the page through the configured renderer.
func (p *page) Render(scale float64) (image.Image, error) {
	if p.doc.rasterize == nil {
		return nil, docmodel.ErrUnsupported
	}
	return p.doc.rasterize(p.doc.path, p.index+1, scale)
}

func (p *page) textWatermark(text string, style docmodel.TextStyle) *model.Watermark {
	fontName := "Helvetica"
	if style.FontName != "" {
		if installed, ok := p.doc.fonts[style.FontName]; ok {
			fontName = installed
		} else {
			fontName = style.FontName
		}
	}
	size := int(style.FontSize)
	if size <= 0 {
		size = 12
	}
	return &model.Watermark{
		Mode:           model.WMText,
		TextString:     text,
		FontName:       fontName,
		FontSize:       size,
		ScaledFontSize: size,
		Color:          color.Black,
		Opacity:        1.0,
		OnTop:          true,
		Update:         false,
		Pos:            types.TopLeft,
	}
}

func (p *page) stamp(wm *model.Watermark) error {
	pages := []string{fmt.Sprintf("%d", p.index+1)}
	if err := api.AddWatermarksFile(p.doc.path, "", pages, wm, p.doc.conf); err != nil {
		return fmt.Errorf("failed to stamp page %d: %w", p.index+1, err)
	}
	return nil
}
