// Package docmodel defines the document model capability consumed by the
// translation core: paged documents whose pages expose structured text
// content, hyperlinks, redaction, text insertion, and rasterization.
// Implementations may support only a subset of operations and return
// ErrUnsupported for the rest.
package docmodel

import (
	"errors"
	"image"
)

// ErrUnsupported is returned by partial implementations for operations the
// underlying document backend cannot perform.
var ErrUnsupported = errors.New("docmodel: operation not supported by this backend")

// Point is a location in page coordinate space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in page coordinate space with
// X0 <= X1 and Y0 <= Y1.
type Rect struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Intersects reports whether r and other share any area.
func (r Rect) Intersects(other Rect) bool {
	return r.X0 < other.X1 && other.X0 < r.X1 &&
		r.Y0 < other.Y1 && other.Y0 < r.Y1
}

// Clip returns r clamped to the bounds rectangle.
func (r Rect) Clip(bounds Rect) Rect {
	out := r
	if out.X0 < bounds.X0 {
		out.X0 = bounds.X0
	}
	if out.Y0 < bounds.Y0 {
		out.Y0 = bounds.Y0
	}
	if out.X1 > bounds.X1 {
		out.X1 = bounds.X1
	}
	if out.Y1 > bounds.Y1 {
		out.Y1 = bounds.Y1
	}
	if out.X1 < out.X0 {
		out.X1 = out.X0
	}
	if out.Y1 < out.Y0 {
		out.Y1 = out.Y0
	}
	return out
}

// TopLeft returns the top-left corner of the rectangle.
func (r Rect) TopLeft() Point { return Point{X: r.X0, Y: r.Y0} }

// Span is a contiguous run of text with uniform styling.
type Span struct {
	Text     string
	BBox     Rect
	FontSize float64
	Color    string // hex, e.g. "#000000"
	Bold     bool
	Rotation float64 // degrees
}

// Line is an ordered sequence of spans on one baseline.
type Line struct {
	BBox  Rect
	Spans []Span
}

// Block is an ordered sequence of lines.
type Block struct {
	BBox  Rect
	Lines []Line
}

// Link is a hyperlink region present on a page.
type Link struct {
	BBox       Rect
	URI        string
	TargetPage int // -1 when the link is external
	Dest       Point
}

// LinkSpec describes a link annotation to attach over a region.
type LinkSpec struct {
	Region     Rect
	URI        string
	TargetPage int
	Dest       Point
}

// TextStyle carries the styling applied to inserted text.
type TextStyle struct {
	FontSize float64
	Color    string
	Bold     bool
	FontName string // embedded font name; empty selects the backend default
}

// Page is a single page surface owned by a Document.
type Page interface {
	// Number returns the zero-based page index.
	Number() int

	// Bounds returns the page rectangle in page units.
	Bounds() Rect

	// Content returns the structured block/line/span tree of the page.
	Content() ([]Block, error)

	// Links returns the hyperlink regions of the page in document order.
	Links() ([]Link, error)

	// MarkRedact marks a region for redaction. Marks accumulate until
	// ApplyRedactions commits them in one pass.
	MarkRedact(r Rect)

	// ApplyRedactions removes all marked text objects atomically,
	// preserving embedded images.
	ApplyRedactions() error

	// InsertTextBox places text constrained to the region with automatic
	// wrapping and returns the number of characters placed. Zero characters
	// placed with a nil error means the text did not fit.
	InsertTextBox(region Rect, text string, style TextStyle) (int, error)

	// InsertTextAt places text anchored at a point without region bounds.
	InsertTextAt(at Point, text string, style TextStyle) error

	// EmbedFont makes a font resource available to subsequent insertions
	// under the given name.
	EmbedFont(name string, data []byte) error

	// CoverRect paints an opaque white rectangle over the region. Used on
	// raster-backed pages where text cannot be removed selectively.
	CoverRect(r Rect) error

	// InsertLink attaches a link annotation over a region.
	InsertLink(spec LinkSpec) error

	// Render rasterizes the page at the given scale factor.
	Render(scale float64) (image.Image, error)
}

// Document is an open paged document.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Page returns the page at the zero-based index.
	Page(i int) (Page, error)

	// Bytes serializes the document, committing all page mutations.
	Bytes() ([]byte, error)

	// Close releases backend resources.
	Close() error
}

// Opener opens a document from raw bytes.
type Opener func(data []byte) (Document, error)
