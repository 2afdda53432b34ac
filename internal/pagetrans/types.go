// Package pagetrans implements layout-preserving page translation: it
// inventories styled text fragments with their geometry, removes the original
// rendering, and re-inserts translated text fitted to the same region.
package pagetrans

import (
	"pdf-translator/internal/docmodel"
)

// FragmentSource tells which extraction path produced a fragment.
type FragmentSource string

const (
	// SourceDigital marks fragments extracted from structured page content.
	SourceDigital FragmentSource = "digital"
	// SourceScanned marks fragments reconstructed from OCR word boxes.
	SourceScanned FragmentSource = "scanned"
)

// TextFragment is the unit of translatable content: one styled run of text
// located on a single page. Original fields are immutable after extraction;
// Translated is filled in once batch translation completes.
type TextFragment struct {
	Text       string
	BBox       docmodel.Rect
	FontSize   float64
	Color      string
	Bold       bool
	Rotation   float64
	Link       *docmodel.Link
	Source     FragmentSource
	Translated string

	// skipped is set when reclamation could not clear this fragment's
	// region; the replacement text is then withheld to avoid overprinting.
	skipped bool
}

// Output returns the text to render: the translation when present,
// the original otherwise.
func (f *TextFragment) Output() string {
	if f.Translated != "" {
		return f.Translated
	}
	return f.Text
}

// Page pairs a page surface with the fragments extracted from it.
// Fragment order is stable; it is the order presented to the translator so
// translated results re-align by index.
type Page struct {
	Number    int
	Surface   docmodel.Page
	Fragments []*TextFragment
}

// ErrorCode classifies pipeline failures by scope and severity.
type ErrorCode string

const (
	// ErrExtraction is page-scoped and non-fatal: the page degrades to an
	// empty fragment list.
	ErrExtraction ErrorCode = "EXTRACTION_FAILED"
	// ErrTranslation is batch-scoped; it is retried at finer granularity
	// and degrades to source text.
	ErrTranslation ErrorCode = "TRANSLATION_FAILED"
	// ErrReclamation is page-fatal: stale original text would undermine
	// the fitter's geometry, so the page's run aborts.
	ErrReclamation ErrorCode = "RECLAMATION_FAILED"
	// ErrRendering is fragment-scoped; it cascades through fallback
	// insertion strategies before giving up on the single fragment.
	ErrRendering ErrorCode = "RENDERING_FAILED"
	// ErrUnsupportedScript degrades rendering quality, never aborts.
	ErrUnsupportedScript ErrorCode = "UNSUPPORTED_SCRIPT"
	// ErrDocumentInvalid covers documents the pipeline cannot process.
	ErrDocumentInvalid ErrorCode = "DOCUMENT_INVALID"
)

// TransError is the error type for all pipeline failures.
type TransError struct {
	Code    ErrorCode
	Message string
	Details string
	Page    int
	Cause   error
}

// Error implements the error interface for TransError
func (e *TransError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *TransError) Unwrap() error {
	return e.Cause
}

// NewTransError creates a new TransError with the given code, message, and optional cause
func NewTransError(code ErrorCode, message string, cause error) *TransError {
	return &TransError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewTransErrorWithDetails creates a new TransError with details
func NewTransErrorWithDetails(code ErrorCode, message, details string, cause error) *TransError {
	return &TransError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// NewTransErrorWithPage creates a new TransError carrying the page index
func NewTransErrorWithPage(code ErrorCode, message string, page int, cause error) *TransError {
	return &TransError{
		Code:    code,
		Message: message,
		Page:    page,
		Cause:   cause,
	}
}
