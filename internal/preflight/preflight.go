// Package preflight inspects input PDFs before translation: page count,
// file info, and whether the document carries extractable text or is a
// scanned raster.
package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Kind classifies a document by its text content.
type Kind string

const (
	// KindDigital documents carry extractable structured text.
	KindDigital Kind = "digital"
	// KindScanned documents are rasterized; text must come from OCR.
	KindScanned Kind = "scanned"
)

// Info describes an input document.
type Info struct {
	FilePath  string
	FileName  string
	PageCount int
	FileSize  int64
	Kind      Kind
	HasText   bool
}

// sampledPages bounds how many leading pages the text probe reads.
const sampledPages = 3

// digitalTextThreshold is the non-whitespace character count above which a
// document counts as digital.
const digitalTextThreshold = 50

// Inspect reads the document at path and classifies it.
func Inspect(path string) (*Info, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file does not exist: %s", path)
		}
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open PDF: %w", err)
	}
	defer f.Close()

	info := &Info{
		FilePath:  path,
		FileName:  filepath.Base(path),
		PageCount: r.NumPage(),
		FileSize:  fileInfo.Size(),
		Kind:      KindScanned,
	}

	textLen := sampleTextLength(r)
	info.HasText = textLen > 0
	if textLen > digitalTextThreshold {
		info.Kind = KindDigital
	}
	return info, nil
}

// sampleTextLength counts non-whitespace characters across the first few
// pages, stopping early once the digital threshold is passed.
func sampleTextLength(r *pdf.Reader) int {
	maxPages := sampledPages
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	total := 0
	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, c := range content {
			if !unicode.IsSpace(c) {
				total++
			}
		}
		if total > digitalTextThreshold {
			return total
		}
	}
	return total
}
