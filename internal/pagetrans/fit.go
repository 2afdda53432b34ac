package pagetrans

import (
	"strings"

	"pdf-translator/internal/docmodel"
)

const (
	// fitAttempts is the number of shrink steps tried before best-effort.
	fitAttempts = 6
	// fitDecay scales the font size between attempts.
	fitDecay = 0.9
	// fitFloorSize is the smallest size the fitter will emit.
	fitFloorSize = 6.0
	// lineHeightFactor converts a font size to a line advance.
	lineHeightFactor = 1.25

	// fallbackFontSize is the fixed size used when scanned content is
	// rerouted to a page-margin fallback region.
	fallbackFontSize = 9.0
)

// FittedLine is one wrapped line with its vertical offset from the region top.
type FittedLine struct {
	Text    string
	YOffset float64
}

// Fit is the fitter's output: wrapped lines at the chosen size. Fits is
// false when even the smallest attempt overflows the region and the result
// is best-effort.
type Fit struct {
	Lines    []FittedLine
	FontSize float64
	Fits     bool
}

// FitText wraps text into region, shrinking the font from baseSize through
// a fixed decay schedule until the wrapped lines fit the region height.
// Non-empty input always produces non-empty lines at a size no smaller than
// the floor; fidelity loss is preferred over dropping content.
func FitText(text string, region docmodel.Rect, baseSize float64) Fit {
	if baseSize <= 0 {
		baseSize = fitFloorSize
	}

	size := baseSize
	var best Fit
	for attempt := 0; attempt < fitAttempts; attempt++ {
		if size < fitFloorSize {
			size = fitFloorSize
		}
		lines := wrapText(text, region.Width(), size)
		required := lineHeight(size) * float64(len(lines))

		best = Fit{Lines: layoutLines(lines, size), FontSize: size}
		if required <= region.Height() {
			best.Fits = true
			return best
		}
		if size == fitFloorSize {
			break
		}
		size *= fitDecay
	}
	return best
}

// FallbackRegion returns an expanded band along the bottom page margin for
// scanned content that cannot fit its original region, paired with the fixed
// fallback font size.
func FallbackRegion(pageBounds docmodel.Rect) (docmodel.Rect, float64) {
	height := pageBounds.Height() * 0.15
	if height < 3*lineHeight(fallbackFontSize) {
		height = 3 * lineHeight(fallbackFontSize)
	}
	region := docmodel.Rect{
		X0: pageBounds.X0 + 10,
		Y0: pageBounds.Y1 - height,
		X1: pageBounds.X1 - 10,
		Y1: pageBounds.Y1 - 5,
	}
	return region.Clip(pageBounds), fallbackFontSize
}

func lineHeight(size float64) float64 {
	return size * lineHeightFactor
}

func layoutLines(lines []string, size float64) []FittedLine {
	out := make([]FittedLine, len(lines))
	for i, line := range lines {
		out[i] = FittedLine{Text: line, YOffset: float64(i) * lineHeight(size)}
	}
	return out
}

// wrapText greedily packs whitespace-delimited tokens into lines bounded by
// maxWidth. A token too wide for a whole line falls back to character
// accumulation, which also handles scripts without word boundaries.
func wrapText(text string, maxWidth, size float64) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, token := range tokens {
		candidate := token
		if current != "" {
			candidate = current + " " + token
		}
		if measureWidth(candidate, size) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
		if measureWidth(token, size) <= maxWidth {
			current = token
			continue
		}
		var charLines []string
		charLines, current = wrapChars(token, maxWidth, size)
		lines = append(lines, charLines...)
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

// wrapChars accumulates runes of an oversized token into lines. The final
// partial line is returned open so following tokens can continue it.
func wrapChars(token string, maxWidth, size float64) (lines []string, rest string) {
	current := ""
	for _, r := range token {
		candidate := current + string(r)
		if measureWidth(candidate, size) > maxWidth && current != "" {
			lines = append(lines, current)
			current = string(r)
			continue
		}
		current = candidate
	}
	return lines, current
}

// measureWidth estimates rendered width with a per-class advance model:
// ideographic and other fullwidth glyphs advance one em, spaces a quarter
// em, everything else half an em.
func measureWidth(text string, size float64) float64 {
	var w float64
	for _, r := range text {
		switch {
		case r == ' ':
			w += 0.25
		case isFullwidth(r):
			w += 1.0
		default:
			w += 0.5
		}
	}
	return w * size
}

func isFullwidth(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK unified ideographs
		(r >= 0x3400 && r <= 0x4DBF) || // CJK extension A
		(r >= 0x3000 && r <= 0x303F) || // CJK punctuation
		(r >= 0x3040 && r <= 0x30FF) || // hiragana, katakana
		(r >= 0xAC00 && r <= 0xD7AF) || // hangul syllables
		(r >= 0xFF00 && r <= 0xFFEF) // fullwidth forms
}
