package pagetrans

import (
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font/sfnt"

	"pdf-translator/internal/langdetect"
	"pdf-translator/internal/logger"
)

// BuiltinFontName is the built-in family used when no wide-coverage font
// file is available. Insertion with it cannot render ideographic glyphs and
// is the renderer's last resort.
const BuiltinFontName = "Helvetica"

// FontResource is a resolved font: either file-backed data to embed or a
// built-in family referenced by name only.
type FontResource struct {
	Name    string
	Data    []byte
	Builtin bool
}

// languageFonts maps normalized language codes to candidate font file names
// looked up in the resolver's directory, most specific first.
var languageFonts = map[string][]string{
	"zh": {"NotoSansSC-Regular.ttf", "NotoSansSC-Regular.otf"},
	"ja": {"NotoSansJP-Regular.ttf", "NotoSansJP-Regular.otf"},
	"ko": {"NotoSansKR-Regular.ttf", "NotoSansKR-Regular.otf"},
}

// genericFonts are wide-coverage fallbacks tried for any language without an
// exact table match.
var genericFonts = []string{
	"NotoSansCJK-Regular.ttf",
	"NotoSans-Regular.ttf",
	"unifont.ttf",
}

// FontResolver loads font files from a directory once per process and probes
// their glyph coverage before offering them for embedding. Safe for
// concurrent use; each font file is read at most once.
type FontResolver struct {
	dir string

	mu    sync.Mutex
	cache map[string]*fontEntry
}

type fontEntry struct {
	once sync.Once
	res  *FontResource
	err  error
}

// NewFontResolver creates a resolver over the given font directory. An empty
// directory resolves everything to the built-in family.
func NewFontResolver(dir string) *FontResolver {
	return &FontResolver{dir: dir, cache: make(map[string]*fontEntry)}
}

// Resolve picks a font for rendering sample text in targetLang: the
// language's mapped file, then generic multi-script files, then the built-in
// family. A file-backed candidate is accepted only if its glyph coverage
// probe does not reject the sample.
func (r *FontResolver) Resolve(targetLang, sample string) *FontResource {
	lang := langdetect.Normalize(targetLang)

	var candidates []string
	candidates = append(candidates, languageFonts[lang]...)
	candidates = append(candidates, genericFonts...)

	for _, name := range candidates {
		res, err := r.load(name)
		if err != nil {
			continue
		}
		if coversSample(res.Data, sample) {
			return res
		}
		logger.Debug("font rejected by coverage probe",
			logger.String("font", name),
			logger.String("lang", lang))
	}

	return &FontResource{Name: BuiltinFontName, Builtin: true}
}

func (r *FontResolver) load(name string) (*FontResource, error) {
	if r.dir == "" {
		return nil, os.ErrNotExist
	}

	r.mu.Lock()
	entry, ok := r.cache[name]
	if !ok {
		entry = &fontEntry{}
		r.cache[name] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		data, err := os.ReadFile(filepath.Join(r.dir, name))
		if err != nil {
			entry.err = err
			return
		}
		entry.res = &FontResource{Name: fontResourceName(name), Data: data}
	})
	return entry.res, entry.err
}

func fontResourceName(fileName string) string {
	ext := filepath.Ext(fileName)
	return fileName[:len(fileName)-len(ext)]
}

// coversSample parses the font and checks that the sample's wide-coverage
// runes have glyphs. A font that cannot be parsed is accepted as-is; the
// probe exists to avoid tofu, not to gate embedding on parser support.
func coversSample(data []byte, sample string) bool {
	f, err := sfnt.Parse(data)
	if err != nil {
		return true
	}

	var buf sfnt.Buffer
	for _, r := range sample {
		if !RequiresWideCoverage(string(r)) {
			continue
		}
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}

// RequiresWideCoverage reports whether text contains glyphs outside common
// single-byte coverage: ideographic or syllabic script code points that the
// built-in families cannot render.
func RequiresWideCoverage(text string) bool {
	for _, r := range text {
		if (r >= 0x4E00 && r <= 0x9FFF) || // CJK unified ideographs
			(r >= 0x3400 && r <= 0x4DBF) || // CJK extension A
			(r >= 0x3040 && r <= 0x30FF) || // hiragana, katakana
			(r >= 0xAC00 && r <= 0xD7AF) || // hangul syllables
			(r >= 0x1100 && r <= 0x11FF) { // hangul jamo
			return true
		}
	}
	return false
}
