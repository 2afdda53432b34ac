// Package langdetect identifies the dominant language of extracted text.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// Unknown is returned when no reliable detection is possible.
const Unknown = "unknown"

// maxSampleRunes caps the text fed to the detector; longer corpora add cost
// without improving accuracy.
const maxSampleRunes = 2000

// Detect returns the ISO 639-1 code of the dominant language of text, or
// Unknown when the sample is empty or the detection is unreliable.
func Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unknown
	}

	runes := []rune(text)
	if len(runes) > maxSampleRunes {
		text = string(runes[:maxSampleRunes])
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return Unknown
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return Unknown
	}
	return code
}

// Normalize canonicalizes a language tag to its base ISO 639-1 form, e.g.
// "zh-CN" to "zh". Unparseable tags pass through lowercased.
func Normalize(tag string) string {
	parsed, err := language.Parse(tag)
	if err != nil {
		return strings.ToLower(tag)
	}
	base, _ := parsed.Base()
	return base.String()
}
