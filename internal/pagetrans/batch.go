package pagetrans

import (
	"context"
	"strings"
	"unicode/utf8"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/translate"
)

const (
	// ceilingHeadroom keeps requests at 90% of the provider's hard limits.
	ceilingHeadroom = 0.9

	// Grouping heuristic for short unpunctuated fragments: translating them
	// together gives the backend context it cannot get per-fragment.
	groupMaxChars  = 25
	groupMaxTokens = 3
	groupMaxSize   = 50

	terminalPunctuation = ".!?:;\n"
)

// BatchAdapter translates ordered fragment text lists through a provider,
// preserving order and length under chunking, grouping and degradation.
type BatchAdapter struct {
	Provider translate.Provider
}

// Result carries the translations plus degradation accounting.
type Result struct {
	Translations []string
	// Degraded counts indices that fell back to their original text.
	Degraded int
}

// TranslateAll translates texts to targetLang. The returned list always has
// the same length as texts, aligned by index; untranslatable entries hold
// their original text.
func (a *BatchAdapter) TranslateAll(ctx context.Context, texts []string, targetLang string) Result {
	out := Result{Translations: make([]string, len(texts))}
	if len(texts) == 0 {
		return out
	}

	units := groupShortRuns(texts)
	maxItems, maxChars := a.Provider.Limits()
	maxItems = int(float64(maxItems) * ceilingHeadroom)
	if maxItems < 1 {
		maxItems = 1
	}
	maxChars = int(float64(maxChars) * ceilingHeadroom)

	chunks := chunkUnits(units, maxItems, maxChars)
	logger.Debug("batch translation plan",
		logger.Int("fragments", len(texts)),
		logger.Int("units", len(units)),
		logger.Int("chunks", len(chunks)),
		logger.String("provider", a.Provider.Name()))

	for _, chunk := range chunks {
		a.translateChunk(ctx, chunk, targetLang, &out)
	}
	return out
}

// unit is one provider-visible item: a single fragment or a grouped run of
// short fragments translated as one string.
type unit struct {
	indices []int
	members []string
	text    string
}

// groupShortRuns folds consecutive short unpunctuated fragments into grouped
// units. A fragment joins a run when it is under groupMaxChars characters,
// carries no terminal punctuation, and has at most groupMaxTokens tokens.
func groupShortRuns(texts []string) []unit {
	var units []unit
	var run []int

	flush := func() {
		if len(run) == 0 {
			return
		}
		if len(run) == 1 {
			units = append(units, unit{indices: run, text: texts[run[0]]})
		} else {
			members := make([]string, len(run))
			for i, idx := range run {
				members[i] = texts[idx]
			}
			units = append(units, unit{
				indices: run,
				members: members,
				text:    strings.Join(members, " "),
			})
		}
		run = nil
	}

	for i, text := range texts {
		if isGroupable(text) && len(run) < groupMaxSize {
			run = append(run, i)
			continue
		}
		flush()
		units = append(units, unit{indices: []int{i}, text: text})
	}
	flush()
	return units
}

func isGroupable(text string) bool {
	if utf8.RuneCountInString(text) >= groupMaxChars {
		return false
	}
	if strings.ContainsAny(text, terminalPunctuation) {
		return false
	}
	return len(strings.Fields(text)) <= groupMaxTokens
}

// chunkUnits splits units into provider requests bounded by both the item
// count and the total character count. A single oversized unit still ships
// alone; the provider is the final authority on rejecting it.
func chunkUnits(units []unit, maxItems, maxChars int) [][]unit {
	var chunks [][]unit
	var current []unit
	currentChars := 0

	for _, u := range units {
		size := len(u.text)
		if len(current) > 0 &&
			(len(current)+1 > maxItems || currentChars+size > maxChars) {
			chunks = append(chunks, current)
			current = nil
			currentChars = 0
		}
		current = append(current, u)
		currentChars += size
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// translateChunk translates one chunk, degrading batch -> per-unit ->
// original text. Results land directly in out at each unit's indices.
func (a *BatchAdapter) translateChunk(ctx context.Context, chunk []unit, targetLang string, out *Result) {
	unitTexts := make([]string, len(chunk))
	for i, u := range chunk {
		unitTexts[i] = u.text
	}

	translated, err := a.Provider.Translate(ctx, unitTexts, targetLang)
	if err != nil {
		logger.Warn("chunk translation failed, retrying per fragment",
			logger.Int("units", len(chunk)),
			logger.Err(err))
		a.translatePerUnit(ctx, chunk, targetLang, out)
		return
	}

	for i, u := range chunk {
		var result string
		if i < len(translated) {
			result = strings.TrimSpace(translated[i])
		}
		a.applyUnit(u, result, out)
	}
}

func (a *BatchAdapter) translatePerUnit(ctx context.Context, chunk []unit, targetLang string, out *Result) {
	for _, u := range chunk {
		translated, err := a.Provider.Translate(ctx, []string{u.text}, targetLang)
		if err != nil || len(translated) == 0 {
			if err != nil {
				logger.Warn("fragment translation failed, keeping original",
					logger.Err(err))
			}
			a.applyUnit(u, "", out)
			continue
		}
		a.applyUnit(u, strings.TrimSpace(translated[0]), out)
	}
}

// applyUnit writes a unit's translation into the result. Empty translations
// degrade to the original text per index.
func (a *BatchAdapter) applyUnit(u unit, translated string, out *Result) {
	if len(u.indices) == 1 {
		idx := u.indices[0]
		if translated == "" {
			out.Translations[idx] = u.text
			out.Degraded++
			return
		}
		out.Translations[idx] = translated
		return
	}

	if translated == "" {
		for i, idx := range u.indices {
			out.Translations[idx] = u.members[i]
			out.Degraded++
		}
		return
	}

	parts := redistribute(translated, u.members)
	for i, idx := range u.indices {
		out.Translations[idx] = parts[i]
	}
}

// redistribute splits a grouped translation back across the group's members
// by proportional word count. This is a known-lossy approximation: member
// boundaries in the translation are estimated, never exact. When the
// translation has fewer whitespace words than members, runes are split
// proportionally instead.
func redistribute(translated string, members []string) []string {
	weights := make([]int, len(members))
	totalWeight := 0
	for i, m := range members {
		w := len(strings.Fields(m))
		if w == 0 {
			w = 1
		}
		weights[i] = w
		totalWeight += w
	}

	words := strings.Fields(translated)
	if len(words) >= len(members) {
		return splitByWeights(words, weights, totalWeight, " ")
	}
	return splitRunesByWeights([]rune(translated), weights, totalWeight)
}

func splitByWeights(words []string, weights []int, totalWeight int, sep string) []string {
	out := make([]string, len(weights))
	pos := 0
	for i, w := range weights {
		count := len(words) * w / totalWeight
		if count == 0 && pos < len(words) {
			count = 1
		}
		end := pos + count
		if i == len(weights)-1 || end > len(words) {
			end = len(words)
		}
		if pos < end {
			out[i] = strings.Join(words[pos:end], sep)
		}
		pos = end
	}
	return out
}

func splitRunesByWeights(runes []rune, weights []int, totalWeight int) []string {
	out := make([]string, len(weights))
	pos := 0
	for i, w := range weights {
		count := len(runes) * w / totalWeight
		end := pos + count
		if i == len(weights)-1 || end > len(runes) {
			end = len(runes)
		}
		if pos < end {
			out[i] = strings.TrimSpace(string(runes[pos:end]))
		}
		pos = end
	}
	return out
}
