package pattern

import (
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/similarity"
)

// fieldSpan marks where one document field lives inside the searchable text.
type fieldSpan struct {
	name  string
	start int
	end   int
}

// searchableText concatenates the fields scanned by text-based pattern kinds,
// space-joined in a fixed order: title, content, summary, tags.
// The returned spans attribute byte offsets back to their originating field.
func searchableText(doc *core.Document) (string, []fieldSpan) {
	parts := []struct {
		name string
		text string
	}{
		{"title", doc.Title},
		{"content", doc.Content},
		{"summary", doc.Summary},
		{"tags", strings.Join(doc.Tags, " ")},
	}

	var b strings.Builder
	spans := make([]fieldSpan, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		start := b.Len()
		b.WriteString(p.text)
		spans = append(spans, fieldSpan{name: p.name, start: start, end: b.Len()})
	}
	return b.String(), spans
}

// fieldAt attributes a byte offset to its field, in declaration order.
// Offsets past the known fields land in "other".
func fieldAt(spans []fieldSpan, offset int) string {
	for _, s := range spans {
		if offset >= s.start && offset < s.end {
			return s.name
		}
	}
	return "other"
}

const titleBonus = 0.2

// execRegex collects all non-overlapping matches of re in each document's
// searchable text. Score is matchCount/10 plus a flat bonus when any match
// lands in the title, capped at 1.
func execRegex(re *regexp.Regexp, docs []*core.Document) []core.ScoredResult {
	var results []core.ScoredResult
	for _, doc := range docs {
		text, spans := searchableText(doc)
		locs := re.FindAllStringIndex(text, -1)
		if len(locs) == 0 {
			continue
		}

		matches := make([]core.FieldMatch, 0, len(locs))
		var fields []string
		inTitle := false
		for _, loc := range locs {
			field := fieldAt(spans, loc[0])
			if field == "title" {
				inTitle = true
			}
			if !slices.Contains(fields, field) {
				fields = append(fields, field)
			}
			matches = append(matches, core.FieldMatch{
				Field: field,
				Text:  text[loc[0]:loc[1]],
				Start: loc[0],
				End:   loc[1],
			})
		}

		score := float64(len(locs)) / 10
		if inTitle {
			score += titleBonus
		}

		results = append(results, core.ScoredResult{
			DocumentID:    doc.ID,
			Score:         core.ClampScore(score),
			MatchCount:    len(locs),
			MatchedFields: fields,
			Matches:       matches,
		})
	}
	return results
}

// execFuzzy tokenizes each document's searchable text on whitespace and keeps
// tokens whose Jaro-Winkler similarity to the query text meets the threshold.
// Score is the mean similarity of kept tokens; documents with no kept tokens
// are excluded. Comparison is case-folded.
func (e *Engine) execFuzzy(q core.PatternQuery, docs []*core.Document) ([]core.ScoredResult, error) {
	queryText := q.Text
	if queryText == "" {
		queryText = q.Pattern
	}
	if queryText == "" {
		return nil, ErrEmptyPattern
	}
	queryText = strings.ToLower(queryText)

	threshold := q.Threshold
	if threshold <= 0 {
		threshold = e.fuzzyThreshold
	}

	var results []core.ScoredResult
	for _, doc := range docs {
		_, spans := searchableText(doc)

		var sum float64
		var kept int
		var fields []string
		var matches []core.FieldMatch

		for _, span := range spans {
			fieldText := fieldTextOf(doc, span.name)
			for _, token := range strings.Fields(fieldText) {
				sim := similarity.JaroWinkler(strings.ToLower(token), queryText)
				if sim < threshold {
					continue
				}
				sum += sim
				kept++
				if !slices.Contains(fields, span.name) {
					fields = append(fields, span.name)
				}
				matches = append(matches, core.FieldMatch{Field: span.name, Text: token})
			}
		}

		if kept == 0 {
			continue
		}
		results = append(results, core.ScoredResult{
			DocumentID:    doc.ID,
			Score:         core.ClampScore(sum / float64(kept)),
			MatchCount:    kept,
			MatchedFields: fields,
			Matches:       matches,
		})
	}
	return results, nil
}

func fieldTextOf(doc *core.Document, field string) string {
	switch field {
	case "title":
		return doc.Title
	case "content":
		return doc.Content
	case "summary":
		return doc.Summary
	case "tags":
		return strings.Join(doc.Tags, " ")
	default:
		return ""
	}
}

// execStructural deep-matches the pattern shape against each document's
// field map. Score grows with the number of pattern keys, capped at 1.
func (e *Engine) execStructural(structure map[string]any, docs []*core.Document) ([]core.ScoredResult, error) {
	if len(structure) == 0 {
		return nil, ErrEmptyPattern
	}

	keyCount := countKeys(structure)
	score := core.ClampScore(float64(keyCount) / 10)

	var results []core.ScoredResult
	for _, doc := range docs {
		if !deepMatch(structure, doc.FieldMap()) {
			continue
		}
		results = append(results, core.ScoredResult{
			DocumentID: doc.ID,
			Score:      score,
			MatchCount: keyCount,
		})
	}
	return results, nil
}

// deepMatch reports whether every key in pattern exists in value with a
// recursively matching entry. Nested maps recurse; everything else, arrays
// included, compares by exact equality. A pattern array matches only an
// equal array, never a subset.
func deepMatch(pattern map[string]any, value map[string]any) bool {
	for key, want := range pattern {
		got, ok := value[key]
		if !ok {
			return false
		}

		wantMap, wantIsMap := want.(map[string]any)
		gotMap, gotIsMap := got.(map[string]any)
		if wantIsMap && gotIsMap {
			if !deepMatch(wantMap, gotMap) {
				return false
			}
			continue
		}
		if wantIsMap != gotIsMap {
			return false
		}

		if !reflect.DeepEqual(want, got) {
			return false
		}
	}
	return true
}

// countKeys counts pattern keys recursively.
func countKeys(pattern map[string]any) int {
	n := 0
	for _, v := range pattern {
		n++
		if nested, ok := v.(map[string]any); ok {
			n += countKeys(nested)
		}
	}
	return n
}

// execLiteral performs exact substring search over the searchable text.
// Score is a density measure: matchCount relative to how many times the
// needle could fit in the text, capped at 1.
func (e *Engine) execLiteral(q core.PatternQuery, docs []*core.Document) ([]core.ScoredResult, error) {
	needle := q.Pattern
	if needle == "" {
		needle = q.Text
	}
	if needle == "" {
		return nil, ErrEmptyPattern
	}

	matchNeedle := needle
	if !e.caseSensitive {
		matchNeedle = strings.ToLower(needle)
	}

	var results []core.ScoredResult
	for _, doc := range docs {
		text, spans := searchableText(doc)
		haystack := text
		if !e.caseSensitive {
			haystack = strings.ToLower(text)
		}

		var fields []string
		var matches []core.FieldMatch
		count := 0
		for from := 0; ; {
			i := strings.Index(haystack[from:], matchNeedle)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(matchNeedle)
			field := fieldAt(spans, start)
			if !slices.Contains(fields, field) {
				fields = append(fields, field)
			}
			matches = append(matches, core.FieldMatch{
				Field: field,
				Text:  text[start:end],
				Start: start,
				End:   end,
			})
			count++
			from = end
		}
		if count == 0 {
			continue
		}

		density := float64(count) * float64(len(needle)) / float64(len(text))
		results = append(results, core.ScoredResult{
			DocumentID:    doc.ID,
			Score:         core.ClampScore(density),
			MatchCount:    count,
			MatchedFields: fields,
			Matches:       matches,
		})
	}
	return results, nil
}
