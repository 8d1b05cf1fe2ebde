package semantic

import (
	"regexp"
	"strings"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/similarity"
)

// maxHighlightSnippets caps how many content sentences a highlight includes.
const maxHighlightSnippets = 3

var sentenceRE = regexp.MustCompile(`[^.!?]+[.!?]?`)

// highlight wraps each query word, word-boundary and case-insensitive, in an
// emphasis marker within the title and the first content sentences containing
// a match. Returns nil when nothing matched.
func highlight(doc *core.Document, queryText string) *core.Highlight {
	words := strings.Fields(queryText)
	if len(words) == 0 {
		return nil
	}

	res := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		re, err := regexp.Compile(`(?i)\b(` + similarity.EscapeRegex(w) + `)\b`)
		if err != nil {
			continue
		}
		res = append(res, re)
	}
	if len(res) == 0 {
		return nil
	}

	h := &core.Highlight{}
	if marked, ok := emphasize(doc.Title, res); ok {
		h.Title = marked
	}

	for _, sentence := range sentenceRE.FindAllString(doc.Content, -1) {
		if len(h.Snippets) >= maxHighlightSnippets {
			break
		}
		if marked, ok := emphasize(strings.TrimSpace(sentence), res); ok {
			h.Snippets = append(h.Snippets, marked)
		}
	}

	if h.Title == "" && len(h.Snippets) == 0 {
		return nil
	}
	return h
}

// emphasize wraps every match of the given patterns in "**" markers,
// reporting whether anything matched.
func emphasize(text string, res []*regexp.Regexp) (string, bool) {
	matched := false
	for _, re := range res {
		if re.MatchString(text) {
			matched = true
			text = re.ReplaceAllString(text, "**$1**")
		}
	}
	return text, matched
}
