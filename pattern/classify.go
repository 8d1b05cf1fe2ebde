package pattern

import (
	"strings"

	"github.com/poiesic/recall/core"
)

// RawQuery is a loosely specified pattern request, as an HTTP or CLI layer
// would receive it before any kind has been decided.
type RawQuery struct {
	// Regex is an explicit regex source; Flags its flag letters.
	Regex string
	Flags string

	// Pattern is a pattern string: a predefined name, a wildcard glob, or a
	// literal substring.
	Pattern string

	// Text is free query text, used by fuzzy matching and as the literal
	// fallback.
	Text string

	// Fuzzy requests token-level similarity matching of Text.
	Fuzzy bool

	// Threshold is the minimum fuzzy similarity; zero means the engine default.
	Threshold float64

	// Structure is a nested key/value shape for structural matching.
	Structure map[string]any
}

// Classify decides a RawQuery's kind once, producing the typed query the
// engine dispatches on. First match wins, in priority order: explicit regex,
// predefined name, wildcard glob, non-empty pattern string as literal, fuzzy
// flag, structural payload, and finally free text as literal.
func Classify(raw RawQuery) core.PatternQuery {
	switch {
	case raw.Regex != "":
		return core.PatternQuery{Kind: core.PatternRegex, Pattern: raw.Regex, Flags: raw.Flags}

	case raw.Pattern != "" && IsPredefined(strings.ToLower(raw.Pattern)):
		return core.PatternQuery{Kind: core.PatternPredefined, Pattern: strings.ToLower(raw.Pattern)}

	case strings.ContainsAny(raw.Pattern, "*?"):
		return core.PatternQuery{Kind: core.PatternWildcard, Pattern: raw.Pattern}

	case raw.Pattern != "":
		return core.PatternQuery{Kind: core.PatternLiteral, Pattern: raw.Pattern}

	case raw.Fuzzy:
		return core.PatternQuery{Kind: core.PatternFuzzy, Text: raw.Text, Threshold: raw.Threshold}

	case raw.Structure != nil:
		return core.PatternQuery{Kind: core.PatternStructural, Structure: raw.Structure}

	default:
		return core.PatternQuery{Kind: core.PatternLiteral, Pattern: raw.Text}
	}
}
