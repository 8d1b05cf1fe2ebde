package core

import "fmt"

// Query is the closed set of search request variants. The variant is decided
// once at the boundary; engines switch on the concrete type instead of
// sniffing fields at runtime.
type Query interface {
	isQuery()
}

// SemanticQuery searches by vector similarity. Exactly one of Text or
// Embedding must resolve to a vector before scoring: a supplied Embedding is
// used verbatim, otherwise Text is sent to the embedding provider.
type SemanticQuery struct {
	Text      string
	Embedding []float32
}

func (SemanticQuery) isQuery() {}

// PatternKind identifies how a PatternQuery's payload is interpreted.
type PatternKind int

const (
	PatternRegex PatternKind = iota + 1
	PatternPredefined
	PatternWildcard
	PatternFuzzy
	PatternStructural
	PatternLiteral
)

// String returns the lowercase name used in results and statistics.
func (k PatternKind) String() string {
	switch k {
	case PatternRegex:
		return "regex"
	case PatternPredefined:
		return "predefined"
	case PatternWildcard:
		return "wildcard"
	case PatternFuzzy:
		return "fuzzy"
	case PatternStructural:
		return "structural"
	case PatternLiteral:
		return "literal"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// PatternQuery searches by regex, predefined pattern, wildcard glob, fuzzy
// text, structural shape, or literal substring. Which payload fields are
// meaningful depends on Kind:
//
//   - PatternRegex: Pattern is a regex source, Flags its flags ("i", "m", "s").
//   - PatternPredefined: Pattern names a predefined regex ("email", "url", ...).
//   - PatternWildcard: Pattern is a glob with '*' and '?'.
//   - PatternFuzzy: Text is matched per token, Threshold the minimum
//     Jaro-Winkler similarity (0 means the engine default).
//   - PatternStructural: Structure is a nested key/value shape deep-matched
//     against document fields.
//   - PatternLiteral: Pattern (or Text if Pattern is empty) is an exact
//     substring.
type PatternQuery struct {
	Kind      PatternKind
	Pattern   string
	Flags     string
	Text      string
	Threshold float64
	Structure map[string]any
}

func (PatternQuery) isQuery() {}

// FulltextQuery searches via the optional full-text collaborator.
type FulltextQuery struct {
	Text string
}

func (FulltextQuery) isQuery() {}

// Subquery pairs a query with its fusion weight. Weights need not sum to 1;
// fused scores are plain weighted sums.
type Subquery struct {
	Query  Query
	Weight float64
}

// HybridQuery fans out to several engines and fuses the scored results.
// Subqueries must not themselves be hybrid.
type HybridQuery struct {
	Subqueries []Subquery
}

func (HybridQuery) isQuery() {}
