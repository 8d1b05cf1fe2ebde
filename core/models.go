package core

import (
	"time"
)

// DefaultEmbeddingDimension is the expected length of document and query
// embedding vectors unless configured otherwise.
const DefaultEmbeddingDimension = 1536

// DefaultLimit is the result count cap applied when SearchOptions.Limit is zero.
const DefaultLimit = 10

// Document is a single record in the memory store: a note, knowledge entry,
// or experience produced by an AI agent.
// The Embedding field may be empty until an embedding processor has run; once
// present its length must equal the configured dimension.
type Document struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Summary   string            `json:"summary,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	Category  string            `json:"category,omitempty"`
	UserID    string            `json:"userId,omitempty"`
	Priority  int               `json:"priority,omitempty"`
	Embedding []float32         `json:"embedding,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// FieldMap returns the document's named fields as a generic map for
// structural pattern matching. Tags are exposed as a []string value;
// structural matches against arrays use exact equality.
func (d *Document) FieldMap() map[string]any {
	return map[string]any{
		"id":       d.ID,
		"title":    d.Title,
		"content":  d.Content,
		"summary":  d.Summary,
		"tags":     d.Tags,
		"category": d.Category,
		"userId":   d.UserID,
		"priority": d.Priority,
	}
}

// SearchOptions carries caller-supplied knobs shared by all engines.
// Zero values mean "use the engine default".
type SearchOptions struct {
	// Limit caps the number of results. Defaults to DefaultLimit.
	Limit int

	// Threshold is the minimum score/similarity for a candidate to be kept.
	Threshold float64

	// UserID restricts results to documents owned by this user.
	UserID string

	// Category restricts results to documents in this category.
	Category string

	// Tags restricts results to documents carrying all of these tags.
	Tags []string

	// IncludeHighlight requests emphasis-marked highlights on results.
	IncludeHighlight bool
}

// EffectiveLimit returns the limit to apply, substituting the default for
// zero or negative values.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// FieldMatch records a single pattern match inside a document's searchable
// text: which field it landed in and where.
type FieldMatch struct {
	Field string `json:"field"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Highlight carries emphasis-marked fragments of a matched document.
type Highlight struct {
	Title    string   `json:"title,omitempty"`
	Snippets []string `json:"snippets,omitempty"`
}

// ScoredResult is one ranked hit. Score is always clamped to [0,1];
// RawSimilarity preserves the unclamped similarity (cosine can be negative)
// for diagnostics.
type ScoredResult struct {
	DocumentID    string             `json:"documentId"`
	Score         float64            `json:"score"`
	RawSimilarity float64            `json:"rawSimilarity,omitempty"`
	SourceScores  map[string]float64 `json:"sourceScores,omitempty"`
	MatchCount    int                `json:"matchCount,omitempty"`
	MatchedFields []string           `json:"matchedFields,omitempty"`
	Matches       []FieldMatch       `json:"matches,omitempty"`
	Highlight     *Highlight         `json:"highlight,omitempty"`
}

// ClampScore clamps a score into [0,1].
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
