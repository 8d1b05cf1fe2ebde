package pattern

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// memCorpus implements storage.DocumentReader over a fixed slice.
type memCorpus struct {
	docs []*core.Document
}

func (m *memCorpus) ListDocuments(_ context.Context, filter storage.ListFilter) ([]*core.Document, error) {
	var out []*core.Document
	for _, doc := range m.docs {
		if filter.UserID != "" && doc.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && doc.Category != filter.Category {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *memCorpus) GetDocument(_ context.Context, id string) (*core.Document, error) {
	for _, doc := range m.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, storage.ErrNotFound
}

func testCorpus() *memCorpus {
	return &memCorpus{docs: []*core.Document{
		{
			ID:      "doc-a",
			Title:   "Machine learning notes",
			Content: "Contact alice@example.com about machine learning.",
			Tags:    []string{"ml"},
			UserID:  "alice",
		},
		{
			ID:      "doc-b",
			Title:   "Groceries",
			Content: "Buy milk and eggs. Call 555-123-4567.",
			UserID:  "bob",
		},
		{
			ID:       "doc-c",
			Title:    "Meeting",
			Content:  "Visit https://example.com for the agenda on 2024-05-01.",
			Category: "note",
			UserID:   "alice",
			Priority: 5,
		},
	}}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(testCorpus(), opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngineRequiresCorpus(t *testing.T) {
	_, err := NewEngine(nil)
	assert.ErrorIs(t, err, ErrCorpusRequired)
}

func TestSearchRegex(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternRegex, Pattern: `\d+`},
		core.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)

	// Both documents hold three digit runs; the tie breaks by id.
	assert.Equal(t, "doc-b", res.Results[0].DocumentID)
	assert.Equal(t, "doc-c", res.Results[1].DocumentID)
	assert.InDelta(t, 0.3, res.Results[0].Score, 1e-9)
	assert.Equal(t, 3, res.Results[0].MatchCount)
	assert.Equal(t, []string{"content"}, res.Results[0].MatchedFields)
}

func TestSearchRegexInvalidPattern(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternRegex, Pattern: "[unclosed"},
		core.SearchOptions{})
	require.Error(t, err)

	var compileErr *CompileError
	assert.True(t, errors.As(err, &compileErr))
}

func TestSearchPredefined(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternPredefined, Pattern: "email"},
		core.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "doc-a", res.Results[0].DocumentID)
	require.Len(t, res.Results[0].Matches, 1)
	assert.Equal(t, "alice@example.com", res.Results[0].Matches[0].Text)
}

func TestSearchPredefinedUnknown(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternPredefined, Pattern: "no-such"},
		core.SearchOptions{})
	assert.ErrorIs(t, err, ErrUnknownPredefinedPattern)
}

func TestSearchWildcard(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternWildcard, Pattern: "mach*learn?ng"},
		core.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "doc-a", res.Results[0].DocumentID)
	// The match starts in the title, so the title bonus applies.
	assert.InDelta(t, 0.3, res.Results[0].Score, 1e-9)
}

func TestSearchFuzzy(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternFuzzy, Text: "machine"},
		core.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Results)

	top := res.Results[0]
	assert.Equal(t, "doc-a", top.DocumentID)
	assert.InDelta(t, 1.0, top.Score, 1e-9)
	assert.Equal(t, 2, top.MatchCount)
	assert.ElementsMatch(t, []string{"title", "content"}, top.MatchedFields)
}

func TestSearchFuzzyMisspelled(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternFuzzy, Text: "machin"},
		core.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Results)
	assert.Equal(t, "doc-a", res.Results[0].DocumentID)
	assert.Greater(t, res.Results[0].Score, 0.8)
}

func TestSearchFuzzyThresholdExcludes(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternFuzzy, Text: "machine", Threshold: 0.99},
		core.SearchOptions{})
	require.NoError(t, err)
	for _, r := range res.Results {
		assert.GreaterOrEqual(t, r.Score, 0.99)
	}
}

func TestSearchStructural(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternStructural, Structure: map[string]any{
			"category": "note",
			"priority": 5,
		}},
		core.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "doc-c", res.Results[0].DocumentID)
	assert.InDelta(t, 0.2, res.Results[0].Score, 1e-9)
	assert.Equal(t, 2, res.Results[0].MatchCount)
}

func TestSearchStructuralNoMatchOnMissingKey(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternStructural, Structure: map[string]any{
			"category": "journal",
		}},
		core.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

func TestSearchLiteral(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternLiteral, Pattern: "MILK"},
		core.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "doc-b", res.Results[0].DocumentID)
	assert.Equal(t, 1, res.Results[0].MatchCount)
	assert.Equal(t, "milk", res.Results[0].Matches[0].Text)
}

func TestSearchLiteralCaseSensitive(t *testing.T) {
	e := newTestEngine(t, WithCaseSensitive(true))

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternLiteral, Pattern: "MILK"},
		core.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

func TestSearchEmptyPattern(t *testing.T) {
	e := newTestEngine(t)

	for _, kind := range []core.PatternKind{
		core.PatternRegex, core.PatternWildcard, core.PatternFuzzy, core.PatternLiteral,
	} {
		_, err := e.Search(context.Background(),
			core.PatternQuery{Kind: kind},
			core.SearchOptions{})
		assert.ErrorIs(t, err, ErrEmptyPattern, kind.String())
	}
}

func TestSearchUnknownKind(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternKind(42), Pattern: "x"},
		core.SearchOptions{})
	assert.ErrorIs(t, err, ErrUnknownPatternKind)
}

func TestSearchUserFilter(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternRegex, Pattern: `\d+`},
		core.SearchOptions{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "doc-c", res.Results[0].DocumentID)
}

func TestSearchLimitAndTotal(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Search(context.Background(),
		core.PatternQuery{Kind: core.PatternRegex, Pattern: `\d+`},
		core.SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Results, 1)
	assert.Equal(t, 2, res.Total)
}

func TestStatsAndCacheCounters(t *testing.T) {
	e := newTestEngine(t)

	q := core.PatternQuery{Kind: core.PatternRegex, Pattern: `\d+`}
	for i := 0; i < 3; i++ {
		_, err := e.Search(context.Background(), q, core.SearchOptions{})
		require.NoError(t, err)
	}

	stats := e.Stats()
	assert.Equal(t, uint64(3), stats.Queries)
	assert.Equal(t, uint64(2), stats.CacheHits)
	assert.Equal(t, uint64(3), stats.PerKind[core.PatternRegex.String()])
	assert.Greater(t, stats.AvgLatency.Nanoseconds(), int64(0))

	e.ResetStats()
	assert.Equal(t, uint64(0), e.Stats().Queries)

	e.ClearCache()
	assert.Equal(t, uint64(0), e.Stats().CacheHits)
}
