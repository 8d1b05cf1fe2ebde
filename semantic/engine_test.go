package semantic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/index"
)

func seededIndex(t *testing.T) *index.Index {
	t.Helper()
	ix := index.New(3)

	docs := []struct {
		id  string
		vec []float32
		doc *core.Document
	}{
		{"d1", []float32{1, 0, 0}, &core.Document{
			ID: "d1", Title: "Go concurrency patterns",
			Content: "Channels and goroutines. Select statements multiplex. Workers share load.",
			UserID:  "alice",
		}},
		{"d2", []float32{0.9, 0.1, 0}, &core.Document{
			ID: "d2", Title: "Scheduling notes",
			Content: "The runtime scheduler moves goroutines between threads.",
			UserID:  "bob",
		}},
		{"d3", []float32{0, 0, 1}, &core.Document{
			ID: "d3", Title: "Unrelated",
			Content: "A grocery list.",
			UserID:  "alice",
		}},
	}
	for _, d := range docs {
		require.NoError(t, ix.Insert(d.id, d.vec, d.doc))
	}
	return ix
}

func TestNewEngineRequiresIndex(t *testing.T) {
	_, err := NewEngine(nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestSearchByEmbedding(t *testing.T) {
	e, err := NewEngine(seededIndex(t))
	require.NoError(t, err)

	res, err := e.Search(context.Background(),
		core.SemanticQuery{Embedding: []float32{1, 0, 0}},
		core.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, res.Results, 3)

	assert.Equal(t, "d1", res.Results[0].DocumentID)
	assert.InDelta(t, 1.0, res.Results[0].Score, 1e-6)
	assert.Equal(t, "d2", res.Results[1].DocumentID)
	assert.Equal(t, "d3", res.Results[2].DocumentID)
	assert.Equal(t, "cosine", res.Model)
}

func TestSearchThresholdFiltersOrthogonal(t *testing.T) {
	e, err := NewEngine(seededIndex(t))
	require.NoError(t, err)

	res, err := e.Search(context.Background(),
		core.SemanticQuery{Embedding: []float32{1, 0, 0}},
		core.SearchOptions{Threshold: 0.7})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "d1", res.Results[0].DocumentID)
	assert.Equal(t, "d2", res.Results[1].DocumentID)
}

func TestSearchLimit(t *testing.T) {
	e, err := NewEngine(seededIndex(t))
	require.NoError(t, err)

	res, err := e.Search(context.Background(),
		core.SemanticQuery{Embedding: []float32{1, 0, 0}},
		core.SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Results, 1)
	assert.Equal(t, 3, res.Total)
}

func TestSearchUserFilter(t *testing.T) {
	e, err := NewEngine(seededIndex(t))
	require.NoError(t, err)

	res, err := e.Search(context.Background(),
		core.SemanticQuery{Embedding: []float32{1, 0, 0}},
		core.SearchOptions{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "d1", res.Results[0].DocumentID)
	assert.Equal(t, "d3", res.Results[1].DocumentID)
}

func TestSearchRejectsWrongQueryDimension(t *testing.T) {
	e, err := NewEngine(seededIndex(t))
	require.NoError(t, err)

	_, err = e.Search(context.Background(),
		core.SemanticQuery{Embedding: []float32{1, 0}},
		core.SearchOptions{})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestSearchTextWithoutEmbedderFails(t *testing.T) {
	e, err := NewEngine(seededIndex(t))
	require.NoError(t, err)

	_, err = e.Search(context.Background(),
		core.SemanticQuery{Text: "goroutines"},
		core.SearchOptions{})
	assert.ErrorIs(t, err, core.ErrNoEmbedding)
}

func TestSearchTextUsesEmbedder(t *testing.T) {
	embedder := mock.NewEmbedder(3)
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	e, err := NewEngine(seededIndex(t), WithEmbedder(embedder))
	require.NoError(t, err)

	res, err := e.Search(context.Background(),
		core.SemanticQuery{Text: "goroutines"},
		core.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Results)
	assert.Equal(t, "d1", res.Results[0].DocumentID)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestSearchEmbedderErrorPropagates(t *testing.T) {
	wantErr := errors.New("provider down")
	embedder := mock.NewEmbedder(3)
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, wantErr
	}

	e, err := NewEngine(seededIndex(t), WithEmbedder(embedder))
	require.NoError(t, err)

	_, err = e.Search(context.Background(),
		core.SemanticQuery{Text: "anything"},
		core.SearchOptions{})
	assert.ErrorIs(t, err, wantErr)
}

func TestSearchEmbedderDimensionChecked(t *testing.T) {
	embedder := mock.NewEmbedder(5)

	e, err := NewEngine(seededIndex(t), WithEmbedder(embedder))
	require.NoError(t, err)

	_, err = e.Search(context.Background(),
		core.SemanticQuery{Text: "anything"},
		core.SearchOptions{})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestSearchWithReranker(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	e, err := NewEngine(seededIndex(t),
		WithReranker(CosineReranker{}),
		withClock(func() time.Time { return now }))
	require.NoError(t, err)

	res, err := e.Search(context.Background(),
		core.SemanticQuery{Text: "concurrency patterns", Embedding: []float32{0.8, 0.6, 0}},
		core.SearchOptions{Threshold: 0.5})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "cosine", res.Model)

	// d1's title holds both query words, so the title boost lifts it above
	// d2 even though d2 has the higher raw similarity.
	assert.Equal(t, "d1", res.Results[0].DocumentID)
	assert.Greater(t, res.Results[1].RawSimilarity, res.Results[0].RawSimilarity)
	assert.LessOrEqual(t, res.Results[0].Score, 1.0)
}

func TestSearchHighlight(t *testing.T) {
	e, err := NewEngine(seededIndex(t))
	require.NoError(t, err)

	res, err := e.Search(context.Background(),
		core.SemanticQuery{Text: "goroutines select", Embedding: []float32{1, 0, 0}},
		core.SearchOptions{IncludeHighlight: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)

	h := res.Results[0].Highlight
	require.NotNil(t, h)
	assert.Contains(t, h.Snippets[0], "**goroutines**")
}

func TestSearchStats(t *testing.T) {
	e, err := NewEngine(seededIndex(t))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := e.Search(context.Background(),
			core.SemanticQuery{Embedding: []float32{1, 0, 0}},
			core.SearchOptions{})
		require.NoError(t, err)
	}

	stats := e.Stats()
	assert.Equal(t, uint64(2), stats.Queries)
	assert.Equal(t, uint64(2), stats.PerModel["cosine"])

	e.ResetStats()
	assert.Equal(t, uint64(0), e.Stats().Queries)
}
