package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/recall/ai/mock"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/fulltext"
	"github.com/poiesic/recall/index"
	badgerstore "github.com/poiesic/recall/storage/badger"
)

const testDimension = 8

type fixture struct {
	pipeline *Pipeline
	vectors  *index.Index
	fulltext *fulltext.Index
	embedder *mock.Embedder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	vectors := index.New(testDimension)
	textIndex, err := fulltext.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { textIndex.Close() })

	embedder := mock.NewEmbedder(testDimension)
	pipeline, err := NewPipeline(repo, vectors,
		WithEmbedder(embedder),
		WithFulltext(textIndex),
		WithPoolSize(2),
	)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &fixture{
		pipeline: pipeline,
		vectors:  vectors,
		fulltext: textIndex,
		embedder: embedder,
	}
}

func TestNewPipelineValidation(t *testing.T) {
	_, err := NewPipeline(nil, index.New(testDimension))
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	_, err = NewPipeline(repo, nil)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)
}

func TestIngestEmbedsAndIndexes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := &core.Document{ID: "d1", Title: "Notes", Content: "ingest pipelines embed documents"}
	require.NoError(t, f.pipeline.Ingest(ctx, doc))
	f.pipeline.Wait()

	// The embedding was generated and persisted.
	stored, err := f.pipeline.repository.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, stored.Embedding, testDimension)

	// Both indexes see the document.
	assert.Equal(t, 1, f.vectors.Len())
	count, err := f.fulltext.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestIngestDerivesID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doc := &core.Document{Title: "No ID", Content: "identifier derived from content"}
	require.NoError(t, f.pipeline.Ingest(ctx, doc))
	f.pipeline.Wait()

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, core.IDFromContent(doc.Content), doc.ID)
}

func TestIngestKeepsSuppliedEmbedding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	vec := make([]float32, testDimension)
	vec[0] = 1
	doc := &core.Document{ID: "d1", Content: "already embedded", Embedding: vec}
	require.NoError(t, f.pipeline.Ingest(ctx, doc))
	f.pipeline.Wait()

	assert.Equal(t, 0, f.embedder.CallCount())
	candidates := f.vectors.Scan(vec, nil)
	require.Len(t, candidates, 1)
	assert.InDelta(t, 1.0, candidates[0].Similarity, 1e-6)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.pipeline.Ingest(ctx, &core.Document{ID: "d1", Content: "to be removed"}))
	f.pipeline.Wait()

	require.NoError(t, f.pipeline.Remove(ctx, "d1"))
	assert.Equal(t, 0, f.vectors.Len())
	count, err := f.fulltext.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	_, err = f.pipeline.repository.GetDocument(ctx, "d1")
	assert.Error(t, err)
}

func TestRebuild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.pipeline.Ingest(ctx,
		&core.Document{ID: "d1", Content: "first"},
		&core.Document{ID: "d2", Content: "second"},
	))
	f.pipeline.Wait()

	// Simulate a restart with fresh in-memory indexes.
	freshVectors := index.New(testDimension)
	freshText, err := fulltext.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { freshText.Close() })

	rebuilt, err := NewPipeline(f.pipeline.repository, freshVectors,
		WithEmbedder(f.embedder),
		WithFulltext(freshText),
	)
	require.NoError(t, err)
	t.Cleanup(rebuilt.Release)

	n, err := rebuilt.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, freshVectors.Len())
	count, err := freshText.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestRebuildSkipsBadDocuments(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	ctx := context.Background()

	good := &core.Document{ID: "good", Content: "fine"}
	good.Embedding = make([]float32, testDimension)
	good.Embedding[0] = 1
	bad := &core.Document{ID: "bad", Content: "wrong dimension"}
	bad.Embedding = []float32{1, 2}
	require.NoError(t, repo.AddDocuments(ctx, good, bad))

	vectors := index.New(testDimension)
	pipeline, err := NewPipeline(repo, vectors)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	n, err := pipeline.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, vectors.Len())
}

func TestIndexDocumentsEmbedderErrorPropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wantErr := errors.New("provider down")
	f.embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, wantErr
	}

	require.NoError(t, f.pipeline.repository.AddDocuments(ctx,
		&core.Document{ID: "d1", Content: "needs embedding"}))

	err := f.pipeline.IndexDocuments(ctx, "d1")
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, f.vectors.Len())
}

func TestIndexDocumentsWithoutEmbedderSkipsVectors(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	ctx := context.Background()

	textIndex, err := fulltext.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { textIndex.Close() })

	vectors := index.New(testDimension)
	pipeline, err := NewPipeline(repo, vectors, WithFulltext(textIndex))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	require.NoError(t, repo.AddDocuments(ctx, &core.Document{ID: "d1", Content: "text only"}))
	require.NoError(t, pipeline.IndexDocuments(ctx, "d1"))

	assert.Equal(t, 0, vectors.Len())
	count, err := textIndex.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
