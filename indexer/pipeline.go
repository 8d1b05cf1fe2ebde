package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/index"
	"github.com/poiesic/recall/storage"
)

// TextIndex is the optional full-text collaborator the pipeline keeps in
// sync with storage. The bleve-backed fulltext.Index satisfies it.
type TextIndex interface {
	IndexDocument(doc *core.Document) error
	DeleteDocument(id string) error
}

// Pipeline orchestrates document indexing. It persists documents, generates
// embeddings for documents that arrive without one, and keeps the vector and
// full-text indexes in sync with storage.
type Pipeline struct {
	repository storage.DocumentRepository
	vectors    *index.Index
	fulltext   TextIndex
	embedder   ai.Embedder
	pool       *ants.Pool
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithEmbedder sets the embedder used to fill in missing vectors. Without
// one, documents that arrive without an embedding are stored and text
// indexed but skipped by the vector index.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(p *Pipeline) error {
		p.embedder = embedder
		return nil
	}
}

// WithFulltext registers a full-text index to keep in sync.
func WithFulltext(ti TextIndex) Option {
	return func(p *Pipeline) error {
		p.fulltext = ti
		return nil
	}
}

// WithPoolSize sets the worker pool size for async enrichment.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(repository storage.DocumentRepository, vectors *index.Index, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		vectors:    vectors,
		pool:       pool,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Ingest persists documents and submits them for async enrichment. Missing
// IDs are derived from content. Enrichment errors are logged, not returned.
func (p *Pipeline) Ingest(ctx context.Context, docs ...*core.Document) error {
	for _, doc := range docs {
		if doc.ID == "" {
			doc.ID = core.IDFromContent(doc.Content)
		}
	}
	if err := p.repository.AddDocuments(ctx, docs...); err != nil {
		return err
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}

	p.wg.Add(1)
	submitErr := p.pool.Submit(func() {
		defer p.wg.Done()
		if err := p.process(context.Background(), ids...); err != nil {
			p.logger.Error("error indexing documents", "err", err)
		}
	})
	if submitErr != nil {
		p.wg.Done()
		// Pool rejected the task; index on the caller's goroutine so the
		// documents do not stay invisible to search.
		return p.process(ctx, ids...)
	}
	return nil
}

// IndexDocuments indexes the stored documents with the given IDs
// synchronously. Documents without an embedding are embedded first when an
// embedder is configured.
func (p *Pipeline) IndexDocuments(ctx context.Context, ids ...string) error {
	return p.process(ctx, ids...)
}

// Remove deletes documents from storage and from both indexes.
func (p *Pipeline) Remove(ctx context.Context, ids ...string) error {
	if err := p.repository.DeleteDocuments(ctx, ids...); err != nil {
		return err
	}
	for _, id := range ids {
		p.vectors.Remove(id)
		if p.fulltext != nil {
			if err := p.fulltext.DeleteDocument(id); err != nil {
				p.logger.Warn("error removing document from full-text index", "id", id, "err", err)
			}
		}
	}
	return nil
}

// Rebuild walks storage and reindexes every document. It is used at startup
// to restore the in-memory indexes. Returns the number of documents indexed.
func (p *Pipeline) Rebuild(ctx context.Context) (int, error) {
	docs, err := p.repository.ListDocuments(ctx, storage.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("listing documents for rebuild: %w", err)
	}

	indexed := 0
	for _, doc := range docs {
		if err := p.indexOne(ctx, doc); err != nil {
			p.logger.Warn("skipping document during rebuild", "id", doc.ID, "err", err)
			continue
		}
		indexed++
	}
	p.logger.Info("index rebuild complete", "documents", indexed)
	return indexed, nil
}

// Wait blocks until all async enrichment submitted so far has finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Release waits for in-flight enrichment and releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.wg.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
}

// process embeds and indexes the stored documents with the given IDs.
func (p *Pipeline) process(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		doc, err := p.repository.GetDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching document %q: %w", id, err)
		}
		if err := p.indexOne(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// indexOne inserts a single document into the indexes, embedding it first if
// needed.
func (p *Pipeline) indexOne(ctx context.Context, doc *core.Document) error {
	if len(doc.Embedding) == 0 && p.embedder != nil && doc.Content != "" {
		vector, err := p.embedder.EmbedText(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("embedding document %q: %w", doc.ID, err)
		}
		doc.Embedding = vector
		if err := p.repository.UpdateDocuments(ctx, doc); err != nil {
			return fmt.Errorf("persisting embedding for %q: %w", doc.ID, err)
		}
	}

	if len(doc.Embedding) > 0 {
		if err := p.vectors.Insert(doc.ID, doc.Embedding, doc); err != nil {
			return fmt.Errorf("vector indexing %q: %w", doc.ID, err)
		}
	}
	if p.fulltext != nil {
		if err := p.fulltext.IndexDocument(doc); err != nil {
			return fmt.Errorf("text indexing %q: %w", doc.ID, err)
		}
	}
	return nil
}
