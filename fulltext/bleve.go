package fulltext

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/poiesic/recall/core"
)

// Index is an in-memory bleve full-text index over the document corpus.
// Like the vector index, it is process-local and rebuilt on restart.
type Index struct {
	idx    bleve.Index
	logger *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
	}
}

// NewMemoryIndex creates an empty in-memory full-text index.
// Title, content, and summary are analyzed as prose; userId, category, and
// tags are keyword fields so filters match exactly.
func NewMemoryIndex(opts ...Option) (*Index, error) {
	docMapping := bleve.NewDocumentMapping()

	kw := bleve.NewTextFieldMapping()
	kw.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("userId", kw)
	docMapping.AddFieldMappingsAt("category", kw)
	docMapping.AddFieldMappingsAt("tags", kw)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create fulltext index: %w", err)
	}

	ix := &Index{idx: idx, logger: slog.Default()}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// IndexDocument adds or replaces a document in the index.
func (ix *Index) IndexDocument(doc *core.Document) error {
	if doc == nil || doc.ID == "" {
		return core.ErrEmptyID
	}
	return ix.idx.Index(doc.ID, map[string]any{
		"title":    doc.Title,
		"content":  doc.Content,
		"summary":  doc.Summary,
		"tags":     doc.Tags,
		"category": doc.Category,
		"userId":   doc.UserID,
	})
}

// DeleteDocument removes a document from the index.
func (ix *Index) DeleteDocument(id string) error {
	return ix.idx.Delete(id)
}

// Count returns the number of indexed documents.
func (ix *Index) Count() (uint64, error) {
	return ix.idx.DocCount()
}

// Search runs a match query over the analyzed fields, constrained by any
// field filters in the options. Scores are normalized by the top hit so they
// land in [0,1] and fuse cleanly with the other sources.
func (ix *Index) Search(ctx context.Context, text string, opts core.SearchOptions) ([]core.ScoredResult, error) {
	conjuncts := []query.Query{bleve.NewMatchQuery(text)}

	if opts.UserID != "" {
		tq := bleve.NewTermQuery(opts.UserID)
		tq.SetField("userId")
		conjuncts = append(conjuncts, tq)
	}
	if opts.Category != "" {
		tq := bleve.NewTermQuery(opts.Category)
		tq.SetField("category")
		conjuncts = append(conjuncts, tq)
	}
	for _, tag := range opts.Tags {
		tq := bleve.NewTermQuery(tag)
		tq.SetField("tags")
		conjuncts = append(conjuncts, tq)
	}

	var q query.Query = conjuncts[0]
	if len(conjuncts) > 1 {
		q = bleve.NewConjunctionQuery(conjuncts...)
	}

	req := bleve.NewSearchRequestOptions(q, opts.EffectiveLimit(), 0, false)
	res, err := ix.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fulltext search: %w", err)
	}

	results := make([]core.ScoredResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		score := hit.Score
		if res.MaxScore > 0 {
			score = hit.Score / res.MaxScore
		}
		results = append(results, core.ScoredResult{
			DocumentID:    hit.ID,
			Score:         core.ClampScore(score),
			RawSimilarity: hit.Score,
		})
	}
	return results, nil
}

// Close releases the index resources.
func (ix *Index) Close() error {
	return ix.idx.Close()
}
