package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/index"
)

// Engine executes semantic queries against the vector index.
type Engine struct {
	index    *index.Index
	embedder ai.Embedder
	reranker Reranker
	stats    *Stats
	logger   *slog.Logger
	now      func() time.Time
}

// Result is the outcome of one semantic search.
type Result struct {
	Results []core.ScoredResult
	Total   int
	Model   string
	Took    time.Duration
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithEmbedder sets the embedding provider used to resolve text-only queries.
// Without one, such queries fail with core.ErrNoEmbedding.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(e *Engine) error {
		e.embedder = embedder
		return nil
	}
}

// WithReranker enables a second scoring pass over the candidate set.
func WithReranker(r Reranker) Option {
	return func(e *Engine) error {
		e.reranker = r
		return nil
	}
}

// withClock overrides the time source for deterministic recency tests.
func withClock(now func() time.Time) Option {
	return func(e *Engine) error {
		e.now = now
		return nil
	}
}

// NewEngine creates a semantic engine over the given vector index.
func NewEngine(ix *index.Index, opts ...Option) (*Engine, error) {
	if ix == nil {
		return nil, ErrIndexRequired
	}

	e := &Engine{
		index:  ix,
		stats:  newStats(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Search resolves the query vector, scans the index, ranks by similarity,
// optionally reranks, and attaches highlights on request.
func (e *Engine) Search(ctx context.Context, q core.SemanticQuery, opts core.SearchOptions) (*Result, error) {
	start := time.Now()

	vector, err := e.resolveVector(ctx, q)
	if err != nil {
		return nil, err
	}

	candidates := e.index.Scan(vector, index.FromOptions(opts))

	kept := candidates[:0]
	for _, c := range candidates {
		if c.Similarity >= opts.Threshold {
			kept = append(kept, c)
		}
	}
	candidates = kept

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].ID < candidates[j].ID
	})

	total := len(candidates)
	if limit := opts.EffectiveLimit(); len(candidates) > limit {
		candidates = candidates[:limit]
	}

	model := "cosine"
	now := e.now()
	results := make([]core.ScoredResult, 0, len(candidates))
	for _, c := range candidates {
		score := c.Similarity
		if e.reranker != nil && c.Doc != nil {
			model = e.reranker.Name()
			score = e.reranker.Score(q.Text, Item{Doc: c.Doc, Similarity: c.Similarity}, now)
		}

		r := core.ScoredResult{
			DocumentID:    c.ID,
			Score:         core.ClampScore(score),
			RawSimilarity: c.Similarity,
		}
		if opts.IncludeHighlight && q.Text != "" && c.Doc != nil {
			r.Highlight = highlight(c.Doc, q.Text)
		}
		results = append(results, r)
	}

	// Reranking can reorder candidates; restore rank order.
	if e.reranker != nil {
		sort.Slice(results, func(i, j int) bool {
			if results[i].Score != results[j].Score {
				return results[i].Score > results[j].Score
			}
			return results[i].DocumentID < results[j].DocumentID
		})
	}

	took := time.Since(start)
	e.stats.record(model, took)
	e.logger.Debug("semantic search complete",
		"model", model, "total", total, "returned", len(results), "took", took)

	return &Result{Results: results, Total: total, Model: model, Took: took}, nil
}

// resolveVector picks the query vector: a supplied embedding verbatim, else
// an embedding generated from the query text, else failure.
func (e *Engine) resolveVector(ctx context.Context, q core.SemanticQuery) ([]float32, error) {
	if len(q.Embedding) > 0 {
		if len(q.Embedding) != e.index.Dimension() {
			return nil, fmt.Errorf("%w: got %d, want %d",
				core.ErrDimensionMismatch, len(q.Embedding), e.index.Dimension())
		}
		return q.Embedding, nil
	}

	if q.Text != "" && e.embedder != nil {
		vector, err := e.embedder.EmbedText(ctx, q.Text)
		if err != nil {
			return nil, err
		}
		if len(vector) != e.index.Dimension() {
			return nil, fmt.Errorf("%w: provider returned %d, want %d",
				core.ErrDimensionMismatch, len(vector), e.index.Dimension())
		}
		return vector, nil
	}

	return nil, core.ErrNoEmbedding
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.snapshot()
}

// ResetStats zeroes the engine counters.
func (e *Engine) ResetStats() {
	e.stats.reset()
}
