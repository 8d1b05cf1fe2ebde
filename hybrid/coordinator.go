package hybrid

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/pattern"
	"github.com/poiesic/recall/semantic"
)

const defaultPoolSize = 8

// TextSearcher is the optional full-text collaborator. The bleve-backed
// fulltext.Index satisfies it.
type TextSearcher interface {
	Search(ctx context.Context, text string, opts core.SearchOptions) ([]core.ScoredResult, error)
}

// SourceBreakdown reports one subquery's outcome inside a hybrid search.
type SourceBreakdown struct {
	Source       string
	Weight       float64
	ResultCount  int
	Contribution float64
	Took         time.Duration
	Err          error
	TimedOut     bool
}

// Result is the fused response of a hybrid search.
type Result struct {
	Results   []core.ScoredResult
	Total     int
	Breakdown []SourceBreakdown
	Partial   bool
	Took      time.Duration
}

// Coordinator fans hybrid queries out to the configured engines and fuses
// their results. Engines left unset cause ErrSourceUnavailable for subqueries
// that need them, without failing the rest of the query.
type Coordinator struct {
	semantic *semantic.Engine
	pattern  *pattern.Engine
	fulltext TextSearcher
	pool     *ants.Pool
	fusion   Fusion
	logger   *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator) error

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithSemanticEngine registers the vector similarity source.
func WithSemanticEngine(e *semantic.Engine) Option {
	return func(c *Coordinator) error {
		c.semantic = e
		return nil
	}
}

// WithPatternEngine registers the pattern matching source.
func WithPatternEngine(e *pattern.Engine) Option {
	return func(c *Coordinator) error {
		c.pattern = e
		return nil
	}
}

// WithFulltext registers the full-text source.
func WithFulltext(ts TextSearcher) Option {
	return func(c *Coordinator) error {
		c.fulltext = ts
		return nil
	}
}

// WithFusion selects the score fusion strategy. Default is FusionWeightedSum.
func WithFusion(f Fusion) Option {
	return func(c *Coordinator) error {
		c.fusion = f
		return nil
	}
}

// WithPoolSize sets the worker pool size for subquery fan-out.
func WithPoolSize(size int) Option {
	return func(c *Coordinator) error {
		if size < 1 {
			return fmt.Errorf("pool size must be positive, got %d", size)
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("creating worker pool: %w", err)
		}
		if c.pool != nil {
			c.pool.Release()
		}
		c.pool = pool
		return nil
	}
}

// NewCoordinator builds a hybrid search coordinator. At least one source
// engine must be registered.
func NewCoordinator(opts ...Option) (*Coordinator, error) {
	c := &Coordinator{
		fusion: FusionWeightedSum,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			if c.pool != nil {
				c.pool.Release()
			}
			return nil, err
		}
	}
	if c.semantic == nil && c.pattern == nil && c.fulltext == nil {
		return nil, ErrNoSources
	}
	if c.pool == nil {
		pool, err := ants.NewPool(defaultPoolSize)
		if err != nil {
			return nil, fmt.Errorf("creating worker pool: %w", err)
		}
		c.pool = pool
	}
	return c, nil
}

// Close releases the coordinator's worker pool.
func (c *Coordinator) Close() {
	if c.pool != nil {
		c.pool.Release()
	}
}

// Search runs all subqueries concurrently and fuses their results.
func (c *Coordinator) Search(ctx context.Context, q core.HybridQuery, opts core.SearchOptions) (*Result, error) {
	return c.SearchWithMonitor(ctx, q, opts, nil)
}

// outcome carries one finished subquery back to the coordinator loop.
type outcome struct {
	idx       int
	breakdown SourceBreakdown
	results   []core.ScoredResult
}

// SearchWithMonitor is Search with observation hooks. A nil monitor is
// replaced by a no-op.
func (c *Coordinator) SearchWithMonitor(ctx context.Context, q core.HybridQuery, opts core.SearchOptions, mon Monitor) (*Result, error) {
	if len(q.Subqueries) == 0 {
		return nil, ErrNoSubqueries
	}
	if mon == nil {
		mon = &noopMonitor{}
	}
	mon.Start(q)
	started := time.Now()

	outcomes := make(chan outcome, len(q.Subqueries))
	for i, sub := range q.Subqueries {
		run := func() {
			subStart := time.Now()
			name := sourceName(sub.Query, i)
			results, err := c.runSubquery(ctx, sub.Query, opts)
			outcomes <- outcome{
				idx: i,
				breakdown: SourceBreakdown{
					Source:      name,
					Weight:      effectiveWeight(sub.Weight),
					ResultCount: len(results),
					Took:        time.Since(subStart),
					Err:         err,
				},
				results: results,
			}
		}
		if err := c.pool.Submit(run); err != nil {
			// Pool saturated or released; run on the caller's goroutine
			// so the subquery is never silently dropped.
			run()
		}
	}

	breakdowns := make([]SourceBreakdown, len(q.Subqueries))
	sources := make([]sourceResult, len(q.Subqueries))
	partial := false
	pending := len(q.Subqueries)

collect:
	for pending > 0 {
		select {
		case out := <-outcomes:
			pending--
			breakdowns[out.idx] = out.breakdown
			if out.breakdown.Err != nil {
				c.logger.Warn("hybrid subquery failed",
					"source", out.breakdown.Source,
					"error", out.breakdown.Err)
			} else {
				sources[out.idx] = sourceResult{
					name:    out.breakdown.Source,
					weight:  out.breakdown.Weight,
					results: out.results,
				}
			}
			mon.SourceDone(out.breakdown)
		case <-ctx.Done():
			// The deadline expired; fuse what finished and mark the
			// stragglers as timed out.
			partial = true
			for i := range breakdowns {
				if breakdowns[i].Source == "" {
					breakdowns[i] = SourceBreakdown{
						Source:   sourceName(q.Subqueries[i].Query, i),
						Weight:   effectiveWeight(q.Subqueries[i].Weight),
						Err:      ctx.Err(),
						TimedOut: true,
					}
					mon.SourceDone(breakdowns[i])
				}
			}
			break collect
		}
	}

	active := make([]sourceResult, 0, len(sources))
	for _, src := range sources {
		if src.name != "" {
			active = append(active, src)
		}
	}
	fused := fuse(c.fusion, active, opts.EffectiveLimit())

	for i := range breakdowns {
		breakdowns[i].Contribution = contribution(breakdowns[i].Source, fused)
	}

	mon.Finish(fused)
	return &Result{
		Results:   fused,
		Total:     len(fused),
		Breakdown: breakdowns,
		Partial:   partial,
		Took:      time.Since(started),
	}, nil
}

// runSubquery dispatches one subquery to its engine.
func (c *Coordinator) runSubquery(ctx context.Context, q core.Query, opts core.SearchOptions) ([]core.ScoredResult, error) {
	switch sq := q.(type) {
	case core.SemanticQuery:
		if c.semantic == nil {
			return nil, fmt.Errorf("semantic: %w", ErrSourceUnavailable)
		}
		res, err := c.semantic.Search(ctx, sq, opts)
		if err != nil {
			return nil, err
		}
		return res.Results, nil
	case core.PatternQuery:
		if c.pattern == nil {
			return nil, fmt.Errorf("pattern: %w", ErrSourceUnavailable)
		}
		res, err := c.pattern.Search(ctx, sq, opts)
		if err != nil {
			return nil, err
		}
		return res.Results, nil
	case core.FulltextQuery:
		if c.fulltext == nil {
			return nil, fmt.Errorf("fulltext: %w", ErrSourceUnavailable)
		}
		return c.fulltext.Search(ctx, sq.Text, opts)
	case core.HybridQuery:
		return nil, ErrNestedHybrid
	default:
		return nil, fmt.Errorf("unsupported query type %T", q)
	}
}

// sourceName labels a subquery for breakdowns and SourceScores.
func sourceName(q core.Query, idx int) string {
	var kind string
	switch q.(type) {
	case core.SemanticQuery:
		kind = "semantic"
	case core.PatternQuery:
		kind = "pattern"
	case core.FulltextQuery:
		kind = "fulltext"
	default:
		kind = "unknown"
	}
	return fmt.Sprintf("%s[%d]", kind, idx)
}

// effectiveWeight treats an unset weight as 1.0.
func effectiveWeight(w float64) float64 {
	if w <= 0 {
		return 1.0
	}
	return w
}

// contribution sums the weighted presence of a source across the fused set.
func contribution(source string, fused []core.ScoredResult) float64 {
	var total float64
	for _, r := range fused {
		if s, ok := r.SourceScores[source]; ok {
			total += s
		}
	}
	return total
}
