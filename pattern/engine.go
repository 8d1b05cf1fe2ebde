package pattern

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/similarity"
	"github.com/poiesic/recall/storage"
)

// DefaultFuzzyThreshold is the minimum Jaro-Winkler similarity for a token
// to count as a fuzzy match unless the query supplies its own threshold.
const DefaultFuzzyThreshold = 0.8

// Engine executes pattern queries against the document corpus.
type Engine struct {
	corpus         storage.DocumentReader
	cache          *regexCache
	stats          *Stats
	caseSensitive  bool
	fuzzyThreshold float64
	logger         *slog.Logger
}

// Result is the outcome of one pattern search.
type Result struct {
	Results []core.ScoredResult
	Total   int
	Kind    core.PatternKind
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

// WithCacheSize sets the compiled-pattern cache capacity.
// Default is DefaultCacheSize.
func WithCacheSize(size int) Option {
	return func(e *Engine) error {
		e.cache = newRegexCache(size)
		return nil
	}
}

// WithCaseSensitive makes literal matching case-sensitive.
// Default is case-insensitive.
func WithCaseSensitive(on bool) Option {
	return func(e *Engine) error {
		e.caseSensitive = on
		return nil
	}
}

// WithFuzzyThreshold sets the default fuzzy similarity threshold.
func WithFuzzyThreshold(threshold float64) Option {
	return func(e *Engine) error {
		e.fuzzyThreshold = threshold
		return nil
	}
}

// NewEngine creates a pattern engine over the given corpus.
func NewEngine(corpus storage.DocumentReader, opts ...Option) (*Engine, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}

	e := &Engine{
		corpus:         corpus,
		cache:          newRegexCache(DefaultCacheSize),
		stats:          newStats(),
		fuzzyThreshold: DefaultFuzzyThreshold,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Search executes a pattern query and returns scored, ranked results.
// Unknown kinds and invalid patterns are rejected; the engine never silently
// falls back to literal matching.
func (e *Engine) Search(ctx context.Context, q core.PatternQuery, opts core.SearchOptions) (*Result, error) {
	start := time.Now()

	docs, err := e.corpus.ListDocuments(ctx, storage.ListFilter{
		UserID:   opts.UserID,
		Category: opts.Category,
		Tags:     opts.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var results []core.ScoredResult
	switch q.Kind {
	case core.PatternRegex:
		results, err = e.execRegexSource(q.Pattern, q.Flags, docs)
	case core.PatternPredefined:
		results, err = e.execPredefined(q.Pattern, docs)
	case core.PatternWildcard:
		results, err = e.execWildcard(q.Pattern, docs)
	case core.PatternFuzzy:
		results, err = e.execFuzzy(q, docs)
	case core.PatternStructural:
		results, err = e.execStructural(q.Structure, docs)
	case core.PatternLiteral:
		results, err = e.execLiteral(q, docs)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownPatternKind, q.Kind)
	}
	if err != nil {
		return nil, err
	}

	if opts.Threshold > 0 {
		kept := results[:0]
		for _, r := range results {
			if r.Score >= opts.Threshold {
				kept = append(kept, r)
			}
		}
		results = kept
	}

	sortResults(results)
	total := len(results)
	if limit := opts.EffectiveLimit(); len(results) > limit {
		results = results[:limit]
	}

	took := time.Since(start)
	e.stats.record(q.Kind, took)
	e.logger.Debug("pattern search complete",
		"kind", q.Kind.String(), "total", total, "returned", len(results), "took", took)

	return &Result{Results: results, Total: total, Kind: q.Kind, Took: took}, nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.snapshot(e.cache.hitCount())
}

// ResetStats zeroes the engine counters.
func (e *Engine) ResetStats() {
	e.stats.reset()
}

// ClearCache drops all compiled patterns and the hit counter.
func (e *Engine) ClearCache() {
	e.cache.clear()
}

// sortResults orders by score descending, breaking ties by document id
// ascending for determinism.
func sortResults(results []core.ScoredResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentID < results[j].DocumentID
	})
}

func (e *Engine) execRegexSource(source, flags string, docs []*core.Document) ([]core.ScoredResult, error) {
	if source == "" {
		return nil, ErrEmptyPattern
	}
	re, err := e.cache.get(source, flags)
	if err != nil {
		return nil, err
	}
	return execRegex(re, docs), nil
}

func (e *Engine) execPredefined(name string, docs []*core.Document) ([]core.ScoredResult, error) {
	source, ok := predefinedPatterns[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPredefinedPattern, name)
	}
	re, err := e.cache.get(source, "i")
	if err != nil {
		return nil, err
	}
	return execRegex(re, docs), nil
}

func (e *Engine) execWildcard(glob string, docs []*core.Document) ([]core.ScoredResult, error) {
	if glob == "" {
		return nil, ErrEmptyPattern
	}
	re, err := e.cache.get(similarity.WildcardToRegex(glob), "i")
	if err != nil {
		return nil, err
	}
	return execRegex(re, docs), nil
}
