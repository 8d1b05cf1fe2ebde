package index

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/recall/core"
)

// Index is an in-memory vector index mapping document ids to embeddings and
// document metadata. Safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   map[string]*entry
	logger    *slog.Logger
}

type entry struct {
	embedding []float32
	doc       *core.Document
}

// Candidate is one scan hit: a document id with its raw cosine similarity.
type Candidate struct {
	ID         string
	Similarity float64
	Doc        *core.Document
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

// New creates an empty index for vectors of the given dimension.
// A non-positive dimension falls back to core.DefaultEmbeddingDimension.
func New(dimension int, opts ...Option) *Index {
	if dimension <= 0 {
		dimension = core.DefaultEmbeddingDimension
	}
	ix := &Index{
		dimension: dimension,
		entries:   make(map[string]*entry),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Dimension returns the configured embedding dimension.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Insert adds or replaces the entry for id.
// The embedding must match the configured dimension; it is rejected, never
// truncated or padded.
func (ix *Index) Insert(id string, embedding []float32, doc *core.Document) error {
	if id == "" {
		return core.ErrEmptyID
	}
	if len(embedding) != ix.dimension {
		return fmt.Errorf("%w: got %d, want %d", core.ErrDimensionMismatch, len(embedding), ix.dimension)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	ix.mu.Lock()
	ix.entries[id] = &entry{embedding: vec, doc: doc}
	ix.mu.Unlock()
	return nil
}

// Patch describes a partial update. Nil fields are left unchanged.
type Patch struct {
	Embedding []float32
	Title     *string
	Content   *string
	Summary   *string
	Tags      []string
	Category  *string
	Priority  *int
}

// Update applies a partial update to an existing entry.
// Returns core.ErrNotFound if the id is absent and core.ErrDimensionMismatch
// if a new embedding has the wrong length.
func (ix *Index) Update(id string, patch Patch) error {
	if patch.Embedding != nil && len(patch.Embedding) != ix.dimension {
		return fmt.Errorf("%w: got %d, want %d", core.ErrDimensionMismatch, len(patch.Embedding), ix.dimension)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	old, ok := ix.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	// Copy-on-write so a concurrent scan holding the old entry stays consistent.
	next := &entry{embedding: old.embedding}
	if old.doc != nil {
		docCopy := *old.doc
		next.doc = &docCopy
	} else {
		next.doc = &core.Document{ID: id}
	}

	if patch.Embedding != nil {
		vec := make([]float32, len(patch.Embedding))
		copy(vec, patch.Embedding)
		next.embedding = vec
		next.doc.Embedding = vec
	}
	if patch.Title != nil {
		next.doc.Title = *patch.Title
	}
	if patch.Content != nil {
		next.doc.Content = *patch.Content
	}
	if patch.Summary != nil {
		next.doc.Summary = *patch.Summary
	}
	if patch.Tags != nil {
		next.doc.Tags = patch.Tags
	}
	if patch.Category != nil {
		next.doc.Category = *patch.Category
	}
	if patch.Priority != nil {
		next.doc.Priority = *patch.Priority
	}

	ix.entries[id] = next
	return nil
}

// Remove deletes the entry for id, reporting whether one existed.
func (ix *Index) Remove(id string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.entries[id]; !ok {
		return false
	}
	delete(ix.entries, id)
	return true
}

// Get returns the stored document metadata for id.
func (ix *Index) Get(id string) (*core.Document, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	e, ok := ix.entries[id]
	if !ok {
		return nil, false
	}
	return e.doc, true
}

// Scan performs a brute-force similarity pass over all indexed vectors,
// computing cosine similarity for every candidate surviving the filter.
// A nil filter accepts everything. Results are unordered; callers sort.
func (ix *Index) Scan(query []float32, filter Filter) []Candidate {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	candidates := make([]Candidate, 0, len(ix.entries))
	for id, e := range ix.entries {
		if filter != nil && !filter(e.doc) {
			continue
		}
		candidates = append(candidates, Candidate{
			ID:         id,
			Similarity: CosineSimilarity(query, e.embedding),
			Doc:        e.doc,
		})
	}
	return candidates
}
