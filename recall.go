// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package recall

import (
	"context"
	"log/slog"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/openai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/fulltext"
	"github.com/poiesic/recall/hybrid"
	"github.com/poiesic/recall/index"
	"github.com/poiesic/recall/indexer"
	"github.com/poiesic/recall/pattern"
	"github.com/poiesic/recall/semantic"
	"github.com/poiesic/recall/storage"
	badgerstore "github.com/poiesic/recall/storage/badger"
)

// Service is the top-level entry point. It owns the storage backend, the
// in-memory indexes, and the three search engines, and rebuilds the indexes
// from storage on open.
type Service struct {
	backend     *badgerstore.Backend
	repository  storage.DocumentRepository
	embedder    ai.Embedder
	vectors     *index.Index
	fulltext    *fulltext.Index
	semantic    *semantic.Engine
	pattern     *pattern.Engine
	coordinator *hybrid.Coordinator
	pipeline    *indexer.Pipeline
	dimension   int
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig  *ai.Config
	embedder  ai.Embedder
	reranker  semantic.Reranker
	fusion    hybrid.Fusion
	dimension int
	inMemory  bool
	logger    *slog.Logger
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder injects an embedder directly, bypassing the provider
// configuration. Useful for tests and offline setups.
func WithEmbedder(embedder ai.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedder = embedder
	}
}

// WithReranker sets the reranking model applied to semantic results.
func WithReranker(r semantic.Reranker) ServiceOption {
	return func(o *serviceOptions) {
		o.reranker = r
	}
}

// WithFusion selects the hybrid score fusion strategy.
func WithFusion(f hybrid.Fusion) ServiceOption {
	return func(o *serviceOptions) {
		o.fusion = f
	}
}

// WithDimension overrides the embedding dimension.
func WithDimension(dim int) ServiceOption {
	return func(o *serviceOptions) {
		o.dimension = dim
	}
}

// WithInMemory keeps all storage in memory. Nothing survives Close.
func WithInMemory() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the structured logger for all components.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// Open creates a Service backed by storage at filePath and rebuilds the
// search indexes from it.
func Open(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig:  ai.DefaultConfig(),
		dimension: core.DefaultEmbeddingDimension,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger

	backend, err := badgerstore.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	repository := badgerstore.NewDocumentRepository(backend)

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	vectors := index.New(options.dimension, index.WithLogger(logger))
	textIndex, err := fulltext.NewMemoryIndex(fulltext.WithLogger(logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	semanticOpts := []semantic.Option{
		semantic.WithLogger(logger),
		semantic.WithEmbedder(embedder),
	}
	if options.reranker != nil {
		semanticOpts = append(semanticOpts, semantic.WithReranker(options.reranker))
	}
	semanticEngine, err := semantic.NewEngine(vectors, semanticOpts...)
	if err != nil {
		textIndex.Close()
		backend.Close()
		return nil, err
	}

	patternEngine, err := pattern.NewEngine(repository, pattern.WithLogger(logger))
	if err != nil {
		textIndex.Close()
		backend.Close()
		return nil, err
	}

	coordinator, err := hybrid.NewCoordinator(
		hybrid.WithLogger(logger),
		hybrid.WithSemanticEngine(semanticEngine),
		hybrid.WithPatternEngine(patternEngine),
		hybrid.WithFulltext(textIndex),
		hybrid.WithFusion(options.fusion),
	)
	if err != nil {
		textIndex.Close()
		backend.Close()
		return nil, err
	}

	pipeline, err := indexer.NewPipeline(repository, vectors,
		indexer.WithLogger(logger),
		indexer.WithEmbedder(embedder),
		indexer.WithFulltext(textIndex),
	)
	if err != nil {
		coordinator.Close()
		textIndex.Close()
		backend.Close()
		return nil, err
	}

	s := &Service{
		backend:     backend,
		repository:  repository,
		embedder:    embedder,
		vectors:     vectors,
		fulltext:    textIndex,
		semantic:    semanticEngine,
		pattern:     patternEngine,
		coordinator: coordinator,
		pipeline:    pipeline,
		dimension:   options.dimension,
		logger:      logger,
	}

	if _, err := pipeline.Rebuild(context.Background()); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// AddDocuments validates, persists, and indexes documents. Documents without
// an ID get one derived from their content.
func (s *Service) AddDocuments(ctx context.Context, docs ...*core.Document) error {
	for _, doc := range docs {
		if doc != nil && doc.ID == "" && doc.Content != "" {
			doc.ID = core.IDFromContent(doc.Content)
		}
		if err := core.ValidateDocument(doc, s.dimension); err != nil {
			return err
		}
	}
	return s.pipeline.Ingest(ctx, docs...)
}

// UpdateDocuments replaces stored documents and reindexes them.
func (s *Service) UpdateDocuments(ctx context.Context, docs ...*core.Document) error {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc, s.dimension); err != nil {
			return err
		}
	}
	if err := s.repository.UpdateDocuments(ctx, docs...); err != nil {
		return err
	}
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return s.pipeline.IndexDocuments(ctx, ids...)
}

// DeleteDocuments removes documents from storage and from all indexes.
func (s *Service) DeleteDocuments(ctx context.Context, ids ...string) error {
	return s.pipeline.Remove(ctx, ids...)
}

// GetDocument retrieves a stored document by ID.
func (s *Service) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	return s.repository.GetDocument(ctx, id)
}

// Search dispatches a query to the matching engine. Non-hybrid queries run
// through the coordinator as a single full-weight subquery so every search
// returns the same result shape.
func (s *Service) Search(ctx context.Context, q core.Query, opts core.SearchOptions) (*hybrid.Result, error) {
	hq, ok := q.(core.HybridQuery)
	if !ok {
		hq = core.HybridQuery{Subqueries: []core.Subquery{{Query: q, Weight: 1.0}}}
	}
	return s.coordinator.Search(ctx, hq, opts)
}

// Repository exposes the underlying document store.
func (s *Service) Repository() storage.DocumentRepository {
	return s.repository
}

// SemanticEngine exposes the vector similarity engine.
func (s *Service) SemanticEngine() *semantic.Engine {
	return s.semantic
}

// PatternEngine exposes the pattern matching engine.
func (s *Service) PatternEngine() *pattern.Engine {
	return s.pattern
}

// Pipeline exposes the indexing pipeline.
func (s *Service) Pipeline() *indexer.Pipeline {
	return s.pipeline
}

// Wait blocks until async indexing submitted so far has finished.
func (s *Service) Wait() {
	s.pipeline.Wait()
}

// Close drains in-flight indexing and releases all resources.
func (s *Service) Close() error {
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	if s.coordinator != nil {
		s.coordinator.Close()
	}
	if s.fulltext != nil {
		if err := s.fulltext.Close(); err != nil {
			s.logger.Error("error closing full-text index", "err", err)
		}
	}
	if err := s.repository.Close(); err != nil {
		s.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
