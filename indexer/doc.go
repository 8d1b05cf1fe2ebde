// Package indexer provides pipeline orchestration for making documents
// searchable.
//
// The Pipeline type manages the indexing workflow for documents, including:
//   - Adding documents to storage
//   - Generating embeddings for documents that arrive without one
//   - Inserting documents into the vector index and the full-text index
//
// Enrichment is performed concurrently using a worker pool to maximize
// throughput. Errors during async processing are logged but do not fail the
// ingest operation.
package indexer
