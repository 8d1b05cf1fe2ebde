package storage

import (
	"context"

	"github.com/poiesic/recall/core"
)

// ListFilter narrows a corpus listing. Zero values mean "no restriction".
type ListFilter struct {
	// UserID restricts to documents owned by this user.
	UserID string

	// Category restricts to documents in this category.
	Category string

	// Tags restricts to documents carrying all of these tags.
	Tags []string

	// Limit caps the number of returned documents. Zero means unlimited.
	Limit int
}

// DocumentReader provides read access to the document corpus.
// The pattern engine obtains its scan set here, and the indexer replays the
// corpus into the in-memory indexes on startup.
type DocumentReader interface {
	// ListDocuments returns documents matching the filter.
	// Order is unspecified but stable for an unchanged corpus.
	ListDocuments(ctx context.Context, filter ListFilter) ([]*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*core.Document, error)
}

// DocumentRepository provides full read/write access to the document corpus.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	DocumentReader

	// AddDocuments stores one or more documents.
	// Sets CreatedAt/UpdatedAt timestamps if not already set.
	// Returns ErrDuplicateKey if a document with the same ID already exists.
	AddDocuments(ctx context.Context, docs ...*core.Document) error

	// UpdateDocuments replaces existing documents.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any document doesn't exist.
	UpdateDocuments(ctx context.Context, docs ...*core.Document) error

	// DeleteDocuments removes documents by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...string) error

	// Close closes the storage backend and releases resources.
	Close() error
}
