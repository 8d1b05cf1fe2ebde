package badger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) *DocumentRepository {
	return &DocumentRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *DocumentRepository) Close() error {
	return nil
}

// AddDocuments stores one or more documents.
func (r *DocumentRepository) AddDocuments(ctx context.Context, docs ...*core.Document) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, doc := range docs {
			key := makeDocumentKey(doc.ID)

			// Reject duplicate IDs
			if _, err := tx.Get(key); err == nil {
				return storage.ErrDuplicateKey
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			if doc.CreatedAt.IsZero() {
				doc.CreatedAt = now
			}
			doc.UpdatedAt = now

			value, err := storage.MarshalDocument(doc)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update owner index
			if doc.UserID != "" {
				if err := tx.Set(makeUserIndexKey(doc.UserID, doc.ID), []byte(doc.ID)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// UpdateDocuments replaces existing documents.
func (r *DocumentRepository) UpdateDocuments(ctx context.Context, docs ...*core.Document) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			key := makeDocumentKey(doc.ID)

			// Read old record to detect owner changes
			old, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			doc.CreatedAt = old.CreatedAt
			doc.UpdatedAt = time.Now().UTC()

			value, err := storage.MarshalDocument(doc)
			if err != nil {
				return err
			}
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Maintain owner index
			if old.UserID != doc.UserID {
				if old.UserID != "" {
					if err := tx.Delete(makeUserIndexKey(old.UserID, doc.ID)); err != nil {
						return err
					}
				}
				if doc.UserID != "" {
					if err := tx.Set(makeUserIndexKey(doc.UserID, doc.ID), []byte(doc.ID)); err != nil {
						return err
					}
				}
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteDocuments removes documents by their IDs.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)

			doc, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			if doc.UserID != "" {
				if err := tx.Delete(makeUserIndexKey(doc.UserID, id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = r.readDocument(tx, makeDocumentKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// ListDocuments returns documents matching the filter, ordered by ID.
// A UserID filter walks the owner index; other filters scan the corpus.
func (r *DocumentRepository) ListDocuments(ctx context.Context, filter storage.ListFilter) ([]*core.Document, error) {
	var docs []*core.Document

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if filter.UserID != "" {
			return r.listByUser(tx, filter, &docs)
		}
		return r.listAll(tx, filter, &docs)
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(docs, func(a, b *core.Document) int {
		return bytes.Compare([]byte(a.ID), []byte(b.ID))
	})
	if filter.Limit > 0 && len(docs) > filter.Limit {
		docs = docs[:filter.Limit]
	}
	return docs, nil
}

func (r *DocumentRepository) listAll(tx *badger.Txn, filter storage.ListFilter, out *[]*core.Document) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(documentPrefix + ":")
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var doc *core.Document
		err := iter.Item().Value(func(val []byte) error {
			var err error
			doc, err = storage.UnmarshalDocument(val)
			return err
		})
		if err != nil {
			return err
		}
		if matchesFilter(doc, filter) {
			*out = append(*out, doc)
		}
	}
	return nil
}

func (r *DocumentRepository) listByUser(tx *badger.Txn, filter storage.ListFilter, out *[]*core.Document) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialUserIndexKey(filter.UserID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var id string
		err := iter.Item().Value(func(val []byte) error {
			id = string(val)
			return nil
		})
		if err != nil {
			return err
		}

		doc, err := r.readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if doc != nil && matchesFilter(doc, filter) {
			*out = append(*out, doc)
		}
	}
	return nil
}

// readDocument reads and unmarshals a document, returning nil if absent.
func (r *DocumentRepository) readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}

// matchesFilter applies the non-indexed filter fields.
func matchesFilter(doc *core.Document, filter storage.ListFilter) bool {
	if filter.Category != "" && doc.Category != filter.Category {
		return false
	}
	for _, want := range filter.Tags {
		if !slices.Contains(doc.Tags, want) {
			return false
		}
	}
	return true
}
