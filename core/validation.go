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


package core

import (
	"fmt"
	"time"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Title or Content must not be empty
//   - CreatedAt must not be in the future
//   - Embedding, if present, must have the expected dimension
//
// NOT validated (populated by processors):
//   - Embedding presence (empty is valid until the indexer embeds it)
//   - UpdatedAt (maintained by storage)
func ValidateDocument(doc *Document, dimension int) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyID)
	}

	if doc.Title == "" && doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if !doc.CreatedAt.IsZero() && doc.CreatedAt.After(time.Now().UTC().Add(time.Minute)) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidTimestamp)
	}

	if len(doc.Embedding) > 0 && len(doc.Embedding) != dimension {
		return fmt.Errorf("%w: %w: got %d, want %d",
			ErrInvalidDocument, ErrDimensionMismatch, len(doc.Embedding), dimension)
	}

	return nil
}
