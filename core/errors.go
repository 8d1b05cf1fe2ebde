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

import "errors"

// Domain errors shared across engines
var (
	// ErrDimensionMismatch indicates an embedding whose length differs from
	// the configured dimension. Vectors are rejected, never truncated or padded.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNoEmbedding indicates a semantic query that supplies neither an
	// embedding nor text resolvable through an embedding provider.
	ErrNoEmbedding = errors.New("no embedding available for query")

	// ErrNotFound indicates an operation on an absent document id.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyID indicates a document with an empty id.
	ErrEmptyID = errors.New("document id cannot be empty")

	// ErrEmptyContent indicates a document with neither title nor content.
	ErrEmptyContent = errors.New("document must have a title or content")

	// ErrInvalidTimestamp indicates a timestamp in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
