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


package ai

import "errors"

var (
	// ErrEmbeddingUnavailable wraps provider failures so callers can treat
	// any embedding backend outage uniformly.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrEmptyHost indicates a configuration without an embedding host URL.
	ErrEmptyHost = errors.New("embedding host cannot be empty")

	// ErrEmptyModel indicates a configuration without an embedding model name.
	ErrEmptyModel = errors.New("embedding model cannot be empty")

	// ErrInvalidDimension indicates a non-positive embedding dimension.
	ErrInvalidDimension = errors.New("embedding dimension must be positive")
)
