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


// Package index provides the in-memory vector index: a mapping from document
// id to embedding vector and document metadata, with brute-force cosine
// similarity scans.
//
// Scans are O(N·D) over the indexed vectors. That is the intended design for
// the expected corpus size; the Scan signature is the seam where an
// approximate-nearest-neighbor structure could be swapped in without touching
// callers.
//
// Mutations (Insert/Update/Remove) serialize against each other; a Scan sees
// a consistent snapshot of the last committed state and never observes a
// half-written entry.
package index
