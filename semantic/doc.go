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


// Package semantic implements vector-similarity search over the in-memory
// index, with pluggable reranking.
//
// A query vector comes either verbatim from the request or, for text-only
// queries, from the embedding provider. Raw cosine candidates can then be
// re-scored by one of three rerankers: cosine-with-boosts, a hybrid blend of
// similarity and text overlap, or a fixed-weight linear model over a small
// feature vector.
package semantic
