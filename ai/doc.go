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


// Package ai defines the embedding-provider boundary for the search engines.
//
// The search core never computes embeddings itself: a semantic query that
// supplies only text is resolved to a vector through the Embedder interface.
// The openai subpackage implements Embedder against any OpenAI-compatible
// endpoint; the mock subpackage provides a deterministic test double.
package ai
