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


// Package pattern implements the pattern-matching engine: regex, predefined,
// wildcard, fuzzy, structural, and literal matching over the document corpus.
//
// Compiled regexes are held in a bounded cache keyed by pattern and flags.
// Eviction is insertion-order (the oldest key goes first), not recency-based;
// the capacity default is 100 entries.
//
// The Classify helper turns a loosely specified request into a typed
// core.PatternQuery exactly once at the boundary, so the engine itself only
// ever dispatches on an explicit kind.
package pattern
