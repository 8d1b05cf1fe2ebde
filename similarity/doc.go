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


// Package similarity provides pure string-similarity and regex-translation
// functions used by the pattern engine: Levenshtein edit distance, Jaro and
// Jaro-Winkler similarity, regex metacharacter escaping, and wildcard-glob
// to regex translation.
//
// All functions are deterministic and side-effect free, so results can be
// used as reproducible test fixtures.
package similarity
