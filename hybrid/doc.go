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


// Package hybrid coordinates multi-strategy searches: it fans a hybrid
// query's weighted subqueries out to the semantic engine, the pattern
// engine, and the optional full-text collaborator concurrently, then fuses
// the scored result sets into one ranked, deduplicated list.
//
// Subqueries fail independently: an error in one contributes an empty result
// set and is recorded in the breakdown, never aborting its siblings. If the
// caller's deadline expires mid-flight, the completed subqueries are still
// fused and the response is marked partial.
package hybrid
