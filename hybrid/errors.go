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


package hybrid

import "errors"

var (
	// ErrNoSources is returned when a coordinator is built without any engine.
	ErrNoSources = errors.New("at least one search source required")

	// ErrNoSubqueries indicates a hybrid query with an empty subquery list.
	ErrNoSubqueries = errors.New("hybrid query has no subqueries")

	// ErrSourceUnavailable indicates a subquery whose engine was not configured.
	ErrSourceUnavailable = errors.New("search source unavailable")

	// ErrNestedHybrid indicates a hybrid query nested inside another.
	ErrNestedHybrid = errors.New("hybrid queries cannot be nested")
)
