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


package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrCorpusRequired is returned when a document corpus is not provided.
	ErrCorpusRequired = errors.New("document corpus required")

	// ErrUnknownPatternKind indicates a query with an unrecognized kind.
	// The engine rejects it rather than falling back to literal matching.
	ErrUnknownPatternKind = errors.New("unknown pattern kind")

	// ErrUnknownPredefinedPattern indicates a pattern name with no predefined regex.
	ErrUnknownPredefinedPattern = errors.New("unknown predefined pattern")

	// ErrEmptyPattern indicates a query whose payload resolves to nothing to match.
	ErrEmptyPattern = errors.New("empty pattern")
)

// CompileError reports an invalid regex or wildcard source. It preserves the
// original pattern and the parser's message.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile pattern %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
