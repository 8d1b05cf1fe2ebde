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


// Package storage defines the document corpus interfaces consumed by the
// search engines, together with the value codec shared by backends.
//
// The search core treats persistence as a collaborator: engines only depend
// on DocumentReader, and the badger subpackage provides the durable
// implementation. The in-memory vector and full-text indexes are rebuilt from
// this corpus on process start.
package storage
