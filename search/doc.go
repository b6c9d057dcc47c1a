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


// Package search provides the search-index pipeline stage.
//
// The Sink ensures its index exists when opened and then writes each record
// as a document whose id is derived from the movie name, so re-indexing a
// movie replaces its previous document. Backends implement Indexer; the
// Elasticsearch one lives in search/elastic.
package search
