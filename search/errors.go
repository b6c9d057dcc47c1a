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


package search

import "errors"

var (
	// ErrInvalidConfig indicates missing search-index settings.
	ErrInvalidConfig = errors.New("invalid search index configuration")

	// ErrOpenerRequired is returned when no indexer opener is provided.
	ErrOpenerRequired = errors.New("indexer opener required")

	// ErrSinkNotOpen is returned when Process is called before Open or after Close.
	ErrSinkNotOpen = errors.New("search sink not open")

	// ErrSinkOpened is returned when Open is called a second time.
	ErrSinkOpened = errors.New("search sink already opened")

	// ErrRequestFailed indicates the search service answered with an error status.
	ErrRequestFailed = errors.New("search request failed")
)
