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


package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/itempipe/core"
)

// Config holds the connection settings of a document store.
type Config struct {
	// ConnectionString selects and addresses the backend.
	// Example: "mongodb://localhost:27017", "badger:///var/lib/itempipe", "badger://:memory:"
	ConnectionString string

	// Database is the database name (a key namespace for embedded stores).
	Database string

	// Collection is the collection name (a key namespace for embedded stores).
	Collection string
}

// Validate checks that all connection settings are present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ConnectionString) == "" {
		return fmt.Errorf("%w: connection string is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("%w: database name is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Collection) == "" {
		return fmt.Errorf("%w: collection name is required", ErrInvalidConfig)
	}
	return nil
}

// Scheme returns the lower-cased scheme of the connection string, or "".
func (c Config) Scheme() string {
	scheme, _, ok := strings.Cut(c.ConnectionString, "://")
	if !ok {
		return ""
	}
	return strings.ToLower(scheme)
}

// MovieRepository persists movie records keyed by name.
// Implementations must be thread-safe and support concurrent access.
type MovieRepository interface {
	// UpsertMovie replaces the document whose name equals record.Name,
	// or inserts a new one. Calling it twice with the same record leaves
	// exactly one document.
	UpsertMovie(ctx context.Context, record *core.Record) error

	// GetMovie retrieves a movie by name.
	// Returns ErrNotFound if the movie doesn't exist.
	GetMovie(ctx context.Context, name string) (*core.Record, error)

	// CountMovies returns the number of stored movies.
	CountMovies(ctx context.Context) (int, error)

	// Close releases the connection and any resources held by the repository.
	Close() error
}

// Opener connects to a document store described by cfg.
// It must fail when the store is unreachable; callers do not retry.
type Opener func(ctx context.Context, cfg Config) (MovieRepository, error)
