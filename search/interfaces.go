package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/itempipe/core"
)

// Config holds the connection settings of a search index.
type Config struct {
	// ConnectionString is one or more comma-separated service URLs.
	ConnectionString string

	// Index is the name of the target index.
	Index string
}

// Validate checks that all connection settings are present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ConnectionString) == "" {
		return fmt.Errorf("%w: connection string is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Index) == "" {
		return fmt.Errorf("%w: index name is required", ErrInvalidConfig)
	}
	return nil
}

// Addresses splits the connection string into service URLs.
func (c Config) Addresses() []string {
	var addrs []string
	for _, a := range strings.Split(c.ConnectionString, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

// Indexer writes records into a search index.
// Implementations must be safe for concurrent use.
type Indexer interface {
	// EnsureIndex creates the index if it does not exist.
	// Calling it when the index already exists is not an error.
	EnsureIndex(ctx context.Context) error

	// Index writes the record under id, replacing any previous document.
	Index(ctx context.Context, id string, record *core.Record) error

	// Close releases connections held by the indexer.
	Close() error
}

// Opener builds an Indexer from its connection settings.
type Opener func(ctx context.Context, cfg Config) (Indexer, error)

// DocumentID returns the index document id for a movie name.
// Equal names always map to the same id.
func DocumentID(name string) string {
	return core.IDFromContent(name).String()
}
