package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/itempipe/core"
	"github.com/poiesic/itempipe/storage"
)

// Scheme is the connection string scheme served by this backend.
const Scheme = "badger"

// MovieRepository implements storage.MovieRepository for BadgerDB.
// Documents live under a database/collection key namespace.
type MovieRepository struct {
	backend     *Backend
	database    string
	collection  string
	ownsBackend bool

	closeOnce sync.Once
	closeErr  error
}

var _ storage.MovieRepository = (*MovieRepository)(nil)

// NewMovieRepository creates a repository on an already opened backend.
// Closing the repository leaves the backend open.
func NewMovieRepository(backend *Backend, database, collection string) *MovieRepository {
	return &MovieRepository{
		backend:    backend,
		database:   database,
		collection: collection,
	}
}

// Open implements storage.Opener for "badger://<dir>" and "badger://:memory:".
// The returned repository owns its backend and closes it on Close.
func Open(ctx context.Context, cfg storage.Config) (storage.MovieRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Scheme() != Scheme {
		return nil, fmt.Errorf("%w: %q", storage.ErrUnsupportedScheme, cfg.ConnectionString)
	}

	path := strings.TrimPrefix(cfg.ConnectionString[len(Scheme):], "://")
	if path == "" {
		return nil, fmt.Errorf("%w: badger connection string needs a directory or %s", storage.ErrInvalidConfig, MemoryPath)
	}

	backend, err := OpenBackend(path, nil)
	if err != nil {
		return nil, err
	}

	repo := NewMovieRepository(backend, cfg.Database, cfg.Collection)
	repo.ownsBackend = true
	return repo, nil
}

// UpsertMovie stores the record under its name, replacing any previous version.
func (r *MovieRepository) UpsertMovie(ctx context.Context, record *core.Record) error {
	if err := core.ValidateRecord(record); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.update(func(tx *badger.Txn) error {
		return tx.Set(makeMovieKey(r.database, r.collection, record.Name), storage.MarshalRecord(record))
	})
}

// GetMovie retrieves a movie by name.
func (r *MovieRepository) GetMovie(ctx context.Context, name string) (*core.Record, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var record *core.Record
	err := r.backend.view(func(tx *badger.Txn) error {
		item, err := tx.Get(makeMovieKey(r.database, r.collection, name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalRecord(val)
			return unmarshalErr
		})
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CountMovies counts the documents in the collection namespace.
func (r *MovieRepository) CountMovies(ctx context.Context) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := r.backend.view(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeMovieNamespace(r.database, r.collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	return count, err
}

// Close closes the backend if this repository opened it.
func (r *MovieRepository) Close() error {
	r.closeOnce.Do(func() {
		if r.ownsBackend {
			r.closeErr = r.backend.Close()
		}
	})
	return r.closeErr
}
