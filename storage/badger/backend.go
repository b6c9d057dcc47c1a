package badger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// MemoryPath opens a Backend that lives only in memory.
const MemoryPath = ":memory:"

// Backend owns one BadgerDB instance. Several repositories may share it,
// each under its own database/collection namespace.
type Backend struct {
	db   *badger.DB
	path string
}

// slogAdapter routes badger's internal logging to slog.
// Badger reports compactions and flushes at info level; those go to debug.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = slogAdapter{}

func (a slogAdapter) Errorf(format string, args ...any) {
	a.logger.Error(fmt.Sprintf(format, args...))
}

func (a slogAdapter) Warningf(format string, args ...any) {
	a.logger.Warn(fmt.Sprintf(format, args...))
}

func (a slogAdapter) Infof(format string, args ...any) {
	a.logger.Debug(fmt.Sprintf(format, args...))
}

func (a slogAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBackend opens the database stored in dir, creating the directory when
// needed. Pass MemoryPath for a database that is discarded on Close.
// A nil logger means slog.Default().
func OpenBackend(dir string, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "badger")

	opts := badger.DefaultOptions("").WithInMemory(true)
	if dir != MemoryPath {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("badger directory %q: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(slogAdapter{logger: logger}).WithCompression(options.None)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	logger.Debug("badger opened", "path", dir)
	return &Backend{db: db, path: dir}, nil
}

// Path returns the directory the backend was opened on, or MemoryPath.
func (b *Backend) Path() string {
	return b.path
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether Close was called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

func (b *Backend) view(fn func(tx *badger.Txn) error) error {
	return b.db.View(fn)
}

func (b *Backend) update(fn func(tx *badger.Txn) error) error {
	return b.db.Update(fn)
}
