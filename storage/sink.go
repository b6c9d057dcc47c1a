package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/itempipe/core"
)

const defaultSinkName = "document-store"

// Sink is the document-store pipeline stage.
type Sink struct {
	name   string
	cfg    Config
	open   Opener
	logger *slog.Logger

	mu     sync.RWMutex
	repo   MovieRepository
	opened bool

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Sink.
type Option func(*Sink) error

// WithName sets the stage name used in logs and drop reports.
func WithName(name string) Option {
	return func(s *Sink) error {
		if name != "" {
			s.name = name
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSink creates a document-store sink. No connection is made until Open.
func NewSink(cfg Config, open Opener, opts ...Option) (*Sink, error) {
	if open == nil {
		return nil, ErrOpenerRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sink{
		name:   defaultSinkName,
		cfg:    cfg,
		open:   open,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Name returns the stage name.
func (s *Sink) Name() string {
	return s.name
}

// Open connects to the document store. A sink connects at most once;
// later calls return ErrSinkOpened.
func (s *Sink) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opened {
		return ErrSinkOpened
	}
	repo, err := s.open(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	s.repo = repo
	s.opened = true

	s.logger.Info("document store opened",
		"stage", s.name,
		"database", s.cfg.Database,
		"collection", s.cfg.Collection)
	return nil
}

// Process upserts the record and passes it on unchanged.
func (s *Sink) Process(ctx context.Context, record *core.Record) (*core.Record, error) {
	s.mu.RLock()
	repo := s.repo
	s.mu.RUnlock()

	if repo == nil {
		return nil, ErrSinkNotOpen
	}
	if err := repo.UpsertMovie(ctx, record); err != nil {
		return nil, fmt.Errorf("upsert %q: %w", record.Name, err)
	}
	return record, nil
}

// Count returns the number of documents in the configured collection.
func (s *Sink) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	repo := s.repo
	s.mu.RUnlock()

	if repo == nil {
		return 0, ErrSinkNotOpen
	}
	return repo.CountMovies(ctx)
}

// Close releases the repository. Only the first call does any work.
func (s *Sink) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		repo := s.repo
		s.repo = nil
		s.mu.Unlock()

		if repo == nil {
			return
		}
		if err := repo.Close(); err != nil {
			s.logger.Error("error closing document store", "stage", s.name, "err", err)
			s.closeErr = err
		}
	})
	return s.closeErr
}
