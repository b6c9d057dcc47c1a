package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/itempipe/core"
)

const defaultSinkName = "search-index"

// Sink is the search-index pipeline stage.
type Sink struct {
	name   string
	cfg    Config
	open   Opener
	logger *slog.Logger

	mu      sync.RWMutex
	indexer Indexer
	opened  bool

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

// NewSink creates a search-index sink. No connection is made until Open.
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

// Open connects to the search service and makes sure the index exists.
func (s *Sink) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opened {
		return ErrSinkOpened
	}
	indexer, err := s.open(ctx, s.cfg)
	if err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	if err := indexer.EnsureIndex(ctx); err != nil {
		_ = indexer.Close()
		return fmt.Errorf("ensure index %q: %w", s.cfg.Index, err)
	}

	s.indexer = indexer
	s.opened = true

	s.logger.Info("search index ready", "stage", s.name, "index", s.cfg.Index)
	return nil
}

// Process indexes the record under DocumentID(record.Name) and passes it on.
func (s *Sink) Process(ctx context.Context, record *core.Record) (*core.Record, error) {
	s.mu.RLock()
	indexer := s.indexer
	s.mu.RUnlock()

	if indexer == nil {
		return nil, ErrSinkNotOpen
	}
	if err := indexer.Index(ctx, DocumentID(record.Name), record); err != nil {
		return nil, fmt.Errorf("index %q: %w", record.Name, err)
	}
	return record, nil
}

// Close releases the indexer. Only the first call does any work.
func (s *Sink) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		indexer := s.indexer
		s.indexer = nil
		s.mu.Unlock()

		if indexer == nil {
			return
		}
		if err := indexer.Close(); err != nil {
			s.logger.Error("error closing search index", "stage", s.name, "err", err)
			s.closeErr = err
		}
	})
	return s.closeErr
}
