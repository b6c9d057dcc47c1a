package media

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/itempipe/core"
)

const (
	defaultStageName   = "images"
	defaultConcurrency = 4
)

// Stage is the media-fetch pipeline stage.
type Stage struct {
	name        string
	root        string
	fetcher     Fetcher
	concurrency int
	logger      *slog.Logger

	mu     sync.RWMutex
	store  *Store
	pool   *ants.Pool
	opened bool

	closeOnce sync.Once
}

// Option configures a Stage.
type Option func(*Stage) error

// WithName sets the stage name used in logs and drop reports.
func WithName(name string) Option {
	return func(s *Stage) error {
		if name != "" {
			s.name = name
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stage) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithFetcher replaces the default HTTPFetcher.
func WithFetcher(fetcher Fetcher) Option {
	return func(s *Stage) error {
		if fetcher == nil {
			return ErrFetcherRequired
		}
		s.fetcher = fetcher
		return nil
	}
}

// WithConcurrency sets how many images of one record download in parallel.
// Default is 4, with a minimum of 1.
func WithConcurrency(n int) Option {
	return func(s *Stage) error {
		if n < 1 {
			n = 1
		}
		s.concurrency = n
		return nil
	}
}

// NewStage creates a media stage storing images below imagesRoot.
func NewStage(imagesRoot string, opts ...Option) (*Stage, error) {
	if imagesRoot == "" {
		return nil, ErrImagesStoreRequired
	}

	s := &Stage{
		name:        defaultStageName,
		root:        imagesRoot,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.fetcher == nil {
		fetcher, err := NewHTTPFetcher()
		if err != nil {
			return nil, err
		}
		s.fetcher = fetcher
	}
	return s, nil
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return s.name
}

// Open prepares the images root and the download workers.
// A stage is opened at most once; later calls return ErrStageOpened.
func (s *Stage) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opened {
		return ErrStageOpened
	}
	store, err := NewStore(s.root)
	if err != nil {
		return err
	}
	pool, err := ants.NewPool(s.concurrency)
	if err != nil {
		return err
	}

	s.store = store
	s.pool = pool
	s.opened = true

	s.logger.Info("media stage ready", "stage", s.name, "root", store.Root(), "concurrency", s.concurrency)
	return nil
}

// Process downloads every image of the record and stores the successful ones.
// The record is dropped with ErrNoMedia when no image was stored.
func (s *Stage) Process(ctx context.Context, record *core.Record) (*core.Record, error) {
	s.mu.RLock()
	store, pool := s.store, s.pool
	s.mu.RUnlock()

	if pool == nil {
		return nil, ErrStageNotOpen
	}

	requests := slices.Collect(Requests(record))
	results := make([]Result, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = s.fetch(ctx, store, req)
		})
		if err != nil {
			wg.Done()
			results[i] = Result{Request: req, Err: err}
		}
	}
	wg.Wait()

	stored := 0
	for _, r := range results {
		if r.OK() {
			stored++
			continue
		}
		s.logger.Warn("image download failed",
			"stage", s.name,
			"movie", r.Request.Meta.MovieName,
			"role", r.Request.Meta.Role,
			"person", r.Request.Meta.PersonName,
			"url", r.Request.URL,
			"err", r.Err)
	}
	s.logger.Debug("media processed", "movie", record.Name, "requested", len(requests), "stored", stored)

	return Completed(record, results)
}

func (s *Stage) fetch(ctx context.Context, store *Store, req Request) Result {
	if err := ctx.Err(); err != nil {
		return Result{Request: req, Err: err}
	}
	path, err := FilePath(req.Meta)
	if err != nil {
		return Result{Request: req, Err: err}
	}
	body, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return Result{Request: req, Err: err}
	}
	if err := store.Persist(path, body); err != nil {
		return Result{Request: req, Err: err}
	}
	return Result{Request: req, Path: path}
}

// Close stops the download workers. Only the first call does any work.
func (s *Stage) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		pool := s.pool
		s.pool = nil
		s.store = nil
		s.mu.Unlock()

		if pool != nil {
			pool.Release()
		}
		if f, ok := s.fetcher.(*HTTPFetcher); ok {
			f.CloseIdleConnections()
		}
	})
	return nil
}
