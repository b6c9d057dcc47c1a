package ingestion

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/itempipe/core"
)

// Outcome describes what happened to one record.
type Outcome struct {
	// Record is the record returned by the last stage. Nil when dropped.
	Record *core.Record
	// Dropped is true when a stage rejected the record.
	Dropped bool
	// Stage names the stage that dropped or failed the record.
	Stage string
	// Reason is the drop message.
	Reason string
}

// Stats counts the records handled by Run.
type Stats struct {
	Processed int
	Dropped   int
	Failed    int
}

// Total returns the number of records seen.
func (s Stats) Total() int {
	return s.Processed + s.Dropped + s.Failed
}

// Pipeline runs records through an ordered list of stages.
type Pipeline struct {
	stages   []Stage
	pool     *ants.Pool
	progress *ProgressTracker
	logger   *slog.Logger

	mu     sync.Mutex
	opened []Stage
	isOpen bool
	closed bool

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets how many records are processed concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithProgress reports every handled record to tracker.
func WithProgress(tracker *ProgressTracker) Option {
	return func(p *Pipeline) error {
		p.progress = tracker
		return nil
	}
}

// NewPipeline creates a pipeline running stages in the given order.
func NewPipeline(stages []Stage, opts ...Option) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	if slices.Contains(stages, nil) {
		return nil, ErrNilStage
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		stages: slices.Clone(stages),
		pool:   pool,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.pool.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Stages returns the stage names in processing order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Open opens every stage in order. If a stage fails to open, the stages
// already opened are closed in reverse order and the error is returned.
// A pipeline is opened at most once; later calls return ErrPipelineOpened.
func (p *Pipeline) Open(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isOpen || p.closed {
		return ErrPipelineOpened
	}

	for _, stage := range p.stages {
		if err := stage.Open(ctx); err != nil {
			p.logger.Error("error opening stage", "stage", stage.Name(), "err", err)
			for _, opened := range slices.Backward(p.opened) {
				if closeErr := opened.Close(ctx); closeErr != nil {
					p.logger.Error("error closing stage", "stage", opened.Name(), "err", closeErr)
				}
			}
			p.opened = nil
			return fmt.Errorf("open stage %q: %w", stage.Name(), err)
		}
		p.opened = append(p.opened, stage)
	}

	p.isOpen = true
	p.logger.Info("pipeline opened", "stages", p.Stages())
	return nil
}

// ProcessRecord runs one record through every stage in order.
// A drop is reported in the Outcome, not as an error.
func (p *Pipeline) ProcessRecord(ctx context.Context, record *core.Record) (Outcome, error) {
	if err := core.ValidateRecord(record); err != nil {
		return Outcome{}, err
	}

	current := record
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return Outcome{Stage: stage.Name()}, err
		}

		next, err := stage.Process(ctx, current)
		if err != nil {
			if errors.Is(err, core.ErrDropItem) {
				return Outcome{Dropped: true, Stage: stage.Name(), Reason: err.Error()}, nil
			}
			return Outcome{Stage: stage.Name()}, fmt.Errorf("stage %q: %w", stage.Name(), err)
		}
		if next == nil {
			return Outcome{Stage: stage.Name()}, fmt.Errorf("stage %q: %w", stage.Name(), ErrNilRecord)
		}
		current = next
	}
	return Outcome{Record: current}, nil
}

// Run processes records concurrently until the sequence ends or ctx is
// cancelled, then waits for in-flight records. Decode errors from the
// sequence count as failed records. The returned error is the context's
// error when the run was cut short.
func (p *Pipeline) Run(ctx context.Context, records iter.Seq2[*core.Record, error]) (Stats, error) {
	p.mu.Lock()
	isOpen := p.isOpen
	p.mu.Unlock()
	if !isOpen {
		return Stats{}, ErrPipelineNotOpen
	}

	if p.progress != nil {
		p.progress.Start()
	}

	var processed, dropped, failed atomic.Int64
	var wg sync.WaitGroup

	for record, err := range records {
		if ctx.Err() != nil {
			break
		}
		if err == nil && record == nil {
			err = ErrMalformedRecord
		}
		if err != nil {
			p.logger.Error("error reading record", "err", err)
			failed.Add(1)
			p.tick()
			continue
		}

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			defer p.tick()

			outcome, err := p.ProcessRecord(ctx, record)
			switch {
			case err != nil:
				p.logger.Error("error processing record", "name", record.Name, "stage", outcome.Stage, "err", err)
				failed.Add(1)
			case outcome.Dropped:
				p.logger.Warn("record dropped", "name", record.Name, "stage", outcome.Stage, "reason", outcome.Reason)
				dropped.Add(1)
			default:
				p.logger.Debug("record processed", "name", record.Name)
				processed.Add(1)
			}
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Error("error submitting record", "name", record.Name, "err", submitErr)
			failed.Add(1)
			p.tick()
		}
	}
	wg.Wait()

	if p.progress != nil {
		p.progress.Finish()
	}

	stats := Stats{
		Processed: int(processed.Load()),
		Dropped:   int(dropped.Load()),
		Failed:    int(failed.Load()),
	}
	p.logger.Info("pipeline run finished",
		"processed", stats.Processed,
		"dropped", stats.Dropped,
		"failed", stats.Failed)
	return stats, ctx.Err()
}

func (p *Pipeline) tick() {
	if p.progress != nil {
		p.progress.Increment(1)
	}
}

// Close closes every opened stage exactly once, in reverse order, and
// releases the worker pool. A failing stage does not keep the others open;
// all close errors are joined.
// The pipeline should not be used after calling Close.
func (p *Pipeline) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		opened := p.opened
		p.opened = nil
		p.isOpen = false
		p.closed = true
		p.mu.Unlock()

		var errs []error
		for _, stage := range slices.Backward(opened) {
			if err := stage.Close(ctx); err != nil {
				p.logger.Error("error closing stage", "stage", stage.Name(), "err", err)
				errs = append(errs, fmt.Errorf("close stage %q: %w", stage.Name(), err))
			}
		}
		p.pool.Release()
		p.closeErr = errors.Join(errs...)
	})
	return p.closeErr
}
