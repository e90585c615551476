// Package generator runs the continuous phase: one long-lived worker per
// entity type that keeps appending referentially valid batches to its dataset.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/allocator"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/config"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/fkpool"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/retry"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

var (
	ErrSynthesisFailure   = errors.New("synthesis failure")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// State is the position of a worker in its cycle.
type State int

const (
	WaitingOnDependency State = iota
	Generating
	Sleeping
)

func (s State) String() string {
	switch s {
	case WaitingOnDependency:
		return "waiting_on_dependency"
	case Generating:
		return "generating"
	case Sleeping:
		return "sleeping"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Kind names the failure class of a cycle error for logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, fkpool.ErrDependencyNotReady):
		return "dependency_not_ready"
	case errors.Is(err, ErrSynthesisFailure):
		return "synthesis_failure"
	default:
		return "persistence_failure"
	}
}

// Sleeper suspends a worker between cycles.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// TimerSleeper sleeps on a real timer.
func TimerSleeper() Sleeper { return timerSleeper{} }

// CycleResult describes one pass through WaitingOnDependency and Generating.
type CycleResult struct {
	Rows int
	IDs  entity.IDRange
	Err  error
}

// Worker is the single writer of one entity's dataset during the continuous phase.
type Worker struct {
	desc    entity.Descriptor
	catalog *entity.Catalog
	store   *store.Store
	writer  *store.Writer
	cadence config.Cadence
	faker   *synth.Faker
	sleeper Sleeper
	logger  *slog.Logger
	retries []retry.Option

	state State
}

type WorkerOption func(*Worker)

func WithSleeper(s Sleeper) WorkerOption {
	return func(w *Worker) { w.sleeper = s }
}

func WithRetry(opts ...retry.Option) WorkerOption {
	return func(w *Worker) { w.retries = append(w.retries, opts...) }
}

// NewWorker builds a worker around an already claimed writer.
func NewWorker(
	desc entity.Descriptor,
	catalog *entity.Catalog,
	st *store.Store,
	writer *store.Writer,
	cadence config.Cadence,
	faker *synth.Faker,
	logger *slog.Logger,
	opts ...WorkerOption,
) *Worker {
	w := &Worker{
		desc:    desc,
		catalog: catalog,
		store:   st,
		writer:  writer,
		cadence: cadence,
		faker:   faker,
		sleeper: TimerSleeper(),
		logger:  logger.With("entity", desc.Type().String()),
		state:   WaitingOnDependency,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) State() State { return w.state }

// Run cycles until ctx is done. Cycle failures are logged and never stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started",
		"min_batch", w.cadence.MinBatch, "max_batch", w.cadence.MaxBatch,
		"min_sleep", w.cadence.MinSleepDuration(), "max_sleep", w.cadence.MaxSleepDuration())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.Cycle(ctx)

		w.state = Sleeping
		d := w.sleepDuration()
		w.logger.Debug("sleeping", "duration", d)
		if err := w.sleeper.Sleep(ctx, d); err != nil {
			return err
		}
		w.state = WaitingOnDependency
	}
}

// Cycle performs one generation attempt and logs its outcome. A failed cycle
// appends nothing.
func (w *Worker) Cycle(ctx context.Context) (res CycleResult) {
	defer func() {
		if p := recover(); p != nil {
			res = CycleResult{Err: fmt.Errorf("%w: panic: %v", ErrSynthesisFailure, p)}
		}
		w.report(res)
	}()

	w.state = WaitingOnDependency
	pools, err := fkpool.ForDependencies(w.store, w.catalog, w.desc)
	if err != nil {
		return CycleResult{Err: err}
	}

	w.state = Generating
	batch := w.faker.IntRange(w.cadence.MinBatch, w.cadence.MaxBatch)

	var ids entity.IDRange
	err = retry.Do(ctx, func(context.Context) error {
		next, err := allocator.NextIDs(w.writer.Dataset(), w.desc.IDSpace(), batch)
		if err != nil {
			return err
		}
		ids = next
		records, err := w.desc.Synthesize(w.faker, ids, pools)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSynthesisFailure, err)
		}
		if err := w.writer.Append(records); err != nil {
			return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
		}
		return nil
	}, append([]retry.Option{retry.WithRetryIf(isTransient)}, w.retries...)...)
	if err != nil {
		return CycleResult{Err: err}
	}
	return CycleResult{Rows: ids.Count, IDs: ids}
}

func (w *Worker) report(res CycleResult) {
	if res.Err == nil {
		w.logger.Info("batch appended", "rows", res.Rows, "first_id", res.IDs.First, "last_id", res.IDs.Last())
		return
	}
	switch kind := Kind(res.Err); kind {
	case "canceled":
		w.logger.Debug("cycle interrupted by shutdown", "kind", kind)
	case "dependency_not_ready":
		w.logger.Warn("dependency not ready, retrying after sleep", "kind", kind, "error", res.Err)
	default:
		w.logger.Error("cycle failed, batch dropped", "kind", kind, "error", res.Err)
	}
}

func (w *Worker) sleepDuration() time.Duration {
	lo, hi := w.cadence.MinSleepDuration(), w.cadence.MaxSleepDuration()
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(w.faker.Rand().Int64N(int64(hi-lo)+1))
}

// isTransient reports whether a failed append is worth retrying. Malformed
// files, exhausted ID spaces and synthesis errors fail the same way again.
func isTransient(err error) bool {
	switch {
	case errors.Is(err, ErrSynthesisFailure),
		errors.Is(err, store.ErrMalformedDataset),
		errors.Is(err, allocator.ErrIDSpaceExhausted),
		errors.Is(err, allocator.ErrOutsideSpace),
		errors.Is(err, allocator.ErrInvalidCount):
		return false
	}
	return true
}
