package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/config"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/retry"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// continuousStream offsets worker seeds away from the bulk shard streams.
const continuousStream = 1 << 32

// Runner starts one worker per selected entity type and keeps them running
// until the context is cancelled.
type Runner struct {
	cfg     *config.Config
	catalog *entity.Catalog
	store   *store.Store
	logger  *slog.Logger
	sleeper Sleeper
	now     func() time.Time
}

func NewRunner(cfg *config.Config, catalog *entity.Catalog, st *store.Store, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		catalog: catalog,
		store:   st,
		logger:  logger,
		sleeper: TimerSleeper(),
		now:     time.Now,
	}
}

// SetSleeper replaces the timer used between cycles.
func (r *Runner) SetSleeper(s Sleeper) { r.sleeper = s }

// Workers claims the dataset of every type in types and builds its worker.
// An empty selection means every registered type. The returned release
// function gives the claims back.
func (r *Runner) Workers(types []entity.Type) ([]*Worker, func(), error) {
	if len(types) == 0 {
		types = r.catalog.Order()
	}

	var writers []*store.Writer
	release := func() {
		for _, w := range writers {
			w.Release()
		}
	}

	workers := make([]*Worker, 0, len(types))
	for _, t := range types {
		desc, err := r.catalog.Get(t)
		if err != nil {
			release()
			return nil, nil, err
		}
		writer, err := r.store.Claim(desc)
		if err != nil {
			release()
			return nil, nil, err
		}
		writers = append(writers, writer)

		faker := synth.NewAt(synth.DeriveSeed(r.cfg.Seed, continuousStream+uint64(t)), r.now())
		workers = append(workers, NewWorker(
			desc, r.catalog, r.store, writer, r.cfg.CadenceFor(t), faker, r.logger,
			WithSleeper(r.sleeper),
			WithRetry(
				retry.WithMaxAttempts(r.cfg.Retry.MaxAttempts),
				retry.WithBaseDelay(r.cfg.Retry.BaseDelay),
				retry.WithLogger(r.logger),
			),
		))
	}
	return workers, release, nil
}

// Run blocks until ctx is cancelled. It returns nil on cancellation and an
// error only when the workers could not be set up.
func (r *Runner) Run(ctx context.Context, types []entity.Type) error {
	workers, release, err := r.Workers(types)
	if err != nil {
		return fmt.Errorf("start continuous generation: %w", err)
	}
	defer release()

	session := uuid.NewString()
	r.logger.Info("continuous generation started", "session", session, "workers", len(workers))

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	err = g.Wait()
	r.logger.Info("continuous generation stopped", "session", session)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
