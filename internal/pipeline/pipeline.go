// Package pipeline produces the initial corpus: every entity is generated in
// fixed-size shards, stage by stage in dependency order, merged into its
// canonical dataset and finally validated before the readiness marker is set.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/allocator"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/config"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/fkpool"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/gate"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrIncompleteCorpus = errors.New("incomplete corpus")

type Status string

const (
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

type EntityReport struct {
	Type     entity.Type
	Status   Status
	Rows     int
	Shards   int
	Duration time.Duration
	Err      error
}

type Report struct {
	RunID         string
	Stages        [][]entity.Type
	Entities      []EntityReport
	Missing       []entity.Type
	MarkerWritten bool
}

// Entity returns the report of t, if t was processed.
func (r *Report) Entity(t entity.Type) (EntityReport, bool) {
	for _, e := range r.Entities {
		if e.Type == t {
			return e, true
		}
	}
	return EntityReport{}, false
}

type Pipeline struct {
	cfg     *config.Config
	catalog *entity.Catalog
	store   *store.Store
	marker  *gate.Marker
	logger  *slog.Logger
	now     func() time.Time
}

func New(cfg *config.Config, catalog *entity.Catalog, st *store.Store, marker *gate.Marker, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		catalog: catalog,
		store:   st,
		marker:  marker,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock anchors generated dates; used by tests.
func (p *Pipeline) SetClock(now func() time.Time) { p.now = now }

// Volume is the bulk row target of d.
func (p *Pipeline) Volume(d entity.Descriptor) int {
	return d.BulkVolume().Rows(p.cfg.CustomerCount())
}

func (p *Pipeline) workers() int {
	if p.cfg.Workers > 0 {
		return p.cfg.Workers
	}
	return runtime.NumCPU()
}

// Run executes the pipeline. Entities that already hold data are skipped.
// It returns ErrIncompleteCorpus, and leaves the marker unwritten, when any
// dataset is still missing or empty at the end.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Stages: p.catalog.Stages()}
	logger := p.logger.With("run", report.RunID)
	logger.Info("bulk generation started",
		"customers", p.cfg.CustomerCount(), "chunk_size", p.cfg.ChunkSize, "workers", p.workers())

	var mu sync.Mutex
	record := func(r EntityReport) {
		mu.Lock()
		report.Entities = append(report.Entities, r)
		mu.Unlock()
	}

	for i, stage := range report.Stages {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		pools := p.stagePools(stage, logger)

		if i == 0 {
			for _, t := range stage {
				record(p.generate(ctx, t, pools, logger))
			}
			continue
		}

		var g errgroup.Group
		g.SetLimit(p.workers())
		for _, t := range stage {
			g.Go(func() error {
				record(p.generate(ctx, t, pools, logger))
				return nil
			})
		}
		_ = g.Wait()
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	for _, d := range p.catalog.All() {
		ok, err := p.store.Dataset(d).HasData()
		if err != nil || !ok {
			report.Missing = append(report.Missing, d.Type())
		}
	}
	if len(report.Missing) > 0 {
		logger.Error("bulk generation incomplete, readiness marker not written", "missing", report.Missing)
		return report, fmt.Errorf("%w: missing %v", ErrIncompleteCorpus, report.Missing)
	}

	created, err := p.marker.Mark(fmt.Sprintf("run %s completed %s\n", report.RunID, p.now().UTC().Format(time.RFC3339)))
	if err != nil {
		return report, err
	}
	report.MarkerWritten = created
	p.removeShards(logger)
	logger.Info("bulk generation complete", "marker", p.marker.Path(), "marker_created", created)
	return report, nil
}

// removeShards deletes the shard files of every entity and then the shard
// directory itself, but only when nothing else is left in it.
func (p *Pipeline) removeShards(logger *slog.Logger) {
	for _, d := range p.catalog.All() {
		if err := p.store.Shards(d).Clear(); err != nil {
			logger.Warn("failed to clear shards", "entity", d.Type().String(), "error", err)
		}
	}
	dir := p.store.ShardDir()
	if dir == "" || filepath.Clean(dir) == filepath.Clean(p.store.Dir()) {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := os.Remove(dir); err != nil {
		logger.Warn("failed to remove shard directory", "dir", dir, "error", err)
	}
}

// stagePools snapshots every dependency of the stage once. A dependency that
// cannot be read is left out; its dependents then fail on a missing pool.
func (p *Pipeline) stagePools(stage []entity.Type, logger *slog.Logger) entity.Pools {
	pools := make(entity.Pools)
	for _, t := range stage {
		desc, err := p.catalog.Get(t)
		if err != nil {
			continue
		}
		for _, dep := range desc.Dependencies() {
			if _, done := pools[dep]; done {
				continue
			}
			depDesc, err := p.catalog.Get(dep)
			if err != nil {
				continue
			}
			pool, err := fkpool.Snapshot(p.store.Dataset(depDesc))
			if err != nil {
				logger.Warn("dependency unavailable for stage", "dependency", dep.String(), "error", err)
				continue
			}
			pools[dep] = pool
		}
	}
	return pools
}

// generate builds one entity. Failures are logged and reported, never returned.
func (p *Pipeline) generate(ctx context.Context, t entity.Type, pools entity.Pools, logger *slog.Logger) (rep EntityReport) {
	start := time.Now()
	rep = EntityReport{Type: t}
	logger = logger.With("entity", t.String())

	desc, err := p.catalog.Get(t)
	if err != nil {
		rep.Status, rep.Err = StatusFailed, err
		return rep
	}
	shards := p.store.Shards(desc)

	defer func() {
		if r := recover(); r != nil {
			rep.Status, rep.Err = StatusFailed, fmt.Errorf("panic generating %s: %v", t, r)
		}
		if rep.Status == StatusFailed {
			if err := shards.Clear(); err != nil {
				logger.Warn("failed to clear shards", "error", err)
			}
			logger.Error("entity generation failed", "error", rep.Err)
		}
		rep.Duration = time.Since(start)
	}()

	has, err := p.store.Dataset(desc).HasData()
	if err != nil {
		rep.Status, rep.Err = StatusFailed, err
		return rep
	}
	if has {
		logger.Info("dataset already present, skipping")
		rep.Status = StatusSkipped
		return rep
	}
	if err := shards.Clear(); err != nil {
		rep.Status, rep.Err = StatusFailed, err
		return rep
	}

	total := p.Volume(desc)
	chunk := p.cfg.ChunkSize
	space := desc.IDSpace()
	logger.Info("generating", "rows", total, "shards", (total+chunk-1)/chunk)

	for i, offset := 0, 0; offset < total; i, offset = i+1, offset+chunk {
		if err := ctx.Err(); err != nil {
			rep.Status, rep.Err = StatusFailed, err
			return rep
		}
		ids, err := allocator.Fit(space, space.Base+int64(offset), min(chunk, total-offset))
		if err != nil {
			rep.Status, rep.Err = StatusFailed, err
			return rep
		}
		faker := synth.NewAt(synth.DeriveSeed(p.cfg.Seed, uint64(t)<<24|uint64(i)), p.now())
		records, err := desc.Synthesize(faker, ids, pools)
		if err != nil {
			rep.Status, rep.Err = StatusFailed, fmt.Errorf("synthesize shard %d: %w", i, err)
			return rep
		}
		if _, err := shards.Write(i, records); err != nil {
			rep.Status, rep.Err = StatusFailed, err
			return rep
		}
		rep.Shards++
	}

	rows, err := shards.Merge()
	if err != nil {
		rep.Status, rep.Err = StatusFailed, err
		return rep
	}
	rep.Status, rep.Rows = StatusGenerated, rows
	logger.Info("dataset written", "rows", rows, "shards", rep.Shards)
	return rep
}
