package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/allocator"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/bank"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/config"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/fkpool"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/logging"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/retry"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anchor = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeSleeper records requested durations and cancels the run after a
// number of sleeps.
type fakeSleeper struct {
	mu        sync.Mutex
	durations []time.Duration
	stopAfter int
	cancel    context.CancelFunc
	onSleep   func(n int)
}

func (s *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.durations = append(s.durations, d)
	n := len(s.durations)
	s.mu.Unlock()

	if s.onSleep != nil {
		s.onSleep(n)
	}
	if s.stopAfter > 0 && n >= s.stopAfter {
		s.cancel()
	}
	return ctx.Err()
}

func (s *fakeSleeper) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.durations)
}

type fixture struct {
	st      *store.Store
	catalog *entity.Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	cat, err := bank.Catalog()
	require.NoError(t, err)
	return &fixture{st: store.New(dir, filepath.Join(dir, "temp")), catalog: cat}
}

func (fx *fixture) seed(t *testing.T, typ entity.Type, count int) {
	t.Helper()
	desc, err := fx.catalog.Get(typ)
	require.NoError(t, err)
	pools, err := fkpool.ForDependencies(fx.st, fx.catalog, desc)
	require.NoError(t, err)
	records, err := desc.Synthesize(synth.NewAt(9, anchor), entity.IDRange{First: desc.IDSpace().Base, Count: count}, pools)
	require.NoError(t, err)
	require.NoError(t, fx.st.Dataset(desc).Replace(records))
}

func (fx *fixture) worker(t *testing.T, desc entity.Descriptor, cadence config.Cadence, opts ...WorkerOption) *Worker {
	t.Helper()
	w, err := fx.st.Claim(desc)
	require.NoError(t, err)
	t.Cleanup(w.Release)
	opts = append([]WorkerOption{WithRetry(retry.WithMaxAttempts(2), retry.WithBaseDelay(time.Millisecond))}, opts...)
	return NewWorker(desc, fx.catalog, fx.st, w, cadence, synth.NewAt(5, anchor), logging.Discard(), opts...)
}

func (fx *fixture) desc(t *testing.T, typ entity.Type) entity.Descriptor {
	t.Helper()
	d, err := fx.catalog.Get(typ)
	require.NoError(t, err)
	return d
}

func Test_Cycle_AppendsBatchWithValidReferences(t *testing.T) {
	fx := newFixture(t)
	fx.seed(t, entity.Customer, 5)

	w := fx.worker(t, fx.desc(t, entity.Account), config.Cadence{MinBatch: 3, MaxBatch: 3})
	res := w.Cycle(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, entity.IDRange{First: 200000, Count: 3}, res.IDs)
	assert.Equal(t, Generating, w.State())

	records, err := fx.st.Dataset(fx.desc(t, entity.Account)).Read()
	require.NoError(t, err)
	require.Len(t, records, 3)

	customers := fkpool.FromIDs(entity.Customer, []int64{100000, 100001, 100002, 100003, 100004})
	for i, r := range records {
		assert.Equal(t, synth.FormatInt(200000+int64(i)), r[0])
		var cid int64
		_, err := fmt.Sscan(r[1], &cid)
		require.NoError(t, err)
		assert.True(t, customers.Contains(cid), "customer %d", cid)
	}

	res = w.Cycle(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, int64(200003), res.IDs.First)
}

func Test_Cycle_DependencyNotReady(t *testing.T) {
	fx := newFixture(t)
	w := fx.worker(t, fx.desc(t, entity.Account), config.Cadence{MinBatch: 1, MaxBatch: 5})

	res := w.Cycle(context.Background())
	assert.ErrorIs(t, res.Err, fkpool.ErrDependencyNotReady)
	assert.Equal(t, 0, res.Rows)
	assert.Equal(t, "dependency_not_ready", Kind(res.Err))
	assert.Equal(t, WaitingOnDependency, w.State())

	exists, err := fx.st.Dataset(fx.desc(t, entity.Account)).Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_Cycle_RecoversOnceDependencyAppears(t *testing.T) {
	fx := newFixture(t)
	w := fx.worker(t, fx.desc(t, entity.Transaction), config.Cadence{MinBatch: 2, MaxBatch: 2})

	assert.ErrorIs(t, w.Cycle(context.Background()).Err, fkpool.ErrDependencyNotReady)

	fx.seed(t, entity.Customer, 3)
	fx.seed(t, entity.Account, 4)

	res := w.Cycle(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, entity.IDRange{First: 100000000, Count: 2}, res.IDs)
}

func Test_Cycle_RootEntityStartsAtBase(t *testing.T) {
	fx := newFixture(t)
	w := fx.worker(t, fx.desc(t, entity.Customer), config.Cadence{MinBatch: 10, MaxBatch: 10})

	res := w.Cycle(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, int64(100000), res.IDs.First)
	assert.Equal(t, int64(100009), res.IDs.Last())
}

func Test_Cycle_ContinuesAfterBulkMaximum(t *testing.T) {
	fx := newFixture(t)
	fx.seed(t, entity.Customer, 2)
	fx.seed(t, entity.Account, 15)

	w := fx.worker(t, fx.desc(t, entity.Account), config.Cadence{MinBatch: 1, MaxBatch: 1})
	res := w.Cycle(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, int64(200015), res.IDs.First)
}

type panickingDescriptor struct{ entity.Descriptor }

func (panickingDescriptor) Synthesize(*synth.Faker, entity.IDRange, entity.Pools) ([]entity.Record, error) {
	panic("bad distribution")
}

type failingDescriptor struct{ entity.Descriptor }

func (failingDescriptor) Synthesize(*synth.Faker, entity.IDRange, entity.Pools) ([]entity.Record, error) {
	return nil, errors.New("no values")
}

// interruptedDescriptor simulates a shutdown arriving while a batch is built.
type interruptedDescriptor struct {
	entity.Descriptor
	ctx    context.Context
	cancel context.CancelFunc
}

func (d interruptedDescriptor) Synthesize(*synth.Faker, entity.IDRange, entity.Pools) ([]entity.Record, error) {
	d.cancel()
	return nil, d.ctx.Err()
}

func Test_Cycle_ShutdownIsNotLoggedAsFailure(t *testing.T) {
	fx := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	desc := interruptedDescriptor{Descriptor: bank.NewBranches(), ctx: ctx, cancel: cancel}

	var buf bytes.Buffer
	logger, err := logging.New("debug", "json", &buf)
	require.NoError(t, err)

	writer, err := fx.st.Claim(desc)
	require.NoError(t, err)
	defer writer.Release()
	w := NewWorker(desc, fx.catalog, fx.st, writer, config.Cadence{MinBatch: 1, MaxBatch: 1}, synth.NewAt(5, anchor), logger)

	res := w.Cycle(ctx)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Equal(t, "canceled", Kind(res.Err))

	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	assert.Contains(t, buf.String(), "cycle interrupted by shutdown")
	assert.NotContains(t, buf.String(), `"level":"ERROR"`)
	assert.NotContains(t, buf.String(), "batch dropped")
}

func Test_Cycle_SynthesisFailureAppendsNothing(t *testing.T) {
	for name, desc := range map[string]entity.Descriptor{
		"panic": panickingDescriptor{bank.NewBranches()},
		"error": failingDescriptor{bank.NewBranches()},
	} {
		t.Run(name, func(t *testing.T) {
			fx := newFixture(t)
			w := fx.worker(t, desc, config.Cadence{MinBatch: 1, MaxBatch: 2})

			res := w.Cycle(context.Background())
			assert.ErrorIs(t, res.Err, ErrSynthesisFailure)
			assert.Equal(t, "synthesis_failure", Kind(res.Err))

			has, err := fx.st.Dataset(desc).HasData()
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func Test_Run_SleepsWithinCadence(t *testing.T) {
	fx := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sleeper := &fakeSleeper{stopAfter: 4, cancel: cancel}
	w := fx.worker(t, fx.desc(t, entity.Branch), config.Cadence{MinBatch: 1, MaxBatch: 2, MinSleep: 2, MaxSleep: 5}, WithSleeper(sleeper))

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 4, sleeper.count())
	for _, d := range sleeper.durations {
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.LessOrEqual(t, d, 5*time.Second)
	}

	stats, err := fx.st.Dataset(fx.desc(t, entity.Branch)).Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Rows, 4)
	assert.LessOrEqual(t, stats.Rows, 8)
	assert.Equal(t, bank.BranchSpace.Base, stats.MinID)
	assert.Equal(t, bank.BranchSpace.Base+int64(stats.Rows)-1, stats.MaxID)
}

func Test_Run_WaitsForDependencyWithoutAppending(t *testing.T) {
	fx := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// customers appear after the second sleep
	sleeper := &fakeSleeper{stopAfter: 3, cancel: cancel}
	sleeper.onSleep = func(n int) {
		if n == 2 {
			fx.seed(t, entity.Customer, 3)
		}
	}
	w := fx.worker(t, fx.desc(t, entity.Loan), config.Cadence{MinBatch: 2, MaxBatch: 2, MinSleep: 1, MaxSleep: 1}, WithSleeper(sleeper))

	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
	assert.Equal(t, 3, sleeper.count())

	ids, err := fx.st.Dataset(fx.desc(t, entity.Loan)).IDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{10000000, 10000001}, ids)
}

func Test_Kind(t *testing.T) {
	assert.Equal(t, "none", Kind(nil))
	assert.Equal(t, "canceled", Kind(context.Canceled))
	assert.Equal(t, "dependency_not_ready", Kind(fmt.Errorf("x: %w", fkpool.ErrDependencyNotReady)))
	assert.Equal(t, "synthesis_failure", Kind(ErrSynthesisFailure))
	assert.Equal(t, "persistence_failure", Kind(fmt.Errorf("%w: disk full", ErrPersistenceFailure)))
}

func Test_isTransient(t *testing.T) {
	assert.True(t, isTransient(fmt.Errorf("%w: busy", ErrPersistenceFailure)))
	assert.False(t, isTransient(fmt.Errorf("%w: bad", ErrSynthesisFailure)))
	assert.False(t, isTransient(allocator.ErrIDSpaceExhausted))
	assert.False(t, isTransient(store.ErrMalformedDataset))
}

func Test_State_String(t *testing.T) {
	assert.Equal(t, "waiting_on_dependency", WaitingOnDependency.String())
	assert.Equal(t, "generating", Generating.String())
	assert.Equal(t, "sleeping", Sleeping.String())
}
