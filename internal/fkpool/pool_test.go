package fkpool

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/bank"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCustomers(t *testing.T, st *store.Store, count int) {
	t.Helper()
	desc := bank.NewCustomers()
	records, err := desc.Synthesize(synth.New(1), entity.IDRange{First: bank.CustomerSpace.Base, Count: count}, nil)
	require.NoError(t, err)
	require.NoError(t, st.Dataset(desc).Replace(records))
}

func Test_Snapshot(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir, filepath.Join(dir, "temp"))
	seedCustomers(t, st, 5)

	pool, err := Snapshot(st.Dataset(bank.NewCustomers()))
	require.NoError(t, err)
	assert.Equal(t, entity.Customer, pool.Type())
	assert.Equal(t, 5, pool.Len())
	assert.True(t, pool.Contains(100004))
	assert.False(t, pool.Contains(100005))

	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 50; i++ {
		id, err := pool.Sample(r)
		require.NoError(t, err)
		assert.True(t, pool.Contains(id))
	}
}

func Test_Snapshot_IsPointInTime(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir, filepath.Join(dir, "temp"))
	seedCustomers(t, st, 2)

	pool, err := Snapshot(st.Dataset(bank.NewCustomers()))
	require.NoError(t, err)

	seedCustomers(t, st, 4)
	assert.Equal(t, 2, pool.Len())
}

func Test_Snapshot_NotReady(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir, filepath.Join(dir, "temp"))
	ds := st.Dataset(bank.NewCustomers())

	_, err := Snapshot(ds)
	assert.ErrorIs(t, err, ErrDependencyNotReady)
	assert.ErrorIs(t, err, store.ErrDatasetNotFound)

	require.NoError(t, ds.Replace(nil))
	_, err = Snapshot(ds)
	assert.ErrorIs(t, err, ErrDependencyNotReady)

	require.NoError(t, os.WriteFile(ds.Path(), []byte("garbage\n"), 0644))
	_, err = Snapshot(ds)
	assert.ErrorIs(t, err, ErrDependencyNotReady)
	assert.ErrorIs(t, err, store.ErrMalformedDataset)
}

func Test_Sample_EmptyPool(t *testing.T) {
	_, err := FromIDs(entity.Customer, nil).Sample(rand.New(rand.NewPCG(1, 1)))
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func Test_ForDependencies(t *testing.T) {
	dir := t.TempDir()
	st := store.New(dir, filepath.Join(dir, "temp"))
	cat, err := bank.Catalog()
	require.NoError(t, err)
	accounts, err := cat.Get(entity.Account)
	require.NoError(t, err)

	_, err = ForDependencies(st, cat, accounts)
	assert.ErrorIs(t, err, ErrDependencyNotReady)

	seedCustomers(t, st, 3)
	pools, err := ForDependencies(st, cat, accounts)
	require.NoError(t, err)
	require.Contains(t, pools, entity.Customer)
	assert.Equal(t, 3, pools[entity.Customer].Len())

	customers, err := cat.Get(entity.Customer)
	require.NoError(t, err)
	pools, err = ForDependencies(st, cat, customers)
	require.NoError(t, err)
	assert.Empty(t, pools)
}
