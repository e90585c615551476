package verify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/bank"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/fkpool"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anchor = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// buildCorpus writes three rows for every entity, dependencies first.
func buildCorpus(t *testing.T) (*store.Store, *entity.Catalog) {
	t.Helper()
	dir := t.TempDir()
	st := store.New(dir, filepath.Join(dir, "temp"))
	cat, err := bank.Catalog()
	require.NoError(t, err)

	for _, d := range cat.All() {
		pools, err := fkpool.ForDependencies(st, cat, d)
		require.NoError(t, err)
		records, err := d.Synthesize(synth.NewAt(uint64(d.Type()), anchor), entity.IDRange{First: d.IDSpace().Base, Count: 3}, pools)
		require.NoError(t, err)
		require.NoError(t, st.Dataset(d).Replace(records))
	}
	return st, cat
}

func mutate(t *testing.T, st *store.Store, cat *entity.Catalog, typ entity.Type, fn func([]entity.Record) []entity.Record) {
	t.Helper()
	d, err := cat.Get(typ)
	require.NoError(t, err)
	records, err := st.Dataset(d).Read()
	require.NoError(t, err)
	require.NoError(t, st.Dataset(d).Replace(fn(records)))
}

func Test_Corpus_Consistent(t *testing.T) {
	st, cat := buildCorpus(t)

	res, err := Corpus(st, cat)
	require.NoError(t, err)
	assert.True(t, res.OK(), "%v", res.Violations)
	for _, typ := range entity.Types() {
		assert.Equal(t, 3, res.Rows[typ], typ.String())
	}
}

func Test_Corpus_DuplicateAndOutOfSpace(t *testing.T) {
	st, cat := buildCorpus(t)
	mutate(t, st, cat, entity.Loan, func(r []entity.Record) []entity.Record {
		r[1][0] = r[0][0]
		r[2][0] = "99"
		return r
	})

	res, err := Corpus(st, cat)
	require.NoError(t, err)
	assert.False(t, res.OK())

	v, ok := res.Find(entity.Loan, KindDuplicate)
	require.True(t, ok)
	assert.Equal(t, 1, v.Count)
	assert.Equal(t, []string{"10000000"}, v.Examples)

	v, ok = res.Find(entity.Loan, KindOutOfSpace)
	require.True(t, ok)
	assert.Equal(t, []string{"99"}, v.Examples)
}

func Test_Corpus_DanglingReference(t *testing.T) {
	st, cat := buildCorpus(t)
	mutate(t, st, cat, entity.Transaction, func(r []entity.Record) []entity.Record {
		r[0][1] = "999999"
		r[1][1] = "not-a-number"
		return r
	})

	res, err := Corpus(st, cat)
	require.NoError(t, err)

	v, ok := res.Find(entity.Transaction, KindDangling)
	require.True(t, ok)
	assert.Equal(t, 2, v.Count)
	assert.Contains(t, v.Examples, "AccountID=999999")
	assert.Contains(t, v.String(), "dangling_reference")
}

func Test_Corpus_MissingAndUnreadable(t *testing.T) {
	st, cat := buildCorpus(t)

	aml, err := cat.Get(entity.AMLRecord)
	require.NoError(t, err)
	require.NoError(t, os.Remove(st.Dataset(aml).Path()))

	depots, err := cat.Get(entity.Depot)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(st.Dataset(depots).Path(), []byte("a,b\n1,2\n"), 0644))

	shares, err := cat.Get(entity.Share)
	require.NoError(t, err)
	require.NoError(t, st.Dataset(shares).Replace(nil))

	res, err := Corpus(st, cat)
	require.NoError(t, err)

	_, ok := res.Find(entity.AMLRecord, KindMissing)
	assert.True(t, ok)
	_, ok = res.Find(entity.Depot, KindUnreadable)
	assert.True(t, ok)
	_, ok = res.Find(entity.Share, KindMissing)
	assert.True(t, ok)
	_, ok = res.Find(entity.Customer, KindMissing)
	assert.False(t, ok)
}
