package allocator

import (
	"errors"
	"testing"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedMax struct {
	max int64
	ok  bool
	err error
}

func (f fixedMax) MaxID() (int64, bool, error) { return f.max, f.ok, f.err }

var space = entity.IDSpace{Base: 200000, Capacity: 100}

func Test_NextIDs_EmptyDatasetStartsAtBase(t *testing.T) {
	r, err := NextIDs(fixedMax{}, entity.IDSpace{Base: 100000, Capacity: 100000}, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), r.First)
	assert.Equal(t, int64(100009), r.Last())
	assert.Len(t, r.IDs(), 10)
}

func Test_NextIDs_ContinuesAfterMax(t *testing.T) {
	r, err := NextIDs(fixedMax{max: 200014, ok: true}, entity.IDSpace{Base: 200000, Capacity: 800000}, 3)
	require.NoError(t, err)

	assert.Equal(t, []int64{200015, 200016, 200017}, r.IDs())
}

func Test_NextIDs_SuccessiveBlocksDoNotOverlap(t *testing.T) {
	src := fixedMax{}
	var prev entity.IDRange
	for i := 0; i < 5; i++ {
		r, err := NextIDs(src, space, 7)
		require.NoError(t, err)
		if i > 0 {
			assert.False(t, r.Overlaps(prev))
			assert.Equal(t, prev.Last()+1, r.First)
		}
		prev = r
		src = fixedMax{max: r.Last(), ok: true}
	}
}

func Test_NextIDs_Exhausted(t *testing.T) {
	_, err := NextIDs(fixedMax{max: 200095, ok: true}, space, 5)
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)

	r, err := NextIDs(fixedMax{max: 200095, ok: true}, space, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(200099), r.Last())
}

func Test_NextIDs_Rejects(t *testing.T) {
	_, err := NextIDs(fixedMax{}, space, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = NextIDs(fixedMax{max: 5, ok: true}, space, 1)
	assert.ErrorIs(t, err, ErrOutsideSpace)

	boom := errors.New("disk on fire")
	_, err = NextIDs(fixedMax{err: boom}, space, 1)
	assert.ErrorIs(t, err, boom)
}

func Test_Fit(t *testing.T) {
	r, err := Fit(space, 200050, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(200099), r.Last())

	_, err = Fit(space, 199999, 1)
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)

	_, err = Fit(space, 200050, 51)
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)
}
