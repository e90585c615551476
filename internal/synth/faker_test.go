package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var anchor = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func Test_Faker_Deterministic(t *testing.T) {
	a, b := NewAt(7, anchor), NewAt(7, anchor)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntRange(0, 1000), b.IntRange(0, 1000))
		assert.Equal(t, a.FullName(), b.FullName())
		assert.Equal(t, a.DateWithinYears(5), b.DateWithinYears(5))
	}

	c := NewAt(8, anchor)
	same := true
	for i := 0; i < 20; i++ {
		if a.IntRange(0, 1<<30) != c.IntRange(0, 1<<30) {
			same = false
		}
	}
	assert.False(t, same)
}

func Test_Faker_Ranges(t *testing.T) {
	f := NewAt(1, anchor)
	for i := 0; i < 500; i++ {
		n := f.IntRange(3, 5)
		assert.GreaterOrEqual(t, n, 3)
		assert.LessOrEqual(t, n, 5)

		amt := f.Amount(10, 20)
		assert.GreaterOrEqual(t, amt, 10.0)
		assert.LessOrEqual(t, amt, 20.0)
		assert.Equal(t, Round2(amt), amt)

		d := f.DateBetweenYearsAgo(3, 1)
		assert.False(t, d.Before(anchor.AddDate(-3, 0, 0)))
		assert.False(t, d.After(anchor.AddDate(-1, 0, 0)))
	}
	assert.Equal(t, 4, f.IntRange(4, 4))
	assert.Contains(t, []string{"a", "b"}, f.Pick([]string{"a", "b"}))
	assert.Regexp(t, `^BR\d{3}$`, f.Code("BR", 100, 999))
}

func Test_Format(t *testing.T) {
	assert.Equal(t, "12.50", FormatAmount(12.5))
	assert.Equal(t, "100000", FormatInt(100000))
	assert.Equal(t, "True", FormatBool(true))
	assert.Equal(t, "False", FormatBool(false))
	assert.Equal(t, "2024-06-01", FormatDate(anchor))
	assert.Equal(t, "2024-06-01 12:00:00", FormatTimestamp(anchor))
	assert.Equal(t, 1.24, Round2(1.236))
}

func Test_ParseBool(t *testing.T) {
	for in, want := range map[string]bool{"True": true, "False": false, "true": true, "0": false} {
		got, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func Test_DeriveSeed(t *testing.T) {
	assert.Equal(t, DeriveSeed(42, 1), DeriveSeed(42, 1))
	assert.NotEqual(t, DeriveSeed(42, 1), DeriveSeed(42, 2))
	assert.NotEqual(t, DeriveSeed(42, 1), DeriveSeed(43, 1))
}
