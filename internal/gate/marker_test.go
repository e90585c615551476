package gate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Marker_WriteOnce(t *testing.T) {
	m := NewMarker(filepath.Join(t.TempDir(), "nested", "initial_complete.flag"))

	ready, err := m.Ready()
	require.NoError(t, err)
	assert.False(t, ready)

	created, err := m.Mark("first\n")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = m.Mark("second\n")
	require.NoError(t, err)
	assert.False(t, created)

	ready, err = m.Ready()
	require.NoError(t, err)
	assert.True(t, ready)

	raw, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(raw))
}

func Test_Marker_WaitReturnsOnceMarked(t *testing.T) {
	m := NewMarker(filepath.Join(t.TempDir(), "initial_complete.flag"))

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = m.Mark("done")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Wait(ctx, 5*time.Millisecond, logging.Discard()))
}

func Test_Marker_WaitCancelled(t *testing.T) {
	m := NewMarker(filepath.Join(t.TempDir(), "initial_complete.flag"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Wait(ctx, 5*time.Millisecond, logging.Discard()), context.DeadlineExceeded)
}

func Test_Marker_WaitRejectsInterval(t *testing.T) {
	m := NewMarker(filepath.Join(t.TempDir(), "initial_complete.flag"))
	assert.Error(t, m.Wait(context.Background(), 0, logging.Discard()))
}
