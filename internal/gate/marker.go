// Package gate implements the readiness marker written once the bulk corpus
// is complete. Only the existence of the file matters.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

type Marker struct {
	path string
}

func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

func (m *Marker) Path() string { return m.path }

// Ready reports whether the marker exists.
func (m *Marker) Ready() (bool, error) {
	_, err := os.Stat(m.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat marker %s: %w", m.path, err)
}

// Mark creates the marker. It never overwrites: an existing marker is left
// untouched and Mark reports created=false.
func (m *Marker) Mark(note string) (created bool, err error) {
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return false, fmt.Errorf("failed to create marker directory: %w", err)
	}
	f, err := os.OpenFile(m.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create marker %s: %w", m.path, err)
	}
	if _, err := f.WriteString(note); err != nil {
		f.Close()
		return true, fmt.Errorf("write marker %s: %w", m.path, err)
	}
	if err := f.Close(); err != nil {
		return true, fmt.Errorf("close marker %s: %w", m.path, err)
	}
	return true, nil
}

// Wait polls until the marker exists or ctx is done.
func (m *Marker) Wait(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logged := false
	for {
		ok, err := m.Ready()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !logged {
			logger.Info("waiting for initial data generation to complete", "marker", m.path, "interval", interval)
			logged = true
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
