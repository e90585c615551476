// Package allocator hands out contiguous identifier blocks inside an entity's
// reserved ID space.
package allocator

import (
	"errors"
	"fmt"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
)

var (
	ErrInvalidCount     = errors.New("allocation count must be positive")
	ErrIDSpaceExhausted = errors.New("id space exhausted")
	ErrOutsideSpace     = errors.New("existing identifier outside reserved id space")
)

// MaxIDSource reports the largest identifier already persisted. ok is false
// for a missing or header-only dataset.
type MaxIDSource interface {
	MaxID() (max int64, ok bool, err error)
}

// NextIDs returns the block following the current maximum of src, or the
// start of space when src is empty. Two calls that observe the same src state
// return the same block, so callers must be the dataset's only writer.
func NextIDs(src MaxIDSource, space entity.IDSpace, count int) (entity.IDRange, error) {
	if count <= 0 {
		return entity.IDRange{}, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	max, ok, err := src.MaxID()
	if err != nil {
		return entity.IDRange{}, fmt.Errorf("read current maximum id: %w", err)
	}

	first := space.Base
	if ok {
		if !space.Contains(max) {
			return entity.IDRange{}, fmt.Errorf("%w: %d not in %s", ErrOutsideSpace, max, space)
		}
		first = max + 1
	}
	return Fit(space, first, count)
}

// Fit checks that [first, first+count) lies inside space.
func Fit(space entity.IDSpace, first int64, count int) (entity.IDRange, error) {
	if count <= 0 {
		return entity.IDRange{}, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	r := entity.IDRange{First: first, Count: count}
	if first < space.Base || r.Last() >= space.End() {
		return entity.IDRange{}, fmt.Errorf("%w: %d ids from %d exceed %s", ErrIDSpaceExhausted, count, first, space)
	}
	return r, nil
}
