package entity

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/synth"
)

var ErrMissingPool = errors.New("no foreign key pool for dependency")

// KeySource yields identifiers that may be used as foreign keys.
type KeySource interface {
	Len() int
	Sample(r *rand.Rand) (int64, error)
}

// Pools maps each dependency to a snapshot of its identifiers.
type Pools map[Type]KeySource

// Pick samples one reference into dep, formatted for a record.
func (p Pools) Pick(dep Type, r *rand.Rand) (string, error) {
	src, ok := p[dep]
	if !ok || src == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingPool, dep)
	}
	id, err := src.Sample(r)
	if err != nil {
		return "", fmt.Errorf("sample %s: %w", dep, err)
	}
	return synth.FormatInt(id), nil
}

// Volume is an entity's bulk target row count, expressed relative to the
// customer count. Exactly one of Fixed, Multiplier or Divisor is used, in that order.
type Volume struct {
	Fixed      int
	Multiplier int
	Divisor    int
}

// Rows resolves the volume for a customer count. The result is never below 1.
func (v Volume) Rows(customers int) int {
	var n int
	switch {
	case v.Fixed > 0:
		n = v.Fixed
	case v.Multiplier > 0:
		n = customers * v.Multiplier
	case v.Divisor > 0:
		n = customers / v.Divisor
	default:
		n = customers
	}
	if n < 1 {
		return 1
	}
	return n
}

func (v Volume) String() string {
	switch {
	case v.Fixed > 0:
		return fmt.Sprintf("%d", v.Fixed)
	case v.Multiplier > 0:
		return fmt.Sprintf("customers*%d", v.Multiplier)
	case v.Divisor > 0:
		return fmt.Sprintf("customers/%d", v.Divisor)
	}
	return "customers"
}

// Descriptor is the capability set of one entity type. The engine works
// exclusively against this interface.
type Descriptor interface {
	Type() Type
	IDSpace() IDSpace
	Dependencies() []Type
	Schema() Schema
	BulkVolume() Volume
	// Synthesize returns one record per identifier in ids, in order. It draws
	// every random value from f and every reference from pools.
	Synthesize(f *synth.Faker, ids IDRange, pools Pools) ([]Record, error)
}
