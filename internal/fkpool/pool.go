// Package fkpool snapshots the identifiers of a dependency so dependents can
// sample valid references.
package fkpool

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
)

var (
	ErrDependencyNotReady = errors.New("dependency not ready")
	ErrEmptyPool          = errors.New("cannot sample from an empty pool")
)

// Pool is an immutable point-in-time set of identifiers of one entity.
type Pool struct {
	typ entity.Type
	ids []int64
}

// FromIDs builds a pool from identifiers already in memory.
func FromIDs(t entity.Type, ids []int64) *Pool {
	return &Pool{typ: t, ids: append([]int64(nil), ids...)}
}

func (p *Pool) Type() entity.Type { return p.typ }
func (p *Pool) Len() int          { return len(p.ids) }

// Contains reports membership with a linear scan.
func (p *Pool) Contains(id int64) bool {
	for _, v := range p.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Sample draws one identifier uniformly.
func (p *Pool) Sample(r *rand.Rand) (int64, error) {
	if len(p.ids) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyPool, p.typ)
	}
	return p.ids[r.IntN(len(p.ids))], nil
}

// Snapshot reads every identifier currently stored for ds. A missing, empty
// or unreadable dataset is reported as ErrDependencyNotReady.
func Snapshot(ds *store.Dataset) (*Pool, error) {
	ids, err := ds.IDs()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDependencyNotReady, ds.Type(), err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", ErrDependencyNotReady, ds.Type())
	}
	return &Pool{typ: ds.Type(), ids: ids}, nil
}

// ForDependencies snapshots every dependency of d.
func ForDependencies(st *store.Store, cat *entity.Catalog, d entity.Descriptor) (entity.Pools, error) {
	pools := make(entity.Pools, len(d.Dependencies()))
	for _, dep := range d.Dependencies() {
		depDesc, err := cat.Get(dep)
		if err != nil {
			return nil, err
		}
		p, err := Snapshot(st.Dataset(depDesc))
		if err != nil {
			return nil, err
		}
		pools[dep] = p
	}
	return pools, nil
}
