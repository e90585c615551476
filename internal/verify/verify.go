// Package verify audits a corpus against its structural guarantees: unique
// identifiers inside each entity's ID space and foreign keys that resolve.
package verify

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
)

type Kind string

const (
	KindMissing    Kind = "missing"
	KindUnreadable Kind = "unreadable"
	KindDuplicate  Kind = "duplicate_id"
	KindOutOfSpace Kind = "id_outside_space"
	KindDangling   Kind = "dangling_reference"
)

const maxExamples = 5

// Violation aggregates every occurrence of one problem in one entity.
type Violation struct {
	Entity   entity.Type
	Kind     Kind
	Count    int
	Examples []string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s x%d %v", v.Entity, v.Kind, v.Count, v.Examples)
}

type Result struct {
	Rows       map[entity.Type]int
	Violations []Violation
}

func (r *Result) OK() bool {
	return len(r.Violations) == 0
}

// Find returns the violation of kind k for t.
func (r *Result) Find(t entity.Type, k Kind) (Violation, bool) {
	for _, v := range r.Violations {
		if v.Entity == t && v.Kind == k {
			return v, true
		}
	}
	return Violation{}, false
}

type collector struct {
	byKey map[entity.Type]map[Kind]*Violation
	order []*Violation
}

func (c *collector) add(t entity.Type, k Kind, example string) {
	if c.byKey[t] == nil {
		c.byKey[t] = make(map[Kind]*Violation)
	}
	v, ok := c.byKey[t][k]
	if !ok {
		v = &Violation{Entity: t, Kind: k}
		c.byKey[t][k] = v
		c.order = append(c.order, v)
	}
	v.Count++
	if len(v.Examples) < maxExamples {
		v.Examples = append(v.Examples, example)
	}
}

// Corpus checks every dataset of the catalog. Entities are visited in
// dependency order so referenced ID sets are known before their dependents.
// Rows of a dependent are checked against the dependency as it is now, which
// is a superset of what existed when they were written.
func Corpus(st *store.Store, cat *entity.Catalog) (*Result, error) {
	res := &Result{Rows: make(map[entity.Type]int)}
	col := &collector{byKey: make(map[entity.Type]map[Kind]*Violation)}
	known := make(map[entity.Type]map[int64]struct{})

	for _, d := range cat.All() {
		t := d.Type()
		ds := st.Dataset(d)

		exists, err := ds.Exists()
		if err != nil {
			return nil, err
		}
		if !exists {
			col.add(t, KindMissing, ds.Path())
			continue
		}

		fks := d.Schema().ForeignKeys()
		ids := make(map[int64]struct{})
		space := d.IDSpace()

		err = ds.Each(func(r entity.Record) error {
			res.Rows[t]++
			id, err := r.ID()
			if err != nil {
				return err
			}
			if _, dup := ids[id]; dup {
				col.add(t, KindDuplicate, r[0])
			}
			ids[id] = struct{}{}
			if !space.Contains(id) {
				col.add(t, KindOutOfSpace, r[0])
			}
			for pos, ref := range fks {
				target, ok := known[ref]
				if !ok {
					continue
				}
				v, err := strconv.ParseInt(r[pos], 10, 64)
				if err != nil {
					col.add(t, KindDangling, fmt.Sprintf("%s=%q", d.Schema().Fields[pos].Name, r[pos]))
					continue
				}
				if _, ok := target[v]; !ok {
					col.add(t, KindDangling, fmt.Sprintf("%s=%d", d.Schema().Fields[pos].Name, v))
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, store.ErrMalformedDataset) || errors.Is(err, strconv.ErrSyntax) || errors.Is(err, strconv.ErrRange) {
				col.add(t, KindUnreadable, err.Error())
				continue
			}
			return nil, err
		}
		if res.Rows[t] == 0 {
			col.add(t, KindMissing, ds.Path()+" has no rows")
		}
		known[t] = ids
	}

	for _, v := range col.order {
		res.Violations = append(res.Violations, *v)
	}
	return res, nil
}
