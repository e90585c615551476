package entity

import (
	"fmt"
)

// Catalog is a validated registry of descriptors.
type Catalog struct {
	byType map[Type]Descriptor
	order  []Type
	stages [][]Type
}

// NewCatalog registers descriptors and checks that their schemas are well
// formed, their ID spaces are pairwise disjoint, every dependency is
// registered and referenced by a foreign key column, and the dependency
// graph has no cycles.
func NewCatalog(descriptors ...Descriptor) (*Catalog, error) {
	c := &Catalog{byType: make(map[Type]Descriptor, len(descriptors))}
	graph := NewDependencyGraph()

	for _, d := range descriptors {
		t := d.Type()
		if !t.Valid() {
			return nil, fmt.Errorf("invalid entity type %d", int(t))
		}
		if _, dup := c.byType[t]; dup {
			return nil, fmt.Errorf("entity %s registered twice", t)
		}
		if d.IDSpace().Capacity <= 0 {
			return nil, fmt.Errorf("entity %s: ID space capacity must be positive", t)
		}
		if err := d.Schema().Validate(); err != nil {
			return nil, fmt.Errorf("entity %s: %w", t, err)
		}
		for u, other := range c.byType {
			if d.IDSpace().Overlaps(other.IDSpace()) {
				return nil, fmt.Errorf("entity %s ID space %s overlaps %s %s", t, d.IDSpace(), u, other.IDSpace())
			}
		}
		refs := make(map[Type]bool)
		for _, ref := range d.Schema().ForeignKeys() {
			refs[ref] = true
		}
		for _, dep := range d.Dependencies() {
			if !refs[dep] {
				return nil, fmt.Errorf("entity %s depends on %s but has no column referencing it", t, dep)
			}
			delete(refs, dep)
		}
		for _, ref := range Types() {
			if refs[ref] {
				return nil, fmt.Errorf("entity %s references %s without declaring the dependency", t, ref)
			}
		}
		c.byType[t] = d
		graph.Add(t, d.Dependencies()...)
	}

	order, err := graph.InsertionOrder()
	if err != nil {
		return nil, err
	}
	stages, err := graph.Stages()
	if err != nil {
		return nil, err
	}
	c.order = order
	c.stages = stages
	return c, nil
}

func (c *Catalog) Get(t Type) (Descriptor, error) {
	d, ok := c.byType[t]
	if !ok {
		return nil, fmt.Errorf("entity %s is not registered", t)
	}
	return d, nil
}

// All returns the descriptors in dependency order.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, c.byType[t])
	}
	return out
}

// Order returns the registered types in dependency order.
func (c *Catalog) Order() []Type {
	return append([]Type(nil), c.order...)
}

// Dependents lists the entities that reference t directly.
func (c *Catalog) Dependents(t Type) []Type {
	var out []Type
	for _, u := range c.order {
		for _, dep := range c.byType[u].Dependencies() {
			if dep == t {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// Stages returns the bulk generation barriers; see DependencyGraph.Stages.
func (c *Catalog) Stages() [][]Type {
	out := make([][]Type, len(c.stages))
	for i, s := range c.stages {
		out[i] = append([]Type(nil), s...)
	}
	return out
}
