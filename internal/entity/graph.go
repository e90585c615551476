package entity

import (
	"fmt"
	"sort"
)

// DependencyGraph orders entity types so every dependency precedes its dependents.
type DependencyGraph struct {
	deps  map[Type][]Type
	order []Type
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		deps: make(map[Type][]Type),
	}
}

func (g *DependencyGraph) Add(t Type, deps ...Type) {
	g.deps[t] = append([]Type(nil), deps...)
}

// InsertionOrder returns a topological order of the graph. Ties are broken by
// type declaration order so the result is stable.
func (g *DependencyGraph) InsertionOrder() ([]Type, error) {
	visited := make(map[Type]bool)
	temp := make(map[Type]bool)
	var order []Type

	var visit func(Type) error
	visit = func(t Type) error {
		if temp[t] {
			return fmt.Errorf("circular dependency detected involving entity: %s", t)
		}
		if visited[t] {
			return nil
		}

		temp[t] = true
		for _, dep := range g.deps[t] {
			if _, ok := g.deps[dep]; !ok {
				return fmt.Errorf("entity %s depends on unregistered entity %s", t, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		temp[t] = false
		visited[t] = true
		order = append(order, t)
		return nil
	}

	for _, t := range g.sortedTypes() {
		if !visited[t] {
			if err := visit(t); err != nil {
				return nil, err
			}
		}
	}

	g.order = order
	return order, nil
}

// Stages groups the graph into generation barriers. A root that other
// entities depend on is generated alone in stage 0; roots nobody depends on
// join stage 1; every other entity lands one stage after its deepest dependency.
func (g *DependencyGraph) Stages() ([][]Type, error) {
	order, err := g.InsertionOrder()
	if err != nil {
		return nil, err
	}

	hasDependents := make(map[Type]bool)
	for _, deps := range g.deps {
		for _, d := range deps {
			hasDependents[d] = true
		}
	}

	level := make(map[Type]int, len(order))
	maxLevel := 0
	for _, t := range order {
		deps := g.deps[t]
		switch {
		case len(deps) == 0 && hasDependents[t]:
			level[t] = 0
		case len(deps) == 0:
			level[t] = 1
		default:
			l := 0
			for _, d := range deps {
				if level[d] > l {
					l = level[d]
				}
			}
			level[t] = l + 1
		}
		if level[t] > maxLevel {
			maxLevel = level[t]
		}
	}

	stages := make([][]Type, maxLevel+1)
	for _, t := range g.sortedTypes() {
		stages[level[t]] = append(stages[level[t]], t)
	}

	out := stages[:0]
	for _, s := range stages {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out, nil
}

func (g *DependencyGraph) sortedTypes() []Type {
	types := make([]Type, 0, len(g.deps))
	for t := range g.deps {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
