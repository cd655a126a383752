package depgraph

import (
	"maps"
	"slices"
)

// set is a string set. Empty sets are never stored in a Graph index.
type set map[string]struct{}

// Graph is a many-to-many dependency relation between string keys.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	dependents map[string]set // s -> {t : t depends on s}
	dependees  map[string]set // t -> {s : t depends on s}
	size       int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		dependents: make(map[string]set),
		dependees:  make(map[string]set),
	}
}

// Size returns the number of ordered pairs in the graph.
func (g *Graph) Size() int { return g.size }

// NumDependees returns the number of keys s depends on.
// Returns 0 if s has no recorded edges.
func (g *Graph) NumDependees(s string) int { return len(g.dependees[s]) }

// NumDependents returns the number of keys that depend on s.
// Returns 0 if s has no recorded edges.
func (g *Graph) NumDependents(s string) int { return len(g.dependents[s]) }

// HasDependents reports whether any key depends on s.
func (g *Graph) HasDependents(s string) bool { return len(g.dependents[s]) > 0 }

// HasDependees reports whether s depends on any key.
func (g *Graph) HasDependees(s string) bool { return len(g.dependees[s]) > 0 }

// Dependents returns the keys that depend on s, sorted.
// The result is a copy and is never nil.
func (g *Graph) Dependents(s string) []string { return sorted(g.dependents[s]) }

// Dependees returns the keys s depends on, sorted.
// The result is a copy and is never nil.
func (g *Graph) Dependees(s string) []string { return sorted(g.dependees[s]) }

// Keys returns every key that takes part in at least one edge, sorted.
func (g *Graph) Keys() []string {
	keys := make(set, len(g.dependents)+len(g.dependees))
	for k := range g.dependents {
		keys[k] = struct{}{}
	}
	for k := range g.dependees {
		keys[k] = struct{}{}
	}
	return sorted(keys)
}

// AddDependency records that t depends on s.
// Adding a pair that is already present has no effect.
func (g *Graph) AddDependency(s, t string) {
	if _, ok := g.dependents[s][t]; ok {
		return
	}
	link(g.dependents, s, t)
	link(g.dependees, t, s)
	g.size++
}

// RemoveDependency removes the pair (s, t) if it exists.
// No error is returned if the pair does not exist.
func (g *Graph) RemoveDependency(s, t string) {
	if _, ok := g.dependents[s][t]; !ok {
		return
	}
	unlink(g.dependents, s, t)
	unlink(g.dependees, t, s)
	g.size--
}

// ReplaceDependents removes every pair (s, r) and then adds (s, t) for each t
// in newDependents. Duplicates in newDependents are added once.
//
// This is O(old + new) where old is the current out-degree of s.
func (g *Graph) ReplaceDependents(s string, newDependents []string) {
	old := g.dependents[s]
	delete(g.dependents, s)
	for r := range old {
		unlink(g.dependees, r, s)
	}
	g.size -= len(old)

	for _, t := range newDependents {
		g.AddDependency(s, t)
	}
}

// ReplaceDependees removes every pair (r, s) and then adds (t, s) for each t
// in newDependees. Duplicates in newDependees are added once.
//
// This is O(old + new) where old is the current in-degree of s.
func (g *Graph) ReplaceDependees(s string, newDependees []string) {
	old := g.dependees[s]
	delete(g.dependees, s)
	for r := range old {
		unlink(g.dependents, r, s)
	}
	g.size -= len(old)

	for _, t := range newDependees {
		g.AddDependency(t, s)
	}
}

func link(index map[string]set, from, to string) {
	m, ok := index[from]
	if !ok {
		m = make(set)
		index[from] = m
	}
	m[to] = struct{}{}
}

func unlink(index map[string]set, from, to string) {
	m, ok := index[from]
	if !ok {
		return
	}
	delete(m, to)
	if len(m) == 0 {
		delete(index, from)
	}
}

func sorted(s set) []string {
	if len(s) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(s))
}
