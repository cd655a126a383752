package depgraph

import (
	"errors"
	"slices"
	"strings"
)

// ErrCycle is matched by every [*CycleError] under errors.Is.
var ErrCycle = errors.New("circular dependency")

// CycleError is returned by [Graph.Affected] when the start key lies on a
// cycle. Path lists the keys along the cycle, beginning and ending with the
// key that closed it, in dependent order (each key depends on the previous).
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "circular dependency: " + strings.Join(e.Path, " -> ")
}

// Is reports whether target is ErrCycle.
func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// Affected returns start followed by every key that transitively depends on
// it, ordered so that each key appears after all of its dependees that are
// also in the result.
//
// The walk is a depth-first search over dependents with white/gray/black
// colouring. Reaching a gray key means the walk has come back to a key whose
// dependents are still being explored, so start sits on a cycle; Affected
// then stops immediately and returns a *CycleError. Dependents are visited in
// sorted order, so the result is deterministic.
//
// This runs in O(N+E) over the part of the graph reachable from start.
func (g *Graph) Affected(start string) ([]string, error) {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var (
		post  []string // post-order; reversed at the end
		stack []string // keys with an open walk, for cycle paths
		cycle *CycleError
	)

	var visit func(name string)
	visit = func(name string) {
		color[name] = gray
		stack = append(stack, name)
		for _, next := range g.Dependents(name) {
			switch color[next] {
			case white:
				visit(next)
				if cycle != nil {
					return
				}
			case gray:
				at := slices.Index(stack, next)
				path := slices.Clone(stack[at:])
				cycle = &CycleError{Path: append(path, next)}
				return
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		post = append(post, name)
	}

	visit(start)
	if cycle != nil {
		return nil, cycle
	}
	slices.Reverse(post)
	return post, nil
}
