// Package depgraph tracks dependencies between named cells.
//
// # Overview
//
// A [Graph] is a set of ordered pairs (s, t) read as "t depends on s": s is a
// dependee of t and t is a dependent of s. For example, with
//
//	g := depgraph.New()
//	g.AddDependency("a", "b")
//	g.AddDependency("a", "c")
//	g.AddDependency("b", "d")
//	g.AddDependency("d", "d")
//
// the graph answers
//
//	Dependents("a") = [b c]    Dependees("a") = []
//	Dependents("b") = [d]      Dependees("b") = [a]
//	Dependents("c") = []       Dependees("c") = [a]
//	Dependents("d") = [d]      Dependees("d") = [b d]
//
// Two inverse indexes are kept in step so both directions are O(1) lookups.
// Self-loops are ordinary edges: the graph does not reject cycles, it reports
// them from [Graph.Affected].
//
// # Recalculation Order
//
// [Graph.Affected] walks dependents depth-first from a starting key and
// returns the keys that must be recomputed after that key changes, in an
// order where each key follows all of its dependees. Keys are coloured
// white/gray/black during the walk; reaching a gray key (one whose walk is
// still open) means the start key sits on a cycle, and the walk stops with a
// [*CycleError].
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package depgraph
