package depgraph

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"testing"
)

// checkInvariant verifies that both indexes agree and that Size matches them.
func checkInvariant(t *testing.T, g *Graph) {
	t.Helper()
	total := 0
	for s, ts := range g.dependents {
		if len(ts) == 0 {
			t.Errorf("empty dependents set stored for %q", s)
		}
		for tt := range ts {
			if _, ok := g.dependees[tt][s]; !ok {
				t.Errorf("(%s,%s) in dependents but not in dependees", s, tt)
			}
			total++
		}
	}
	reverse := 0
	for tt, ss := range g.dependees {
		if len(ss) == 0 {
			t.Errorf("empty dependees set stored for %q", tt)
		}
		reverse += len(ss)
	}
	if total != g.Size() || reverse != g.Size() {
		t.Errorf("Size() = %d, dependents sum = %d, dependees sum = %d", g.Size(), total, reverse)
	}
}

func TestEmptyGraph(t *testing.T) {
	g := New()

	if g.Size() != 0 {
		t.Errorf("Size() = %d, want 0", g.Size())
	}
	if got := g.Dependents("a"); got == nil || len(got) != 0 {
		t.Errorf("Dependents(a) = %#v, want empty non-nil slice", got)
	}
	if got := g.Dependees("a"); got == nil || len(got) != 0 {
		t.Errorf("Dependees(a) = %#v, want empty non-nil slice", got)
	}
	if g.HasDependents("a") || g.HasDependees("a") {
		t.Error("empty graph should have no dependents or dependees")
	}
	if g.NumDependees("a") != 0 {
		t.Errorf("NumDependees(a) = %d, want 0", g.NumDependees("a"))
	}
}

func TestAddDependency(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")

	if !slices.Contains(g.Dependents("a"), "b") {
		t.Errorf("Dependents(a) = %v, want to contain b", g.Dependents("a"))
	}
	if !slices.Contains(g.Dependees("b"), "a") {
		t.Errorf("Dependees(b) = %v, want to contain a", g.Dependees("b"))
	}
	if g.Size() != 1 {
		t.Errorf("Size() = %d, want 1", g.Size())
	}

	// Re-adding is a no-op.
	g.AddDependency("a", "b")
	if g.Size() != 1 {
		t.Errorf("Size() after duplicate add = %d, want 1", g.Size())
	}
	checkInvariant(t, g)
}

func TestExampleRelation(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")
	g.AddDependency("b", "d")
	g.AddDependency("d", "d")

	tests := []struct {
		key        string
		dependents []string
		dependees  []string
	}{
		{"a", []string{"b", "c"}, []string{}},
		{"b", []string{"d"}, []string{"a"}},
		{"c", []string{}, []string{"a"}},
		{"d", []string{"d"}, []string{"b", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := g.Dependents(tt.key); !reflect.DeepEqual(got, tt.dependents) {
				t.Errorf("Dependents(%s) = %v, want %v", tt.key, got, tt.dependents)
			}
			if got := g.Dependees(tt.key); !reflect.DeepEqual(got, tt.dependees) {
				t.Errorf("Dependees(%s) = %v, want %v", tt.key, got, tt.dependees)
			}
		})
	}

	if g.Size() != 4 {
		t.Errorf("Size() = %d, want 4", g.Size())
	}
	if g.NumDependees("d") != 2 {
		t.Errorf("NumDependees(d) = %d, want 2", g.NumDependees("d"))
	}
	if g.NumDependents("a") != 2 {
		t.Errorf("NumDependents(a) = %d, want 2", g.NumDependents("a"))
	}
	if got := g.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("Keys() = %v", got)
	}
	checkInvariant(t, g)
}

func TestRemoveDependency(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")

	g.RemoveDependency("a", "b")
	if slices.Contains(g.Dependents("a"), "b") {
		t.Error("b should no longer depend on a")
	}
	if g.HasDependees("b") {
		t.Error("b should have no dependees")
	}
	if g.Size() != 1 {
		t.Errorf("Size() = %d, want 1", g.Size())
	}

	// Removing an absent pair is a no-op.
	g.RemoveDependency("a", "b")
	g.RemoveDependency("x", "y")
	if g.Size() != 1 {
		t.Errorf("Size() after no-op removes = %d, want 1", g.Size())
	}

	g.RemoveDependency("a", "c")
	if len(g.Keys()) != 0 {
		t.Errorf("Keys() = %v, want none after removing last edge", g.Keys())
	}
	checkInvariant(t, g)
}

func TestReplaceDependents(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")
	g.AddDependency("x", "b")

	g.ReplaceDependents("a", []string{"c", "d", "d", "e"})

	if got := g.Dependents("a"); !reflect.DeepEqual(got, []string{"c", "d", "e"}) {
		t.Errorf("Dependents(a) = %v, want [c d e]", got)
	}
	if got := g.Dependees("b"); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Dependees(b) = %v, want [x]", got)
	}
	if g.Size() != 4 {
		t.Errorf("Size() = %d, want 4", g.Size())
	}
	checkInvariant(t, g)

	g.ReplaceDependents("a", nil)
	if g.HasDependents("a") {
		t.Error("a should have no dependents after replacing with nil")
	}
	if g.Size() != 1 {
		t.Errorf("Size() = %d, want 1", g.Size())
	}
	checkInvariant(t, g)
}

func TestReplaceDependees(t *testing.T) {
	g := New()
	g.AddDependency("b", "a")
	g.AddDependency("c", "a")
	g.AddDependency("b", "x")

	g.ReplaceDependees("a", []string{"c", "d"})

	if got := g.Dependees("a"); !reflect.DeepEqual(got, []string{"c", "d"}) {
		t.Errorf("Dependees(a) = %v, want [c d]", got)
	}
	if got := g.Dependents("b"); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Dependents(b) = %v, want [x]", got)
	}
	if g.Size() != 3 {
		t.Errorf("Size() = %d, want 3", g.Size())
	}
	checkInvariant(t, g)
}

func TestReplaceSelfLoop(t *testing.T) {
	g := New()
	g.AddDependency("a", "a")
	g.AddDependency("a", "b")

	g.ReplaceDependees("a", []string{"c"})
	if got := g.Dependents("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Dependents(a) = %v, want [b]", got)
	}
	if g.Size() != 2 {
		t.Errorf("Size() = %d, want 2", g.Size())
	}
	checkInvariant(t, g)

	g.ReplaceDependents("a", []string{"a"})
	if got := g.Dependees("a"); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Dependees(a) = %v, want [a c]", got)
	}
	checkInvariant(t, g)
}

func TestStress(t *testing.T) {
	g := New()
	const n = 200
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}

	want := make(map[[2]string]bool)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j += 7 {
			g.AddDependency(keys[i], keys[j])
			want[[2]string{keys[i], keys[j]}] = true
		}
	}
	for i := 0; i < n; i += 3 {
		for j := i + 1; j < n; j += 14 {
			g.RemoveDependency(keys[i], keys[j])
			delete(want, [2]string{keys[i], keys[j]})
		}
	}
	for i := 0; i < n; i += 5 {
		repl := []string{keys[(i+2)%n], keys[(i+9)%n]}
		g.ReplaceDependents(keys[i], repl)
		for k := range want {
			if k[0] == keys[i] {
				delete(want, k)
			}
		}
		for _, t := range repl {
			want[[2]string{keys[i], t}] = true
		}
	}

	if g.Size() != len(want) {
		t.Errorf("Size() = %d, want %d", g.Size(), len(want))
	}
	for pair := range want {
		if !slices.Contains(g.Dependents(pair[0]), pair[1]) {
			t.Errorf("missing pair %v", pair)
		}
	}
	checkInvariant(t, g)
}

func TestAffected(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		start string
		want  []string
	}{
		{"isolated", nil, "a", []string{"a"}},
		{"chain", [][2]string{{"c", "b"}, {"b", "a"}}, "c", []string{"c", "b", "a"}},
		{"middle of chain", [][2]string{{"c", "b"}, {"b", "a"}}, "b", []string{"b", "a"}},
		{"diamond", [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}, "a", []string{"a", "c", "b", "d"}},
		{"dependees ignored", [][2]string{{"x", "a"}, {"a", "b"}}, "a", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for _, e := range tt.edges {
				g.AddDependency(e[0], e[1])
			}
			got, err := g.Affected(tt.start)
			if err != nil {
				t.Fatalf("Affected(%s) error: %v", tt.start, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Affected(%s) = %v, want %v", tt.start, got, tt.want)
			}
		})
	}
}

func TestAffectedTopologicalOrder(t *testing.T) {
	g := New()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")
	g.AddDependency("b", "e")
	g.AddDependency("c", "e")
	g.AddDependency("e", "f")
	g.AddDependency("c", "f")
	g.AddDependency("z", "f")

	order, err := g.Affected("a")
	if err != nil {
		t.Fatalf("Affected: %v", err)
	}
	if order[0] != "a" {
		t.Errorf("order[0] = %s, want a", order[0])
	}
	pos := make(map[string]int, len(order))
	for i, k := range order {
		pos[k] = i
	}
	if _, ok := pos["z"]; ok {
		t.Error("z does not depend on a and must not be in the order")
	}
	for _, k := range order {
		for _, dep := range g.Dependees(k) {
			if p, ok := pos[dep]; ok && p > pos[k] {
				t.Errorf("%s appears before its dependee %s in %v", k, dep, order)
			}
		}
	}
}

func TestAffectedCycle(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		start string
		path  []string
	}{
		{"self loop", [][2]string{{"a", "a"}}, "a", []string{"a", "a"}},
		{"two cells", [][2]string{{"a", "b"}, {"b", "a"}}, "a", []string{"a", "b", "a"}},
		{"long", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}}, "a", []string{"b", "c", "d", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for _, e := range tt.edges {
				g.AddDependency(e[0], e[1])
			}
			order, err := g.Affected(tt.start)
			if err == nil {
				t.Fatalf("Affected(%s) = %v, want cycle error", tt.start, order)
			}
			if !errors.Is(err, ErrCycle) {
				t.Errorf("errors.Is(err, ErrCycle) = false for %v", err)
			}
			var ce *CycleError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not a *CycleError", err)
			}
			if !reflect.DeepEqual(ce.Path, tt.path) {
				t.Errorf("Path = %v, want %v", ce.Path, tt.path)
			}
		})
	}
}
