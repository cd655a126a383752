// Package pkg provides the core libraries for the cellgraph spreadsheet engine.
//
// # Overview
//
// A sheet is a set of named cells. Each cell holds a number, a string, or a
// formula that refers to other cells. Cellgraph keeps the dependency graph
// between cells, evaluates formulas, and recalculates every affected cell
// when one changes. The pkg directory is organized into three areas:
//
//  1. Domain logic: [depgraph], [formula], [spreadsheet], [history]
//  2. Serialization and output: [io], [render], [render/nodelink]
//  3. Infrastructure: [cache], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The data flow through a single edit:
//
//	SetContentsOfCell("B1", "=A1*2")
//	         ↓
//	    [formula] package (tokenize, validate, collect variables)
//	         ↓
//	    [depgraph] package (replace dependees, order affected cells)
//	         ↓
//	    [spreadsheet] package (roll back on cycles, recalculate values)
//	         ↓
//	    [io] / [render/nodelink] (JSON file, DOT/SVG/PDF/PNG)
//
// # Quick Start
//
//	s := spreadsheet.New(spreadsheet.Options{Normalize: strings.ToUpper})
//	s.SetContentsOfCell("A1", "5")
//	affected, _ := s.SetContentsOfCell("b1", "=A1*2")  // [B1]
//	v, _ := s.CellValue("B1")                          // 10
//	_ = pkgio.ExportJSON(s, "budget.json")
//
// # Main Packages
//
// [depgraph] - Directed graph of "dependee must be evaluated before
// dependent" pairs, with cycle detection and a topological ordering of the
// cells affected by a change.
//
// [formula] - Infix arithmetic formulas over cell variables. Parsing
// normalizes and validates variable names; evaluation resolves them through
// a lookup function and reports failures as values, never panics.
//
// [spreadsheet] - The sheet itself. Edits that would introduce a cycle are
// rejected and leave the sheet exactly as it was.
//
// [history] - Undo and redo of cell edits on top of any [spreadsheet.Sheet].
//
// [io] - JSON persistence. Files are replayed cell by cell on load, so a
// saved sheet is validated exactly like typed input.
//
// [render/nodelink] - Graphviz diagrams of the dependency graph. [render]
// converts SVG output to PDF and PNG.
//
// [cache] - Render cache with file, Redis, and null backends.
//
// [observability] - Hooks for logging and metrics, no-ops by default.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/formula/...  # Specific package
//	go test -run Example ./... # Examples only
//
// [depgraph]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/depgraph
// [formula]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/formula
// [spreadsheet]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/spreadsheet
// [spreadsheet.Sheet]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/spreadsheet#Sheet
// [history]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/history
// [io]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cellgraph/pkg/buildinfo
package pkg
