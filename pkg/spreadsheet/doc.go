// Package spreadsheet ties cell contents to a dependency graph.
//
// A [Spreadsheet] maps cell names to contents and cached values. Every valid
// name denotes a cell; cells that were never set are empty. Contents are
// classified from the text a user would type:
//
//	"5", " 1e3 "   a number
//	"=A1*2"        a formula (the text after "=" is parsed by package formula)
//	"hello"        text
//	""             clears the cell
//
// # Edits
//
// [Spreadsheet.SetContentsOfCell] validates the name, classifies and parses
// the text, rewires the cell's dependees in the graph, and asks the graph for
// the cells affected by the change. If the new edges would close a cycle the
// previous edges are restored and the call fails with
// [errors.ErrCodeCircular]; nothing else changes. Otherwise the contents are
// committed and every affected formula is re-evaluated in dependency order.
//
//	s := spreadsheet.New(spreadsheet.Options{Normalize: strings.ToUpper})
//	s.SetContentsOfCell("a1", "=b1+1")
//	s.SetContentsOfCell("b1", "=c1+1")
//	order, _ := s.SetContentsOfCell("c1", "2") // [C1 B1 A1]
//	v, _ := s.CellValue("A1")                  // 4
//
// # Values
//
// A formula cell's value is a number or a [formula.Error]. Referencing an
// empty cell or a cell that does not hold a number is an evaluation error, not
// a Go error, so it shows up as the value of the referencing cell.
//
// # Snapshots
//
// [Spreadsheet.Snapshot] returns every non-empty cell as the text that
// recreates it. [FromSnapshot] replays such a snapshot. Package io reads and
// writes snapshots as JSON.
//
// A Spreadsheet is not safe for concurrent use.
package spreadsheet
