package spreadsheet

import "errors"

// Lookup failures seen by formulas while they are evaluated. They end up as
// the reason of a formula.Error value.
var (
	// ErrEmptyCell is returned when a formula reads a cell with no contents.
	ErrEmptyCell = errors.New("cell is empty")

	// ErrNotNumeric is returned when a formula reads a cell whose value is
	// text or a formula error.
	ErrNotNumeric = errors.New("cell value is not a number")
)
