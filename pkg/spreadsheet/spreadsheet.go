package spreadsheet

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/cellgraph/pkg/depgraph"
	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/formula"
	"github.com/matzehuels/cellgraph/pkg/observability"
)

// DefaultVersion is the version of sheets created without one.
const DefaultVersion = "default"

// Sheet is the engine contract consumed by persistence, history and user
// interfaces.
type Sheet interface {
	// CellValue returns the value of the named cell.
	CellValue(name string) (Value, error)

	// CellContents returns the contents of the named cell.
	CellContents(name string) (Contents, error)

	// NonemptyCells returns the names of all cells with contents.
	NonemptyCells() []string

	// SetContentsOfCell sets the named cell from text and returns the cells
	// whose values were recomputed, starting with the named cell.
	SetContentsOfCell(name, text string) ([]string, error)
}

// Options configures a Spreadsheet.
type Options struct {
	// Normalize maps cell names to their canonical form. Nil keeps names as
	// given.
	Normalize formula.Normalizer

	// Validate restricts which normalized names are accepted. Nil accepts all.
	Validate formula.Validator

	// Version tags snapshots. Defaults to DefaultVersion.
	Version string
}

// Spreadsheet is the spreadsheet engine.
//
// The zero value is not usable - use New or FromSnapshot.
type Spreadsheet struct {
	cells     map[string]*cell
	graph     *depgraph.Graph
	normalize formula.Normalizer
	validate  formula.Validator
	version   string
	changed   bool
}

// Compile-time interface check.
var _ Sheet = (*Spreadsheet)(nil)

// New creates an empty Spreadsheet.
func New(opts Options) *Spreadsheet {
	s := &Spreadsheet{
		cells:     make(map[string]*cell),
		graph:     depgraph.New(),
		normalize: opts.Normalize,
		validate:  opts.Validate,
		version:   opts.Version,
	}
	if s.normalize == nil {
		s.normalize = func(name string) string { return name }
	}
	if s.validate == nil {
		s.validate = func(string) bool { return true }
	}
	if s.version == "" {
		s.version = DefaultVersion
	}
	return s
}

// Version returns the version the sheet was created with.
func (s *Spreadsheet) Version() string { return s.version }

// Changed reports whether the sheet was modified since it was created, loaded
// or last marked saved.
func (s *Spreadsheet) Changed() bool { return s.changed }

// MarkSaved clears the Changed flag.
func (s *Spreadsheet) MarkSaved() { s.changed = false }

// Normalize returns the canonical form of a valid cell name.
func (s *Spreadsheet) Normalize(name string) (string, error) {
	return s.cellName(name)
}

// cellName validates name and returns its normalized form. A name must be a
// variable both before and after normalization, and the normalized form must
// pass the validator.
func (s *Spreadsheet) cellName(name string) (string, error) {
	if !formula.IsVariable(name) {
		return "", errors.New(errors.ErrCodeInvalidName, "invalid cell name %q", name)
	}
	n := s.normalize(name)
	if !formula.IsVariable(n) || !s.validate(n) {
		return "", errors.New(errors.ErrCodeInvalidName, "invalid cell name %q", name)
	}
	return n, nil
}

// CellContents returns the contents of the named cell. Empty cells return
// contents of KindEmpty.
func (s *Spreadsheet) CellContents(name string) (Contents, error) {
	n, err := s.cellName(name)
	if err != nil {
		return Contents{}, err
	}
	if c, ok := s.cells[n]; ok {
		return c.contents, nil
	}
	return Contents{}, nil
}

// CellValue returns the value of the named cell. Empty cells return a value
// of KindEmpty.
func (s *Spreadsheet) CellValue(name string) (Value, error) {
	n, err := s.cellName(name)
	if err != nil {
		return Value{}, err
	}
	if c, ok := s.cells[n]; ok {
		return c.value, nil
	}
	return Value{}, nil
}

// NonemptyCells returns the normalized names of all cells with contents,
// sorted.
func (s *Spreadsheet) NonemptyCells() []string {
	return slices.Sorted(maps.Keys(s.cells))
}

// Dependees returns the cells the named cell's formula reads.
func (s *Spreadsheet) Dependees(name string) ([]string, error) {
	n, err := s.cellName(name)
	if err != nil {
		return nil, err
	}
	return s.graph.Dependees(n), nil
}

// Dependents returns the cells whose formulas read the named cell.
func (s *Spreadsheet) Dependents(name string) ([]string, error) {
	n, err := s.cellName(name)
	if err != nil {
		return nil, err
	}
	return s.graph.Dependents(n), nil
}

// SetContentsOfCell sets the named cell from text.
//
// A text that parses as a number sets a number, a text starting with "=" sets
// the formula that follows, the empty string clears the cell and anything else
// is stored as text. On success SetContentsOfCell returns the normalized name
// followed by every cell that transitively depends on it, in the order their
// values were recomputed.
//
// Errors are *errors.Error values with code ErrCodeInvalidName,
// ErrCodeInvalidFormula or ErrCodeCircular. The sheet is unchanged after any
// error.
func (s *Spreadsheet) SetContentsOfCell(name, text string) ([]string, error) {
	start := time.Now()
	order, err := s.set(name, text)
	observability.Sheet().OnSetContents(name, len(order), time.Since(start), err)
	return order, err
}

func (s *Spreadsheet) set(name, text string) ([]string, error) {
	n, err := s.cellName(name)
	if err != nil {
		return nil, err
	}
	contents, err := s.classify(text)
	if err != nil {
		return nil, err
	}

	var deps []string
	if contents.Kind == KindFormula {
		deps = contents.Formula.Variables()
	}

	txn := s.rewire(n, deps)
	order, err := s.graph.Affected(n)
	if err != nil {
		txn.rollback()
		return nil, errors.Wrap(errors.ErrCodeCircular, err, "setting %s would create a circular dependency", n)
	}

	s.commit(n, contents)
	for _, dep := range order[1:] {
		s.recalculate(dep)
	}
	s.changed = true
	return order, nil
}

// classify turns the text of an edit into contents.
func (s *Spreadsheet) classify(text string) (Contents, error) {
	if text == "" {
		return Contents{}, nil
	}
	if v, ok := parseNumber(text); ok {
		return Contents{Kind: KindNumber, Number: v}, nil
	}
	if rest, ok := strings.CutPrefix(text, "="); ok {
		f, err := formula.Parse(rest, s.normalize, s.validate)
		if err != nil {
			return Contents{}, err
		}
		return Contents{Kind: KindFormula, Formula: f}, nil
	}
	return Contents{Kind: KindText, Text: text}, nil
}

// edgeTxn holds the dependee set a cell had before an edit rewired it.
type edgeTxn struct {
	graph *depgraph.Graph
	name  string
	prior []string
}

// rewire replaces the dependees of name and returns a transaction that can
// restore them.
func (s *Spreadsheet) rewire(name string, dependees []string) edgeTxn {
	txn := edgeTxn{graph: s.graph, name: name, prior: s.graph.Dependees(name)}
	s.graph.ReplaceDependees(name, dependees)
	return txn
}

func (t edgeTxn) rollback() {
	t.graph.ReplaceDependees(t.name, t.prior)
}

func (s *Spreadsheet) commit(name string, contents Contents) {
	switch contents.Kind {
	case KindEmpty:
		delete(s.cells, name)
	case KindNumber:
		s.cells[name] = &cell{contents: contents, value: Value{Kind: KindNumber, Number: contents.Number}}
	case KindText:
		s.cells[name] = &cell{contents: contents, value: Value{Kind: KindText, Text: contents.Text}}
	case KindFormula:
		s.cells[name] = &cell{contents: contents, value: resultValue(contents.Formula.Evaluate(s.lookup))}
	}
}

// recalculate re-evaluates the formula stored in name. Cells reached through
// the graph always hold formulas, since only formulas have dependees.
func (s *Spreadsheet) recalculate(name string) {
	c, ok := s.cells[name]
	if !ok || c.contents.Kind != KindFormula {
		return
	}
	c.value = resultValue(c.contents.Formula.Evaluate(s.lookup))
}

func (s *Spreadsheet) lookup(name string) (float64, error) {
	c, ok := s.cells[name]
	if !ok {
		return 0, ErrEmptyCell
	}
	if c.value.Kind != KindNumber {
		return 0, ErrNotNumeric
	}
	return c.value.Number, nil
}
