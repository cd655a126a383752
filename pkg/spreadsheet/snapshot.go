package spreadsheet

import (
	"strconv"
	"time"

	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/observability"
)

// CellEntry is one non-empty cell in a snapshot.
type CellEntry struct {
	Name       string
	StringForm string
}

// Snapshot is the persisted state of a sheet.
type Snapshot struct {
	Version string
	Cells   []CellEntry
}

// Snapshot returns the sheet's version and every non-empty cell with its
// string form, sorted by name.
func (s *Spreadsheet) Snapshot() Snapshot {
	names := s.NonemptyCells()
	snap := Snapshot{Version: s.version, Cells: make([]CellEntry, 0, len(names))}
	for _, name := range names {
		snap.Cells = append(snap.Cells, CellEntry{Name: name, StringForm: s.cells[name].contents.String()})
	}
	return snap
}

// FromSnapshot builds a sheet by replaying each entry of snap, in order,
// through SetContentsOfCell. The sheet's version (opts.Version, or
// DefaultVersion) must equal snap.Version.
//
// Every failure is an *errors.Error with code ErrCodeReadWrite. When a replayed
// entry fails, its error is kept as the cause, so errors.Has reports whether
// the snapshot held an invalid name, an invalid formula or a cycle.
//
// The returned sheet is not marked as changed.
func FromSnapshot(snap Snapshot, opts Options) (*Spreadsheet, error) {
	start := time.Now()
	s, err := replay(snap, opts)
	observability.Sheet().OnLoad(snap.Version, len(snap.Cells), time.Since(start), err)
	return s, err
}

func replay(snap Snapshot, opts Options) (*Spreadsheet, error) {
	s := New(opts)
	if snap.Version != s.version {
		return nil, errors.New(errors.ErrCodeReadWrite,
			"version mismatch: file has %q, expected %q", snap.Version, s.version)
	}
	for _, entry := range snap.Cells {
		if _, err := s.SetContentsOfCell(entry.Name, entry.StringForm); err != nil {
			return nil, errors.Wrap(errors.ErrCodeReadWrite, err, "%s", replayFailure(entry.Name, err))
		}
	}
	s.changed = false
	return s, nil
}

// replayFailure describes why a snapshot entry could not be replayed.
func replayFailure(name string, err error) string {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidName:
		return "file contains an invalid cell name " + strconv.Quote(name)
	case errors.ErrCodeInvalidFormula:
		return "file contains an invalid formula in cell " + name
	case errors.ErrCodeCircular:
		return "file contains a circular dependency at cell " + name
	}
	return "cannot load cell " + name
}
