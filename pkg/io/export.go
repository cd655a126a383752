package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

// Snapshotter is a sheet that can describe its persisted state.
type Snapshotter interface {
	Snapshot() spreadsheet.Snapshot
}

// Saver is a sheet that can also be marked as saved.
type Saver interface {
	Snapshotter
	MarkSaved()
}

type cellForm struct {
	StringForm string
}

type document struct {
	Cells   map[string]cellForm
	Version string
}

// WriteJSON encodes s as indented JSON and writes it to w.
// This format can be re-imported with [ReadJSON].
func WriteJSON(s Snapshotter, w io.Writer) error {
	snap := s.Snapshot()
	out := document{
		Cells:   make(map[string]cellForm, len(snap.Cells)),
		Version: snap.Version,
	}
	for _, c := range snap.Cells {
		out.Cells[c.Name] = cellForm{StringForm: c.StringForm}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeReadWrite, err, "encode sheet")
	}
	return nil
}

// ExportJSON writes s to a JSON file at path and marks it as saved.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(s Saver, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReadWrite, err, "create %s", path)
	}
	if err := WriteJSON(s, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeReadWrite, err, "close %s", path)
	}
	s.MarkSaved()
	return nil
}
