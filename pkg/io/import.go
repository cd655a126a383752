package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

// orderedCells decodes the Cells object keeping the order of its members.
type orderedCells []spreadsheet.CellEntry

func (c *orderedCells) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New(errors.ErrCodeInvalidFormat, "Cells must be an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string) // object keys are always strings
		var form struct {
			StringForm *string
		}
		if err := dec.Decode(&form); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "cell %s", name)
		}
		if form.StringForm == nil {
			return errors.New(errors.ErrCodeInvalidFormat, "cell %s has no StringForm", name)
		}
		*c = append(*c, spreadsheet.CellEntry{Name: name, StringForm: *form.StringForm})
	}
	_, err = dec.Token()
	return err
}

// ReadSnapshot decodes a sheet file from r without replaying it. Cells are
// returned in the order they appear in the input.
//
// ReadSnapshot returns an error with code ErrCodeReadWrite if the JSON is
// malformed, if Cells or Version is missing, or if a cell has no StringForm.
// It does not close r.
func ReadSnapshot(r io.Reader) (spreadsheet.Snapshot, error) {
	var data struct {
		Cells   *orderedCells
		Version *string
	}
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return spreadsheet.Snapshot{}, errors.Wrap(errors.ErrCodeReadWrite, err, "decode sheet")
	}
	if data.Version == nil {
		return spreadsheet.Snapshot{}, errors.New(errors.ErrCodeReadWrite, "decode sheet: missing Version")
	}
	if data.Cells == nil {
		return spreadsheet.Snapshot{}, errors.New(errors.ErrCodeReadWrite, "decode sheet: missing Cells")
	}
	return spreadsheet.Snapshot{Version: *data.Version, Cells: *data.Cells}, nil
}

// ReadJSON decodes a sheet file from r and replays it into a new sheet built
// with opts. See [spreadsheet.FromSnapshot] for replay semantics.
//
// Every error has code ErrCodeReadWrite. ReadJSON does not close r.
func ReadJSON(r io.Reader, opts spreadsheet.Options) (*spreadsheet.Spreadsheet, error) {
	snap, err := ReadSnapshot(r)
	if err != nil {
		return nil, err
	}
	return spreadsheet.FromSnapshot(snap, opts)
}

// ImportJSON reads the sheet file at path. It returns the same errors as
// [ReadJSON], plus a READ_WRITE error wrapping the failure to open path.
func ImportJSON(path string, opts spreadsheet.Options) (*spreadsheet.Spreadsheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadWrite, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f, opts)
}
