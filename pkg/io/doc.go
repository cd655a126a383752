// Package io provides JSON import and export for spreadsheets.
//
// # JSON Format
//
// A sheet file holds a version string and one object per non-empty cell. The
// object's only field is the cell's string form, the text that recreates the
// cell when typed:
//
//	{
//	  "Cells": {
//	    "A1": {"StringForm": "5"},
//	    "B1": {"StringForm": "=A1+2"},
//	    "C1": {"StringForm": "hello"}
//	  },
//	  "Version": "default"
//	}
//
// # Import
//
// Use [ImportJSON] to read a sheet from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	s, err := io.ImportJSON("budget.json", spreadsheet.Options{Normalize: strings.ToUpper})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Cells are replayed through SetContentsOfCell in the order they appear in
// the file, so a file written by hand may list a formula before the cells it
// reads. The file's Version must equal the version in the options.
//
// Every failure (I/O, malformed JSON, a version mismatch, or a cell that
// cannot be replayed) is an [errors.Error] with code
// [errors.ErrCodeReadWrite]. Replay failures keep the underlying error as the
// cause; use [errors.Has] to tell an invalid name from a cycle:
//
//	if errors.Has(err, errors.ErrCodeCircular) {
//	    // The file contains a circular reference
//	}
//
// # Export
//
// Use [ExportJSON] to write a sheet to a file, or [WriteJSON] to write to any
// io.Writer. Cells are written sorted by name. ExportJSON marks the sheet as
// saved once the file is written.
//
// # Concurrency
//
// Reading and writing only use a sheet's public operations and do not lock it.
// Callers sharing a sheet between goroutines must synchronize around them.
package io
