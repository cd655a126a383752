package spreadsheet

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/cellgraph/pkg/formula"
)

// Kind identifies what a cell holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindFormula // contents only
	KindError   // values only
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindFormula:
		return "formula"
	case KindError:
		return "error"
	}
	return "unknown"
}

// Contents is what a cell was set to.
type Contents struct {
	Kind    Kind
	Number  float64
	Text    string
	Formula *formula.Formula
}

// String returns the string form of c: the text that recreates it when
// passed to SetContentsOfCell.
func (c Contents) String() string {
	switch c.Kind {
	case KindNumber:
		return formula.FormatNumber(c.Number)
	case KindText:
		return c.Text
	case KindFormula:
		return "=" + c.Formula.String()
	}
	return ""
}

// Value is the computed value of a cell.
type Value struct {
	Kind   Kind
	Number float64
	Text   string
	Err    *formula.Error
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return formula.FormatNumber(v.Number)
	case KindText:
		return v.Text
	case KindError:
		return "#ERROR: " + v.Err.Reason
	}
	return ""
}

// IsError reports whether v is a formula error.
func (v Value) IsError() bool { return v.Kind == KindError }

func resultValue(r formula.Result) Value {
	if r.IsError() {
		return Value{Kind: KindError, Err: r.Err}
	}
	return Value{Kind: KindNumber, Number: r.Value}
}

// parseNumber reports whether text is a plain decimal number. Surrounding
// whitespace is allowed; NaN, infinities, hex floats and digit separators are
// text. Literals that underflow read as zero.
func parseNumber(text string) (float64, bool) {
	t := strings.TrimSpace(text)
	if t == "" || strings.ContainsAny(t, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

type cell struct {
	contents Contents
	value    Value
}
