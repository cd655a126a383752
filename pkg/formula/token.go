package formula

import (
	"math"
	"regexp"
	"strconv"

	"github.com/matzehuels/cellgraph/pkg/errors"
)

type kind uint8

const (
	kindNumber kind = iota
	kindVariable
	kindOperator
	kindLParen
	kindRParen
)

// token is a number or a string (operator, parenthesis or normalized variable).
type token struct {
	kind kind
	num  float64
	text string
}

func (t token) String() string {
	if t.kind == kindNumber {
		return FormatNumber(t.num)
	}
	return t.text
}

// operand reports whether t produces a value: a number, a variable or ")".
func (t token) operand() bool {
	return t.kind == kindNumber || t.kind == kindVariable || t.kind == kindRParen
}

var (
	tokenPattern = regexp.MustCompile(`^(?:(\()|(\))|([+\-*/])|([a-zA-Z_][a-zA-Z0-9_]*)|((?:\d+\.\d*|\d*\.\d+|\d+)(?:[eE][+\-]?\d+)?))`)
	// Whitespace includes \v, U+0085 and the Unicode separators, not only
	// the ASCII set matched by \s.
	spacePattern = regexp.MustCompile(`^[\s\v\x{85}\p{Z}]+`)
	varPattern   = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// IsVariable reports whether s is a syntactically valid variable name: a
// letter or underscore followed by letters, digits or underscores.
func IsVariable(s string) bool {
	return varPattern.MatchString(s)
}

// lexeme is a raw token as it appears in the input.
type lexeme struct {
	text string
	kind kind
}

// scan splits text into lexemes. A run of characters that starts no valid
// token is reported as an illegal token.
func scan(text string) ([]lexeme, error) {
	var out []lexeme
	for i := 0; i < len(text); {
		if m := spacePattern.FindStringIndex(text[i:]); m != nil {
			i += m[1]
			continue
		}
		m := tokenPattern.FindStringSubmatchIndex(text[i:])
		if m == nil {
			j := i + 1
			for j < len(text) && !tokenPattern.MatchString(text[j:]) && !spacePattern.MatchString(text[j:]) {
				j++
			}
			return nil, errors.New(errors.ErrCodeInvalidFormula, "illegal token %q", text[i:j])
		}
		var k kind
		switch {
		case m[2] >= 0:
			k = kindLParen
		case m[4] >= 0:
			k = kindRParen
		case m[6] >= 0:
			k = kindOperator
		case m[8] >= 0:
			k = kindVariable
		default:
			k = kindNumber
		}
		out = append(out, lexeme{text: text[i : i+m[1]], kind: k})
		i += m[1]
	}
	return out, nil
}

// parseNumber converts a numeric literal. lit always matches the number
// pattern, so the only possible failure is a range error: underflow rounds
// to zero and overflow is rejected.
func parseNumber(lit string) (float64, error) {
	v, _ := strconv.ParseFloat(lit, 64)
	if math.IsInf(v, 0) {
		return 0, errors.New(errors.ErrCodeInvalidFormula, "number %s is out of range", lit)
	}
	return v, nil
}
