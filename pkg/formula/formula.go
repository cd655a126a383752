package formula

import (
	"hash/fnv"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/cellgraph/pkg/errors"
)

// Normalizer maps a variable name to its canonical form. A nil Normalizer
// leaves names unchanged.
type Normalizer func(string) string

// Validator restricts which normalized names are acceptable. A nil Validator
// accepts every syntactically valid name.
type Validator func(string) bool

// Formula is a parsed, validated infix expression.
//
// The zero value is not usable - use Parse.
type Formula struct {
	tokens []token
}

// Parse tokenizes text, normalizes and validates its variables, and checks the
// token sequence against the formula grammar. Every failure is returned as an
// *errors.Error with code ErrCodeInvalidFormula.
func Parse(text string, normalize Normalizer, validate Validator) (*Formula, error) {
	lexemes, err := scan(text)
	if err != nil {
		return nil, err
	}

	tokens := make([]token, 0, len(lexemes))
	for _, lx := range lexemes {
		switch lx.kind {
		case kindNumber:
			v, err := parseNumber(lx.text)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: kindNumber, num: v})
		case kindVariable:
			name := lx.text
			if normalize != nil {
				name = normalize(name)
			}
			if !IsVariable(name) {
				return nil, errors.New(errors.ErrCodeInvalidFormula,
					"variable %q normalizes to %q, which is not a valid variable", lx.text, name)
			}
			if validate != nil && !validate(name) {
				return nil, errors.New(errors.ErrCodeInvalidFormula, "variable %q is not a valid name", name)
			}
			tokens = append(tokens, token{kind: kindVariable, text: name})
		default:
			tokens = append(tokens, token{kind: lx.kind, text: lx.text})
		}
	}

	if err := checkStructure(tokens); err != nil {
		return nil, err
	}
	return &Formula{tokens: tokens}, nil
}

// MustParse is like Parse with no normalizer or validator, but panics on error.
func MustParse(text string) *Formula {
	f, err := Parse(text, nil, nil)
	if err != nil {
		panic(err)
	}
	return f
}

func checkStructure(tokens []token) error {
	if len(tokens) == 0 {
		return errors.New(errors.ErrCodeInvalidFormula, "formula must contain at least one token")
	}

	depth := 0
	for i, t := range tokens {
		switch t.kind {
		case kindLParen:
			depth++
		case kindRParen:
			depth--
			if depth < 0 {
				return errors.New(errors.ErrCodeInvalidFormula,
					"unbalanced parentheses: token %d closes a parenthesis that was never opened", i+1)
			}
		}
	}
	if depth > 0 {
		return errors.New(errors.ErrCodeInvalidFormula, "unbalanced parentheses: %d left unclosed", depth)
	}

	if first := tokens[0]; first.kind == kindRParen || first.kind == kindOperator {
		return errors.New(errors.ErrCodeInvalidFormula,
			"formula must start with a number, a variable or '(', not %q", first.text)
	}
	if last := tokens[len(tokens)-1]; last.kind == kindLParen || last.kind == kindOperator {
		return errors.New(errors.ErrCodeInvalidFormula,
			"formula must end with a number, a variable or ')', not %q", last.text)
	}

	for i := 0; i+1 < len(tokens); i++ {
		cur, next := tokens[i], tokens[i+1]
		if !cur.operand() && (next.kind == kindOperator || next.kind == kindRParen) {
			return errors.New(errors.ErrCodeInvalidFormula,
				"%q must be followed by a number, a variable or '(', not %q", cur.String(), next.String())
		}
	}
	for i := 0; i+1 < len(tokens); i++ {
		cur, next := tokens[i], tokens[i+1]
		if cur.operand() && next.kind != kindOperator && next.kind != kindRParen {
			return errors.New(errors.ErrCodeInvalidFormula,
				"%q must be followed by an operator or ')', not %q", cur.String(), next.String())
		}
	}
	return nil
}

// Variables returns the distinct normalized variable names in f, sorted.
func (f *Formula) Variables() []string {
	var vars []string
	for _, t := range f.tokens {
		if t.kind == kindVariable {
			vars = append(vars, t.text)
		}
	}
	slices.Sort(vars)
	return slices.Compact(vars)
}

// String returns the tokens of f concatenated without whitespace. Parsing the
// result with no normalizer or validator produces a formula equal to f.
func (f *Formula) String() string {
	var b strings.Builder
	for _, t := range f.tokens {
		b.WriteString(t.String())
	}
	return b.String()
}

// Equal reports whether f and other have the same tokens. Numbers compare by
// value, so "1e1" equals "10".
func (f *Formula) Equal(other *Formula) bool {
	if f == nil || other == nil {
		return f == other
	}
	return slices.EqualFunc(f.tokens, other.tokens, func(a, b token) bool {
		if a.kind != b.kind {
			return false
		}
		if a.kind == kindNumber {
			return a.num == b.num
		}
		return a.text == b.text
	})
}

// Hash returns a hash consistent with Equal.
func (f *Formula) Hash() uint64 {
	var sum uint64
	for _, t := range f.tokens {
		if t.kind == kindNumber {
			v := t.num
			if v == 0 {
				v = 0 // -0 == 0 under Equal
			}
			sum += math.Float64bits(v)
			continue
		}
		h := fnv.New64a()
		h.Write([]byte(t.text))
		sum += h.Sum64()
	}
	return sum
}

// FormatNumber renders v as the shortest string that parses back to v. Values
// with magnitude in [1e-5, 1e15) use fixed notation, others use E notation.
func FormatNumber(v float64) string {
	if a := math.Abs(v); a == 0 || (a >= 1e-5 && a < 1e15) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'E', -1, 64)
}
