package formula

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/cellgraph/pkg/errors"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"1", "1"},
		{"  2 + 3 ", "2+3"},
		{"x", "x"},
		{"_a1 * (b_2 - 3.5)", "_a1*(b_2-3.5)"},
		{"((1))", "((1))"},
		{"1e1", "10"},
		{"1.5e-3", "0.0015"},
		{".5+5.", "0.5+5"},
		{"2E+3", "2000"},
		{"1e20", "1E+20"},
		{"1e-7", "1E-07"},
		{"1e-400", "0"},
		{"a\t/\nb", "a/b"},
		{"x\u00a0+1", "x+1"},
		{"1\u2003*\u30002", "1*2"},
		{"a\v+\u0085b\u2028", "a+b"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f, err := Parse(tt.text, nil, nil)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.text, err)
			}
			if got := f.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		message string
	}{
		{"empty", "", "at least one token"},
		{"whitespace only", "   ", "at least one token"},
		{"illegal symbol", "1 + $", `illegal token "$"`},
		{"illegal run", "2 # 3", `illegal token "#"`},
		{"illegal unicode", "é1", "illegal token"},
		{"overflow", "1e400", "out of range"},
		{"unclosed", "(1+2", "1 left unclosed"},
		{"closes early", "1+2)(", "never opened"},
		{"starts with operator", "+1", "must start with"},
		{"starts with rparen", ")", "never opened"},
		{"ends with operator", "1+", "must end with"},
		{"ends with lparen", "1+(", "left unclosed"},
		{"empty parens", "()", `"(" must be followed by a number`},
		{"double operator", "1+*2", `"+" must be followed by a number`},
		{"operator before rparen", "(1+)", `"+" must be followed by a number`},
		{"adjacent numbers", "1 2", `"1" must be followed by an operator`},
		{"leading digit variable", "2x", `"2" must be followed by an operator`},
		{"number before lparen", "2(3)", `"2" must be followed by an operator`},
		{"rparen before variable", "(1)a", `")" must be followed by an operator`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text, nil, nil)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.text)
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormula) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidFormula)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not contain %q", err, tt.message)
			}
		})
	}
}

func TestParseNormalizeAndValidate(t *testing.T) {
	f, err := Parse("a1+b1*a1", strings.ToUpper, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := f.String(); got != "A1+B1*A1" {
		t.Errorf("String() = %q", got)
	}
	if got := f.Variables(); !reflect.DeepEqual(got, []string{"A1", "B1"}) {
		t.Errorf("Variables() = %v", got)
	}

	// Normalized name that is no longer a variable.
	_, err = Parse("x+1", func(string) string { return "1x" }, nil)
	if err == nil || !strings.Contains(err.Error(), "not a valid variable") {
		t.Errorf("bad normalization: err = %v", err)
	}

	// Validator rejection.
	onlyA := func(s string) bool { return strings.HasPrefix(s, "A") }
	_, err = Parse("a1+b1", strings.ToUpper, onlyA)
	if err == nil || !strings.Contains(err.Error(), `"B1"`) {
		t.Errorf("validator rejection: err = %v", err)
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormula) {
		t.Errorf("validator rejection code = %s", errors.GetCode(err))
	}
}

func TestParseValidatorNotConsultedForBadVariable(t *testing.T) {
	var seen []string
	lenient := func(s string) bool {
		seen = append(seen, s)
		return true
	}
	_, err := Parse("2x", nil, lenient)
	if !errors.Is(err, errors.ErrCodeInvalidFormula) {
		t.Fatalf("Parse(2x) err = %v, want format error", err)
	}
	for _, s := range seen {
		if s == "2x" {
			t.Error("validator was asked about 2x")
		}
	}
}

func TestVariables(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"1+2", nil},
		{"x", []string{"x"}},
		{"b+a+b*c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := MustParse(tt.text).Variables()
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("Variables() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	upper := func(s string) string { return strings.ToUpper(s) }
	for _, text := range []string{
		"a1 + 2.50*(b2 - 1e-9)",
		"x/0.1 - 123456789012345678",
		"((c3))",
		"0.000001 + 3e15",
	} {
		t.Run(text, func(t *testing.T) {
			f, err := Parse(text, upper, nil)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			g, err := Parse(f.String(), nil, nil)
			if err != nil {
				t.Fatalf("reparse %q: %v", f.String(), err)
			}
			if !f.Equal(g) {
				t.Errorf("%q reparsed as %q is not equal", f, g)
			}
			if f.Hash() != g.Hash() {
				t.Errorf("hash changed after round trip")
			}
		})
	}
}

func TestEqualAndHash(t *testing.T) {
	tests := []struct {
		a, b  string
		equal bool
	}{
		{"1e1", "10", true},
		{"x + 2", "x+2.0", true},
		{"0", "0.0e5", true},
		{"x+2", "2+x", false},
		{"x", "X", false},
		{"1+2", "1+2+0", false},
		{"(1)", "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			if got := a.Equal(b); got != tt.equal {
				t.Errorf("Equal = %v, want %v", got, tt.equal)
			}
			if b.Equal(a) != a.Equal(b) {
				t.Error("Equal is not symmetric")
			}
			if tt.equal && a.Hash() != b.Hash() {
				t.Errorf("equal formulas hash differently: %d != %d", a.Hash(), b.Hash())
			}
		})
	}

	var nilFormula *Formula
	if nilFormula.Equal(MustParse("1")) || !nilFormula.Equal(nil) {
		t.Error("nil formula equality is wrong")
	}
}

func TestHashNegativeZero(t *testing.T) {
	pos := &Formula{tokens: []token{{kind: kindNumber, num: 0}}}
	neg := &Formula{tokens: []token{{kind: kindNumber, num: negZero()}}}
	if !pos.Equal(neg) {
		t.Fatal("0 and -0 should be equal")
	}
	if pos.Hash() != neg.Hash() {
		t.Error("0 and -0 should hash alike")
	}
}

func negZero() float64 {
	z := 0.0
	return -z
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{1e-5, "0.00001"},
		{1e-6, "1E-06"},
		{123456789012345, "123456789012345"},
		{1e15, "1E+15"},
		{1.0 / 3, "0.3333333333333333"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.v); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestIsVariable(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"A1", true},
		{"_", true},
		{"a_b_9", true},
		{"1A", false},
		{"", false},
		{"A 1", false},
		{"A-1", false},
		{"é", false},
	}
	for _, tt := range tests {
		if got := IsVariable(tt.s); got != tt.want {
			t.Errorf("IsVariable(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse did not panic")
		}
	}()
	MustParse("1+")
}
