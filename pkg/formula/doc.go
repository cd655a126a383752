// Package formula parses and evaluates infix arithmetic formulas over numbers
// and variable names.
//
// # Grammar
//
// A formula is a sequence of tokens separated by optional whitespace (ASCII
// whitespace, U+0085 and the Unicode space separators):
//
//	(  )  +  -  *  /
//	variables   [a-zA-Z_][a-zA-Z0-9_]*
//	numbers     (\d+\.\d*|\d*\.\d+|\d+)([eE][+-]?\d+)?
//
// There is no unary minus. [Parse] rejects anything else, and checks the
// token sequence against these rules, in this order:
//
//  1. at least one token
//  2. parentheses balance, and never close more than are open
//  3. the first token is a number, a variable or "("
//  4. the last token is a number, a variable or ")"
//  5. an operator or "(" is followed by a number, a variable or "("
//  6. a number, a variable or ")" is followed by an operator or ")"
//
// Each failure is an [errors.Error] with code [errors.ErrCodeInvalidFormula]
// and a message naming the rule and the offending tokens.
//
// # Names
//
// Parse receives a [Normalizer] and a [Validator]. Every variable is
// normalized first; the normalized name must still be a variable and must be
// accepted by the validator. Formulas store and report normalized names only:
//
//	f, _ := formula.Parse("a1 + b2", strings.ToUpper, nil)
//	f.Variables() // [A1 B2]
//	f.String()    // "A1+B2"
//
// # Evaluation
//
// [Formula.Evaluate] resolves variables through a [Lookup] and returns a
// [Result]. Evaluation failures (division by zero, a failed lookup) are
// values, not Go errors, so a formula cell can hold an error as its value:
//
//	r := formula.MustParse("1/0").Evaluate(nil)
//	r.IsError()   // true
//	r.Err.Reason  // "division by zero"
//
// Formulas are immutable and safe for concurrent use once parsed.
package formula
