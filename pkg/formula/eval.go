package formula

import "fmt"

// Lookup resolves a normalized variable name to its numeric value. A non-nil
// error stops evaluation and becomes the reason of the resulting Error.
type Lookup func(name string) (float64, error)

// Error is the value of a formula that could not be evaluated.
type Error struct {
	Reason string
}

// String returns the reason.
func (e Error) String() string { return e.Reason }

// Result is the outcome of Evaluate: a number, or an Error when Err is set.
type Result struct {
	Value float64
	Err   *Error
}

// IsError reports whether evaluation failed.
func (r Result) IsError() bool { return r.Err != nil }

func failed(format string, args ...any) Result {
	return Result{Err: &Error{Reason: fmt.Sprintf(format, args...)}}
}

// evaluator holds the operand and operator stacks of one evaluation.
type evaluator struct {
	values []float64
	ops    []string
}

func (e *evaluator) push(v float64) { e.values = append(e.values, v) }

func (e *evaluator) topOp() string {
	if len(e.ops) == 0 {
		return ""
	}
	return e.ops[len(e.ops)-1]
}

func (e *evaluator) popOp() string {
	op := e.ops[len(e.ops)-1]
	e.ops = e.ops[:len(e.ops)-1]
	return op
}

// reduce pops the top operator and two operands and pushes the result.
// It returns false on division by zero.
func (e *evaluator) reduce() bool {
	op := e.popOp()
	n := len(e.values)
	a, b := e.values[n-2], e.values[n-1]
	e.values = e.values[:n-2]

	var v float64
	switch op {
	case "+":
		v = a + b
	case "-":
		v = a - b
	case "*":
		v = a * b
	case "/":
		if b == 0 {
			return false
		}
		v = a / b
	}
	e.push(v)
	return true
}

// operand pushes v, first applying a pending * or /.
func (e *evaluator) operand(v float64) bool {
	e.push(v)
	if op := e.topOp(); op == "*" || op == "/" {
		return e.reduce()
	}
	return true
}

// Evaluate computes the value of f. Variables are resolved through lookup; a
// nil lookup fails on the first variable.
//
// Evaluate never panics and never returns a Go error: division by zero and
// lookup failures are reported as a Result holding an Error.
func (f *Formula) Evaluate(lookup Lookup) Result {
	const divZero = "division by zero"

	e := &evaluator{
		values: make([]float64, 0, len(f.tokens)),
		ops:    make([]string, 0, len(f.tokens)),
	}
	for _, t := range f.tokens {
		switch t.kind {
		case kindNumber:
			if !e.operand(t.num) {
				return failed(divZero)
			}
		case kindVariable:
			if lookup == nil {
				return failed("unknown variable %s", t.text)
			}
			v, err := lookup(t.text)
			if err != nil {
				return failed("cannot look up %s: %v", t.text, err)
			}
			if !e.operand(v) {
				return failed(divZero)
			}
		case kindOperator:
			if (t.text == "+" || t.text == "-") && (e.topOp() == "+" || e.topOp() == "-") {
				e.reduce()
			}
			e.ops = append(e.ops, t.text)
		case kindLParen:
			e.ops = append(e.ops, "(")
		case kindRParen:
			if op := e.topOp(); op == "+" || op == "-" {
				e.reduce()
			}
			e.popOp() // "("
			if op := e.topOp(); op == "*" || op == "/" {
				if !e.reduce() {
					return failed(divZero)
				}
			}
		}
	}

	if len(e.ops) > 0 {
		e.reduce()
	}
	return Result{Value: e.values[0]}
}
