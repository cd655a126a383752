package cli

import (
	"regexp"

	"github.com/matzehuels/cellgraph/pkg/errors"
)

// assignmentRegex matches a CELL=TEXT argument. TEXT may be empty or start
// with '=' itself.
var assignmentRegex = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=(.*)$`)

// parseAssignment splits a "CELL=TEXT" argument of set, eval --var and the
// editor input line. The text keeps everything after the first '=', so
// "A1==B1+1" assigns the formula "=B1+1" to A1.
func parseAssignment(arg string) (name, text string, err error) {
	m := assignmentRegex.FindStringSubmatch(arg)
	if m == nil {
		return "", "", errors.New(errors.ErrCodeInvalidInput, "expected CELL=TEXT, got %q", arg)
	}
	return m[1], m[2], nil
}
