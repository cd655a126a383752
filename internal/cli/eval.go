package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/formula"
)

// evalCommand creates the eval command for evaluating a single formula.
func (c *CLI) evalCommand() *cobra.Command {
	var vars []string

	cmd := &cobra.Command{
		Use:   "eval EXPR",
		Short: "Evaluate a formula",
		Long: `Evaluate a formula outside of any sheet.

Variables are given with --var NAME=VALUE and are normalized like cell names.
A leading '=' on the expression is optional.`,
		Example: `  cellgraph eval "(1 + 2) * 3"
  cellgraph eval "=a1 / b1" --var A1=10 --var B1=4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEval(args[0], vars)
		},
	}

	cmd.Flags().StringArrayVar(&vars, "var", nil, "variable assignment NAME=VALUE (repeatable)")

	return cmd
}

func (c *CLI) runEval(expr string, assignments []string) error {
	opts, err := c.Config.SheetOptions()
	if err != nil {
		return err
	}
	norm := opts.Normalize
	if norm == nil {
		norm = func(s string) string { return s }
	}

	values := make(map[string]float64, len(assignments))
	for _, a := range assignments {
		name, text, err := parseAssignment(a)
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "variable %s: %q is not a number", name, text)
		}
		values[norm(name)] = v
	}

	f, err := formula.Parse(strings.TrimPrefix(expr, "="), opts.Normalize, opts.Validate)
	if err != nil {
		return err
	}
	c.Logger.Debug("parsed formula", "formula", f.String(), "variables", f.Variables())

	result := f.Evaluate(func(name string) (float64, error) {
		v, ok := values[name]
		if !ok {
			return 0, fmt.Errorf("no value given")
		}
		return v, nil
	})
	if result.IsError() {
		return errors.New(errors.ErrCodeInvalidInput, "evaluate %s: %s", f, result.Err.Reason)
	}

	fmt.Println(formula.FormatNumber(result.Value))
	return nil
}
