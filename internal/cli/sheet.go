package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgraph/pkg/errors"
	pkgio "github.com/matzehuels/cellgraph/pkg/io"
	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

// =============================================================================
// set
// =============================================================================

// setCommand creates the set command for editing cells of a sheet file.
func (c *CLI) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set FILE CELL=TEXT...",
		Short: "Set cell contents and save the sheet",
		Long: `Set the contents of one or more cells.

Assignments are applied in order. TEXT is a number, a formula starting with
'=', plain text, or empty to clear the cell. The file is created if it does not
exist. If any assignment fails, nothing is saved.`,
		Example: `  cellgraph set budget.json A1=1200 A2=800 "A3==A1-A2"
  cellgraph set budget.json A2=`,
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: c.completeSheetArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSet(args[0], args[1:])
		},
	}
}

func (c *CLI) runSet(path string, assignments []string) error {
	s, err := c.openSheet(path, true)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	total := 0
	for _, a := range assignments {
		name, text, err := parseAssignment(a)
		if err != nil {
			return err
		}
		affected, err := s.SetContentsOfCell(name, text)
		if err != nil {
			return err
		}
		total += len(affected)

		contents, _ := s.CellContents(affected[0])
		if contents.Kind == spreadsheet.KindEmpty {
			printSuccess("Cleared %s", StyleHighlight.Render(affected[0]))
		} else {
			printSuccess("%s %s %s", StyleHighlight.Render(affected[0]), StyleDim.Render("="), contents)
		}
		if len(affected) > 1 {
			printDetail("recalculated %s", strings.Join(affected[1:], ", "))
		}
	}

	if err := pkgio.ExportJSON(s, path); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Applied %d edits, %d cells recalculated", len(assignments), total))
	printFile(path)
	printNextStep("Show the sheet", "cellgraph show "+path)
	return nil
}

// =============================================================================
// get
// =============================================================================

// getCommand creates the get command for printing cells.
func (c *CLI) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "get FILE CELL...",
		Short:             "Print the contents and value of cells",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: c.completeSheetArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSheet(args[0], false)
			if err != nil {
				return err
			}
			for _, name := range args[1:] {
				if err := printCell(s, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printCell(s spreadsheet.Sheet, name string) error {
	contents, err := s.CellContents(name)
	if err != nil {
		return err
	}
	value, _ := s.CellValue(name)
	printKeyValue(name, renderValue(value))
	if contents.Kind == spreadsheet.KindFormula {
		printDetail("%s", contents)
	}
	return nil
}

// =============================================================================
// show
// =============================================================================

// showCommand creates the show command for printing a whole sheet.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print every non-empty cell as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSheet(args[0], false)
			if err != nil {
				return err
			}
			names := s.NonemptyCells()
			if len(names) == 0 {
				printInfo("Sheet is empty")
				return nil
			}
			fmt.Println(sheetTable(s, names))
			printDetail("%d cells · version %s", len(names), s.Version())
			return nil
		},
	}
}

// sheetTable renders the named cells with their contents, values and
// dependees.
func sheetTable(s *spreadsheet.Spreadsheet, names []string) string {
	rows := make([][]string, 0, len(names))
	errRows := make(map[int]bool)
	for i, name := range names {
		contents, _ := s.CellContents(name)
		value, _ := s.CellValue(name)
		deps, _ := s.Dependees(name)
		if value.IsError() {
			errRows[i] = true
		}
		rows = append(rows, []string{name, contents.String(), value.String(), strings.Join(deps, " ")})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Cell", "Contents", "Value", "Depends on").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return cellStyle.Foreground(colorCyan)
			case col == 2 && errRows[row]:
				return cellStyle.Foreground(colorRed)
			case col == 3:
				return cellStyle.Foreground(colorDim)
			}
			return cellStyle
		}).
		Render()
}

// =============================================================================
// check
// =============================================================================

// checkCommand creates the check command for validating a sheet file.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Load a sheet and report whether it is valid",
		Long: `Load a sheet file and report the class of the first failure.

Failure classes are INVALID_NAME, INVALID_FORMULA, CIRCULAR_DEPENDENCY and
READ_WRITE. A valid sheet is summarized, with a warning for every cell whose
formula evaluates to an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(args[0])
		},
	}
}

func (c *CLI) runCheck(path string) error {
	s, err := c.openSheet(path, false)
	if err != nil {
		class := errors.RootCode(err)
		if class == "" {
			class = errors.ErrCodeReadWrite
		}
		printError("%s", errors.UserMessage(err))
		return errors.Wrap(class, err, "%s is not a valid sheet", path)
	}

	names := s.NonemptyCells()
	kinds := make(map[spreadsheet.Kind]int)
	var failing []string
	for _, name := range names {
		contents, _ := s.CellContents(name)
		kinds[contents.Kind]++
		if v, _ := s.CellValue(name); v.IsError() {
			failing = append(failing, name)
		}
	}

	printSuccess("%s is a valid sheet", path)
	printDetail("%d numbers · %d text · %d formulas", kinds[spreadsheet.KindNumber], kinds[spreadsheet.KindText], kinds[spreadsheet.KindFormula])
	for _, name := range failing {
		v, _ := s.CellValue(name)
		printWarning("%s: %s", name, v.Err.Reason)
	}
	return nil
}
