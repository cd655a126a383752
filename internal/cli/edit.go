package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/history"
	pkgio "github.com/matzehuels/cellgraph/pkg/io"
	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

// Editor styles
var (
	editorSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editorDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editorErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	editorPromptStyle   = lipgloss.NewStyle().Foreground(colorBlue)
)

// editCommand creates the edit command for the interactive sheet editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit a sheet interactively",
		Long: `Open a sheet in an interactive terminal editor.

Type NAME=TEXT and press enter to set a cell. Enter on an empty line loads the
selected cell into the input line.

  ↑/↓      select a cell
  ctrl+z   undo
  ctrl+y   redo
  ctrl+s   save
  esc      clear the input, or quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSheet(args[0], true)
			if err != nil {
				return err
			}
			m := NewEditorModel(s, args[0])
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if em, ok := final.(EditorModel); ok && em.Sheet.Changed() {
				printWarning("Quit with unsaved changes")
			}
			return nil
		},
	}
}

// =============================================================================
// EditorModel - Interactive sheet editor
// =============================================================================

// EditorModel is the bubbletea model for the sheet editor.
type EditorModel struct {
	Sheet   *spreadsheet.Spreadsheet
	History *history.History
	Path    string

	Cells  []string
	Cursor int
	Offset int
	Height int
	Input  string
	Status string
	Err    string
}

// NewEditorModel creates an editor for s, saving to path.
func NewEditorModel(s *spreadsheet.Spreadsheet, path string) EditorModel {
	return EditorModel{
		Sheet:   s,
		History: history.New(),
		Path:    path,
		Cells:   s.NonemptyCells(),
		Height:  15,
	}
}

func (m EditorModel) Init() tea.Cmd {
	return nil
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Input == "" {
				return m, tea.Quit
			}
			m.Input = ""
		case "up":
			if m.Cursor > 0 {
				m.Cursor--
			}
			m.scroll()
		case "down":
			if m.Cursor < len(m.Cells)-1 {
				m.Cursor++
			}
			m.scroll()
		case "backspace":
			if r := []rune(m.Input); len(r) > 0 {
				m.Input = string(r[:len(r)-1])
			}
		case "enter":
			m.submit()
		case "ctrl+z":
			m.apply("Undid", m.History.Undo)
		case "ctrl+y":
			m.apply("Redid", m.History.Redo)
		case "ctrl+s":
			m.save()
		default:
			if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
				m.Input += string(msg.Runes)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

// submit applies the input line, or loads the selected cell into it when
// the line is empty.
func (m *EditorModel) submit() {
	if strings.TrimSpace(m.Input) == "" {
		if len(m.Cells) == 0 {
			return
		}
		name := m.Cells[m.Cursor]
		contents, _ := m.Sheet.CellContents(name)
		m.Input = name + "=" + contents.String()
		return
	}

	name, text, err := parseAssignment(m.Input)
	if err != nil {
		m.fail(err)
		return
	}
	affected, err := m.History.Edit(m.Sheet, name, text)
	if err != nil {
		m.fail(err)
		return
	}
	m.Input = ""
	m.refresh(affected[0])
	m.report("Set", affected)
}

func (m *EditorModel) apply(verb string, op func(spreadsheet.Sheet) ([]string, error)) {
	affected, err := op(m.Sheet)
	if err != nil {
		m.fail(err)
		return
	}
	m.refresh(affected[0])
	m.report(verb, affected)
}

func (m *EditorModel) save() {
	if err := pkgio.ExportJSON(m.Sheet, m.Path); err != nil {
		m.fail(err)
		return
	}
	m.Err = ""
	m.Status = "Saved " + m.Path
}

func (m *EditorModel) fail(err error) {
	m.Status = ""
	m.Err = errors.UserMessage(err)
}

func (m *EditorModel) report(verb string, affected []string) {
	m.Err = ""
	m.Status = fmt.Sprintf("%s %s", verb, affected[0])
	if len(affected) > 1 {
		m.Status += fmt.Sprintf(" (recalculated %s)", strings.Join(affected[1:], ", "))
	}
}

// refresh reloads the cell list and moves the cursor to name, or to the
// nearest remaining cell when name was cleared.
func (m *EditorModel) refresh(name string) {
	m.Cells = m.Sheet.NonemptyCells()
	m.Cursor = min(sort.SearchStrings(m.Cells, name), max(len(m.Cells)-1, 0))
	m.scroll()
}

func (m *EditorModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m EditorModel) View() string {
	var b strings.Builder

	title := "cellgraph · " + m.Path
	if m.Sheet.Changed() {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render("↑/↓ select  ⏎ set/load  ctrl+z undo  ctrl+y redo  ctrl+s save  esc quit"))
	b.WriteString("\n\n")

	if len(m.Cells) == 0 {
		b.WriteString(editorDimStyle.Render("  (empty sheet)"))
		b.WriteString("\n")
	}
	end := min(m.Offset+m.Height, len(m.Cells))
	for i := m.Offset; i < end; i++ {
		name := m.Cells[i]
		contents, _ := m.Sheet.CellContents(name)
		value, _ := m.Sheet.CellValue(name)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		shown := value.String()
		if value.IsError() {
			shown = editorErrorStyle.Render(shown)
		}
		line := fmt.Sprintf("%s%-8s %-24s %s", cursor, name, contents, shown)
		if i == m.Cursor {
			b.WriteString(editorSelectedStyle.Render(line))
		} else {
			b.WriteString(editorNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(editorPromptStyle.Render("> "))
	b.WriteString(m.Input)
	b.WriteString("\n")
	switch {
	case m.Err != "":
		b.WriteString(editorErrorStyle.Render(iconError + " " + m.Err))
	case m.Status != "":
		b.WriteString(StyleSuccess.Render(iconSuccess + " " + m.Status))
	}
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render(fmt.Sprintf("  [%d cells · %d edits]", len(m.Cells), m.History.Len())))

	return b.String()
}
