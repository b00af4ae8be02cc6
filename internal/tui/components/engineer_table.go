package components

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pulseboard/internal/domain"
	"pulseboard/internal/tui/styles"
)

// EngineerTable lists engineers with their current allocation load.
type EngineerTable struct {
	table     table.Model
	engineers []domain.Engineer
}

func NewEngineerTable() EngineerTable {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Role", Width: 18},
		{Title: "Email", Width: 28},
		{Title: "Load", Width: 6},
		{Title: "Status", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles())

	return EngineerTable{table: t}
}

// SetData replaces the rows. loads maps engineer ID to current allocation
// percent summed across overlapping assignments.
func (e *EngineerTable) SetData(engineers []domain.Engineer, loads map[string]int) {
	e.engineers = engineers

	rows := make([]table.Row, len(engineers))
	for i, eng := range engineers {
		status := "active"
		if !eng.Active {
			status = "inactive"
		}
		rows[i] = table.Row{
			eng.Name,
			eng.Role,
			eng.Email,
			formatLoad(loads[eng.ID]),
			status,
		}
	}
	e.table.SetRows(rows)
}

// Selected returns the engineer under the cursor, if any.
func (e *EngineerTable) Selected() *domain.Engineer {
	idx := e.table.Cursor()
	if idx < 0 || idx >= len(e.engineers) {
		return nil
	}
	return &e.engineers[idx]
}

func (e *EngineerTable) SetSize(width, height int) {
	e.table.SetWidth(width)
	e.table.SetHeight(height)
}

func (e *EngineerTable) SetCursor(idx int) {
	e.table.SetCursor(idx)
}

func (e EngineerTable) Update(msg tea.Msg) (EngineerTable, tea.Cmd) {
	var cmd tea.Cmd
	e.table, cmd = e.table.Update(msg)
	return e, cmd
}

func (e EngineerTable) View() string {
	return e.table.View()
}

func formatLoad(load int) string {
	if load == 0 {
		return "-"
	}
	return strconv.Itoa(load) + "%"
}

// tableStyles returns the shared table look.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.DimGray).
		BorderBottom(true).
		Foreground(styles.LightGray).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.White).
		Background(styles.SlateLight).
		Bold(false)
	return s
}
