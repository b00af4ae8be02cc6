package components

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"pulseboard/internal/domain"
	"pulseboard/internal/tui/styles"
)

// ProjectTable lists projects with status, health and schedule window.
type ProjectTable struct {
	table    table.Model
	projects []domain.Project

	// ID of the project the backend is currently syncing, for the row glyph
	syncingID string
}

func NewProjectTable() ProjectTable {
	columns := []table.Column{
		{Title: " ", Width: 2},
		{Title: "Project", Width: 26},
		{Title: "Status", Width: 10},
		{Title: "Lead", Width: 18},
		{Title: "Window", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles())

	return ProjectTable{table: t}
}

func (p *ProjectTable) SetProjects(projects []domain.Project) {
	p.projects = projects
	p.rebuildRows()
}

// SetSyncing marks which project's jobs the backend is running. Empty
// clears the glyph.
func (p *ProjectTable) SetSyncing(projectID string) {
	if p.syncingID == projectID {
		return
	}
	p.syncingID = projectID
	p.rebuildRows()
}

func (p *ProjectTable) rebuildRows() {
	rows := make([]table.Row, len(p.projects))
	for i, proj := range p.projects {
		glyph := healthDot(proj.Health)
		if proj.ID == p.syncingID {
			glyph = styles.AccentStyle.Render(styles.SyncingChar)
		}
		rows[i] = table.Row{
			glyph,
			proj.Name,
			string(proj.Status),
			proj.Lead,
			proj.DateRange(),
		}
	}
	p.table.SetRows(rows)
}

// Selected returns the project under the cursor, if any.
func (p *ProjectTable) Selected() *domain.Project {
	idx := p.table.Cursor()
	if idx < 0 || idx >= len(p.projects) {
		return nil
	}
	return &p.projects[idx]
}

func (p *ProjectTable) SetSize(width, height int) {
	p.table.SetWidth(width)
	p.table.SetHeight(height)
}

func (p *ProjectTable) SetCursor(idx int) {
	p.table.SetCursor(idx)
}

func (p *ProjectTable) CursorToProject(projectID string) {
	for i, proj := range p.projects {
		if proj.ID == projectID {
			p.table.SetCursor(i)
			return
		}
	}
}

func (p ProjectTable) Update(msg tea.Msg) (ProjectTable, tea.Cmd) {
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p ProjectTable) View() string {
	return p.table.View()
}

func healthDot(h domain.Health) string {
	switch h {
	case domain.HealthRed:
		return styles.HealthRedDot
	case domain.HealthYellow:
		return styles.HealthYellowDot
	default:
		return styles.HealthGreenDot
	}
}
