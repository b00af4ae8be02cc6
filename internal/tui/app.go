package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pulseboard/internal/domain"
	"pulseboard/internal/service"
	"pulseboard/internal/syncwatch"
	"pulseboard/internal/tui/components"
	"pulseboard/internal/tui/styles"
)

// ApplicationState represents the top-level input mode
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateFiltering
	StateHelp
)

// View identifies the active dashboard view
type View int

const (
	ViewEngineers View = iota
	ViewProjects
	ViewTimeline
)

const (
	spinnerInterval = 100 * time.Millisecond

	// Vertical chrome: header, tab bar, footer
	chromeHeight = 4
)

// WatcherFactory builds a sync watcher for one scope. The app owns one
// global watcher for its lifetime and creates a scoped one per focused
// project, stopping it on blur.
type WatcherFactory func(scope string) *syncwatch.Watcher

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	ActiveView View
	Ready bool
	Keys  KeyMap

	// Services
	DashboardSvc *service.DashboardService
	FilterSvc    *service.FilterService

	// Sync observation
	feed       *SyncFeed
	global     *syncwatch.Watcher
	newWatcher WatcherFactory

	projWatcher    *syncwatch.Watcher
	focusedProject string
	focusedAssigns []domain.Assignment

	// UI components
	Engineers  components.EngineerTable
	Projects   components.ProjectTable
	Timeline   components.TimelineView
	FilterBar  components.FilterBar
	HeaderSync components.SyncIndicator
	ScopedSync components.SyncIndicator

	// Data
	data          service.DashboardData
	timelineWeeks int

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Loading      bool
	SpinnerFrame int
}

// parseView maps a configured view name to a View, defaulting to projects.
func parseView(name string) View {
	switch name {
	case "engineers":
		return ViewEngineers
	case "timeline":
		return ViewTimeline
	default:
		return ViewProjects
	}
}

// NewModel creates a new application model
func NewModel(
	dashboardSvc *service.DashboardService,
	filterSvc *service.FilterService,
	feed *SyncFeed,
	newWatcher WatcherFactory,
	timelineWeeks int,
	defaultView string,
) Model {
	if timelineWeeks <= 0 {
		timelineWeeks = 12
	}
	return Model{
		State:         StateBrowsing,
		ActiveView:    parseView(defaultView),
		Keys:          DefaultKeyMap(),
		DashboardSvc:  dashboardSvc,
		FilterSvc:     filterSvc,
		feed:          feed,
		global:        newWatcher(""),
		newWatcher:    newWatcher,
		Engineers:     components.NewEngineerTable(),
		Projects:      components.NewProjectTable(),
		Timeline:      components.NewTimelineView(),
		FilterBar:     components.NewFilterBar(filterSvc),
		HeaderSync:    components.NewSyncIndicator(),
		ScopedSync:    components.NewSyncIndicator(),
		timelineWeeks: timelineWeeks,
		Loading:       true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	m.global.Start()
	return tea.Batch(
		LoadDashboardCmd(m.DashboardSvc),
		ListenSyncCmd(m.feed),
		TickCmd(spinnerInterval),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.HeaderSync.SetFrame(m.SpinnerFrame)
		m.HeaderSync.SetProgress(m.global.Progress(time.Now()))
		if m.projWatcher != nil {
			m.ScopedSync.SetFrame(m.SpinnerFrame)
			m.ScopedSync.SetProgress(m.projWatcher.Progress(time.Now()))
		}
		return m, TickCmd(spinnerInterval)

	case DashboardLoadedMsg:
		m.Loading = false
		m.applyData(msg.Data)
		if msg.Data.FromCache {
			m.StatusMsg = "loaded from cache"
			m.StatusIsErr = false
			cmds := []tea.Cmd{ClearStatusCmd(3 * time.Second)}
			if reload := m.staleCacheReload(); reload != nil {
				m.StatusMsg = "loaded from cache, refreshing"
				cmds = append(cmds, reload)
			}
			return m, tea.Batch(cmds...)
		}
		return m, nil

	case DashboardReloadedMsg:
		m.Loading = false
		m.applyData(msg.Data)
		m.StatusMsg = "data refreshed"
		m.StatusIsErr = false
		var cmds []tea.Cmd
		cmds = append(cmds, ClearStatusCmd(3*time.Second))
		if m.focusedProject != "" {
			cmds = append(cmds, LoadProjectAssignmentsCmd(m.DashboardSvc, m.focusedProject))
		}
		return m, tea.Batch(cmds...)

	case SyncEventMsg:
		return m.handleSyncEvent(msg)

	case ProjectAssignmentsMsg:
		if msg.ProjectID == m.focusedProject {
			m.focusedAssigns = msg.Assignments
		}
		return m, nil

	case ErrMsg:
		m.Loading = false
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// staleCacheReload issues a network reload when the cache predates the
// server's last completed sync. Nil when the cache is current, or when no
// sync time has been observed yet.
func (m Model) staleCacheReload() tea.Cmd {
	st := m.global.State()
	if !m.DashboardSvc.NeedsRefresh(st.LastSyncTime) {
		return nil
	}
	t := *st.LastSyncTime
	return ReloadDashboardCmd(m.DashboardSvc, &t)
}

// handleSyncEvent routes one watcher event by scope and re-arms the listener
func (m Model) handleSyncEvent(msg SyncEventMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{}
	if next, ok := msg.NextCmd.(tea.Cmd); ok && next != nil {
		cmds = append(cmds, next)
	}

	if msg.Reload {
		// Fresh data is available on the server; replace the cache.
		var syncedAt *time.Time
		if st := m.global.State(); st.LastSyncTime != nil {
			t := *st.LastSyncTime
			syncedAt = &t
		}
		cmds = append(cmds, ReloadDashboardCmd(m.DashboardSvc, syncedAt))
		return m, tea.Batch(cmds...)
	}

	if msg.Scope == "" {
		m.HeaderSync.SetState(msg.State)
		if msg.State.Phase == syncwatch.PhaseSyncing {
			m.Projects.SetSyncing(msg.State.SyncingProjectID)
		} else {
			m.Projects.SetSyncing("")
		}
	} else if msg.Scope == m.focusedProject {
		m.ScopedSync.SetState(msg.State)
	}
	return m, tea.Batch(cmds...)
}

// handleKeyMsg dispatches keys by input mode
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateFiltering:
		return m.handleFilterKey(msg)

	default:
		return m.handleBrowseKey(msg)
	}
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Back):
		m.FilterBar.Close()
		m.State = StateBrowsing
		return m, nil

	case key.Matches(msg, m.Keys.Up):
		m.FilterBar.MoveCursor(-1)
		return m, nil

	case key.Matches(msg, m.Keys.Down):
		m.FilterBar.MoveCursor(1)
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		sel := m.FilterBar.Selected()
		m.FilterBar.Close()
		m.State = StateBrowsing
		if sel == nil {
			return m, nil
		}
		return m.jumpTo(sel.FilterItem)
	}

	var cmd tea.Cmd
	m.FilterBar, cmd = m.FilterBar.Update(msg)
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.teardown()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, m.Keys.Filter):
		m.State = StateFiltering
		return m, m.FilterBar.Open()

	case key.Matches(msg, m.Keys.Refresh):
		m.global.RequestRefresh()
		return m, nil

	case key.Matches(msg, m.Keys.Engineers):
		return m.switchView(ViewEngineers), nil

	case key.Matches(msg, m.Keys.Projects):
		return m.switchView(ViewProjects), nil

	case key.Matches(msg, m.Keys.Timeline):
		return m.switchView(ViewTimeline), nil

	case key.Matches(msg, m.Keys.NextView):
		return m.switchView((m.ActiveView + 1) % 3), nil

	case key.Matches(msg, m.Keys.Enter):
		if m.ActiveView == ViewProjects {
			if p := m.Projects.Selected(); p != nil {
				return m.focusProject(p.ID)
			}
		}
		if m.ActiveView == ViewTimeline {
			if id := m.Timeline.SelectedProjectID(); id != "" {
				m.ActiveView = ViewProjects
				m.Projects.CursorToProject(id)
				m2, cmd := m.focusProject(id)
				return m2, cmd
			}
		}
		return m, nil

	case key.Matches(msg, m.Keys.Back):
		if m.focusedProject != "" {
			m.blurProject()
			return m, nil
		}
		return m, nil
	}

	// Cursor movement delegates to the active view
	var cmd tea.Cmd
	switch m.ActiveView {
	case ViewEngineers:
		m.Engineers, cmd = m.Engineers.Update(msg)
	case ViewProjects:
		m.Projects, cmd = m.Projects.Update(msg)
	case ViewTimeline:
		switch {
		case key.Matches(msg, m.Keys.Up):
			m.Timeline.MoveCursor(-1)
		case key.Matches(msg, m.Keys.Down):
			m.Timeline.MoveCursor(1)
		}
	}
	return m, cmd
}

func (m Model) switchView(v View) Model {
	m.ActiveView = v
	return m
}

// focusProject mounts a scoped watcher for one project's jobs. Any previous
// scoped watcher is stopped first; two never run at once.
func (m Model) focusProject(projectID string) (tea.Model, tea.Cmd) {
	if m.projWatcher != nil {
		m.projWatcher.Stop()
	}
	m.focusedProject = projectID
	m.focusedAssigns = nil
	m.ScopedSync = components.NewSyncIndicator()
	m.projWatcher = m.newWatcher(projectID)
	m.projWatcher.Start()
	m.updateLayout()
	return m, LoadProjectAssignmentsCmd(m.DashboardSvc, projectID)
}

func (m *Model) blurProject() {
	if m.projWatcher != nil {
		m.projWatcher.Stop()
		m.projWatcher = nil
	}
	m.focusedProject = ""
	m.focusedAssigns = nil
	m.updateLayout()
}

// teardown stops all watchers before the program exits
func (m *Model) teardown() {
	if m.projWatcher != nil {
		m.projWatcher.Stop()
	}
	m.global.Stop()
}

// jumpTo navigates to a filter match
func (m Model) jumpTo(item service.FilterItem) (tea.Model, tea.Cmd) {
	switch item.Kind {
	case service.FilterEngineer:
		m.ActiveView = ViewEngineers
		for i, e := range m.data.Engineers {
			if e.ID == item.ID {
				m.Engineers.SetCursor(i)
				break
			}
		}
		return m, nil

	default:
		m.ActiveView = ViewProjects
		m.Projects.CursorToProject(item.ID)
		return m.focusProject(item.ID)
	}
}

// applyData installs fresh dashboard data into every view
func (m *Model) applyData(data service.DashboardData) {
	m.data = data
	m.FilterSvc.Rebuild(data.Engineers, data.Projects)

	now := time.Now()
	loads := make(map[string]int, len(data.Engineers))
	for _, e := range data.Engineers {
		loads[e.ID] = service.EngineerLoad(e.ID, data.Assignments, now, now.AddDate(0, 0, 7))
	}
	m.Engineers.SetData(data.Engineers, loads)
	m.Projects.SetProjects(data.Projects)

	from := now.AddDate(0, 0, -14)
	to := from.AddDate(0, 0, 7*m.timelineWeeks)
	m.Timeline.SetTimeline(service.BuildTimeline(data.Projects, data.Assignments, from, to))
}

func (m *Model) updateLayout() {
	bodyHeight := m.Height - chromeHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	bodyWidth := m.Width
	if m.focusedProject != "" {
		bodyWidth = m.Width * 2 / 3
	}
	m.Engineers.SetSize(bodyWidth, bodyHeight)
	m.Projects.SetSize(bodyWidth, bodyHeight)
	m.Timeline.SetSize(bodyWidth, bodyHeight)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "loading..."
	}
	if m.State == StateHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	tabs := m.renderTabs()

	var body string
	switch m.ActiveView {
	case ViewEngineers:
		body = m.Engineers.View()
	case ViewProjects:
		body = m.Projects.View()
	case ViewTimeline:
		body = m.Timeline.View()
	}

	if m.focusedProject != "" && m.ActiveView == ViewProjects {
		detail := m.renderProjectDetail()
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, detail)
	}

	sections := []string{header, tabs, body}
	if m.State == StateFiltering {
		sections = append(sections, m.FilterBar.View())
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("pulseboard")
	sync := m.HeaderSync.View()

	gap := m.Width - lipgloss.Width(title) - lipgloss.Width(sync) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + title + lipgloss.NewStyle().Width(gap).Render("") + sync
}

func (m Model) renderTabs() string {
	render := func(v View, label string) string {
		if m.ActiveView == v {
			return styles.ActiveTabStyle.Render(label)
		}
		return styles.InactiveTabStyle.Render(label)
	}
	return " " + render(ViewEngineers, "1 Engineers") +
		render(ViewProjects, "2 Projects") +
		render(ViewTimeline, "3 Timeline")
}

func (m Model) renderProjectDetail() string {
	var proj *domain.Project
	for i := range m.data.Projects {
		if m.data.Projects[i].ID == m.focusedProject {
			proj = &m.data.Projects[i]
			break
		}
	}
	if proj == nil {
		return ""
	}

	width := m.Width / 3
	var lines []string
	lines = append(lines, styles.TitleStyle.Render(styles.Truncate(proj.Name, width-4)))
	lines = append(lines, styles.SubtitleStyle.Render(string(proj.Status))+"  "+proj.DateRange())
	if proj.Lead != "" {
		lines = append(lines, styles.DimStyle.Render("lead ")+proj.Lead)
	}
	lines = append(lines, m.ScopedSync.View())
	lines = append(lines, "")

	if len(m.focusedAssigns) == 0 {
		lines = append(lines, styles.DimStyle.Render("no assignments"))
	} else {
		lines = append(lines, styles.SubtitleStyle.Render("Assignments"))
		for _, a := range m.focusedAssigns {
			name := m.engineerName(a.EngineerID)
			lines = append(lines, fmt.Sprintf("  %s %s", styles.Pad(name, width-12), formatPercent(a.Percent)))
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(styles.DimGray).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) engineerName(id string) string {
	for _, e := range m.data.Engineers {
		if e.ID == id {
			return e.Name
		}
	}
	return id
}

func formatPercent(p int) string {
	return fmt.Sprintf("%3d%%", p)
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return " " + styles.ErrorStyle.Render(m.StatusMsg)
		}
		return " " + styles.SubtitleStyle.Render(m.StatusMsg)
	}

	hints := []struct{ k, desc string }{
		{"1-3", "views"},
		{"/", "filter"},
		{"r", "sync now"},
		{"enter", "focus"},
		{"?", "help"},
		{"q", "quit"},
	}
	out := ""
	for _, h := range hints {
		out += " " + styles.HelpKeyStyle.Render(h.k) + " " + styles.HelpDescStyle.Render(h.desc)
	}
	return out
}

func (m Model) renderHelp() string {
	rows := []struct{ k, desc string }{
		{"1 / 2 / 3", "engineers, projects, timeline"},
		{"tab", "cycle views"},
		{"j / k", "move cursor"},
		{"enter", "focus project (mounts a project sync indicator)"},
		{"esc", "unfocus project / close filter"},
		{"/", "fuzzy filter engineers and projects"},
		{"r", "request a sync now"},
		{"q", "quit"},
	}

	var lines []string
	lines = append(lines, styles.TitleStyle.Render("pulseboard keys"), "")
	for _, r := range rows {
		lines = append(lines, "  "+styles.HelpKeyStyle.Render(styles.Pad(r.k, 12))+styles.HelpDescStyle.Render(r.desc))
	}
	lines = append(lines, "", styles.DimStyle.Render("press any key to close"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
