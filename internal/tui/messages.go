package tui

import (
	"pulseboard/internal/domain"
	"pulseboard/internal/service"
	"pulseboard/internal/syncwatch"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// DashboardLoadedMsg signals that dashboard data is ready
type DashboardLoadedMsg struct {
	Data service.DashboardData
}

// DashboardReloadedMsg signals that a network refresh replaced the cache
type DashboardReloadedMsg struct {
	Data service.DashboardData
}

// SyncEventMsg carries one observer event off the watcher channel. NextCmd
// re-arms the listener (continuation pattern).
type SyncEventMsg struct {
	Scope   string
	State   syncwatch.State
	Reload  bool
	NextCmd interface{} // Continuation command (tea.Cmd)
}

// ProjectAssignmentsMsg carries the focused project's assignments
type ProjectAssignmentsMsg struct {
	ProjectID   string
	Assignments []domain.Assignment
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
