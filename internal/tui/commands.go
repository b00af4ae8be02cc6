package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pulseboard/internal/service"
)

// Command factories for async operations

// LoadDashboardCmd loads dashboard data, cache-first
func LoadDashboardCmd(svc *service.DashboardService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		data, err := svc.Load(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading dashboard"}
		}
		return DashboardLoadedMsg{Data: data}
	}
}

// ReloadDashboardCmd refreshes dashboard data from the network. Runs when a
// background sync completes; syncedAt becomes the new cache watermark.
func ReloadDashboardCmd(svc *service.DashboardService, syncedAt *time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		data, err := svc.Refresh(ctx, syncedAt)
		if err != nil {
			return ErrMsg{Err: err, Context: "reloading dashboard"}
		}
		return DashboardReloadedMsg{Data: data}
	}
}

// ListenSyncCmd reads one event from the watcher feed and embeds the
// continuation command so the model can keep listening.
func ListenSyncCmd(feed *SyncFeed) tea.Cmd {
	return func() tea.Msg {
		return readSyncEvent(feed)
	}
}

// readSyncEvent reads one event and wraps it with its continuation
func readSyncEvent(feed *SyncFeed) tea.Msg {
	ev, ok := <-feed.ch
	if !ok {
		return nil
	}

	return SyncEventMsg{
		Scope:   ev.scope,
		State:   ev.state,
		Reload:  ev.reload,
		NextCmd: ListenSyncCmd(feed),
	}
}

// LoadProjectAssignmentsCmd loads the focused project's assignments,
// cache-first
func LoadProjectAssignmentsCmd(svc *service.DashboardService, projectID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		assignments, err := svc.ProjectAssignments(ctx, projectID)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading assignments"}
		}
		return ProjectAssignmentsMsg{
			ProjectID:   projectID,
			Assignments: assignments,
		}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
