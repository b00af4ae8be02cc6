package components

import (
	"fmt"
	"time"

	"pulseboard/internal/syncwatch"
	"pulseboard/internal/tui/styles"
)

// SyncIndicator renders one watcher's observed state as a single line. The
// header uses one for the global job; a focused project view uses another
// for that project's jobs.
type SyncIndicator struct {
	state    syncwatch.State
	progress float64
	frame    int
}

func NewSyncIndicator() SyncIndicator {
	return SyncIndicator{state: syncwatch.NewState()}
}

func (s *SyncIndicator) SetState(st syncwatch.State) {
	s.state = st
}

// SetProgress takes the animator's current sampled value in [0, 100].
func (s *SyncIndicator) SetProgress(v float64) {
	s.progress = v
}

func (s *SyncIndicator) SetFrame(frame int) {
	s.frame = frame
}

func (s SyncIndicator) Syncing() bool {
	return s.state.Phase == syncwatch.PhaseSyncing
}

func (s SyncIndicator) View() string {
	st := s.state

	switch st.Phase {
	case syncwatch.PhaseSyncing:
		spinner := styles.SpinnerStyle.Render(styles.SpinnerFrames[s.frame%len(styles.SpinnerFrames)])
		line := spinner + " syncing"
		if st.Progress != nil || s.progress > 0 {
			line += fmt.Sprintf(" %3.0f%% %s", s.progress, styles.RenderProgressBar(s.progress, 12))
		}
		if st.HasPartialSync && st.PartialTotal > 0 {
			line += styles.DimStyle.Render(fmt.Sprintf(" (%d/%d)", st.PartialCompleted, st.PartialTotal))
		}
		return line

	case syncwatch.PhaseError:
		line := styles.ErrorStyle.Render(styles.WarnChar + " sync error")
		if st.ErrorMessage != "" {
			line += " " + styles.DimStyle.Render(styles.Truncate(st.ErrorMessage, 48))
		}
		return line

	default:
		if st.ErrorMessage != "" {
			// Idle phase can still carry a not-yet-expired rejection message.
			return styles.ErrorStyle.Render(styles.WarnChar+" ") + styles.DimStyle.Render(styles.Truncate(st.ErrorMessage, 48))
		}
		if st.LastSyncTime != nil {
			return styles.SuccessStyle.Render("✓") + styles.DimStyle.Render(" synced "+humanizeSince(*st.LastSyncTime))
		}
		return styles.DimStyle.Render("○ idle")
	}
}

func humanizeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}
