package components

import (
	"strings"

	"pulseboard/internal/service"
	"pulseboard/internal/tui/styles"
)

const (
	timelineNameWidth = 24
	timelineCellWidth = 4
)

// TimelineView renders the per-project week grid produced by
// service.BuildTimeline. It is purely presentational; scrolling moves a
// cursor over rows.
type TimelineView struct {
	timeline service.Timeline
	cursor   int
	width    int
	height   int
}

func NewTimelineView() TimelineView {
	return TimelineView{}
}

func (v *TimelineView) SetTimeline(tl service.Timeline) {
	v.timeline = tl
	if v.cursor >= len(tl.Rows) {
		v.cursor = 0
	}
}

func (v *TimelineView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *TimelineView) MoveCursor(delta int) {
	v.cursor += delta
	if v.cursor < 0 {
		v.cursor = 0
	}
	if max := len(v.timeline.Rows) - 1; v.cursor > max && max >= 0 {
		v.cursor = max
	}
}

// SelectedProjectID returns the project under the cursor, or "".
func (v TimelineView) SelectedProjectID() string {
	if v.cursor < 0 || v.cursor >= len(v.timeline.Rows) {
		return ""
	}
	return v.timeline.Rows[v.cursor].ProjectID
}

func (v TimelineView) View() string {
	if len(v.timeline.Rows) == 0 {
		return styles.DimStyle.Render("no assignments in this window")
	}

	maxWeeks := v.visibleWeeks()

	var b strings.Builder

	// Header row: week start dates
	b.WriteString(styles.Pad("", timelineNameWidth))
	for i, wk := range v.timeline.Weeks {
		if i >= maxWeeks {
			break
		}
		b.WriteString(styles.DimStyle.Render(styles.Pad(wk.Format("1/2"), timelineCellWidth)))
	}
	b.WriteString("\n")

	for i, row := range v.timeline.Rows {
		name := styles.Truncate(row.ProjectName, timelineNameWidth-3)
		line := healthDot(row.Health) + " " + styles.Pad(name, timelineNameWidth-2)
		if i == v.cursor {
			line = styles.SelectedRowStyle.Render(line)
		}
		b.WriteString(line)

		for j, cell := range row.Cells {
			if j >= maxWeeks {
				break
			}
			b.WriteString(renderLoadCell(cell.Load))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (v TimelineView) visibleWeeks() int {
	if v.width <= timelineNameWidth+timelineCellWidth {
		return len(v.timeline.Weeks)
	}
	n := (v.width - timelineNameWidth) / timelineCellWidth
	if n > len(v.timeline.Weeks) {
		n = len(v.timeline.Weeks)
	}
	return n
}

// renderLoadCell shades a week cell by total allocation. Over 100 means the
// project is staffed beyond capacity that week.
func renderLoadCell(load int) string {
	switch {
	case load == 0:
		return styles.LoadEmptyStyle.Render(styles.Pad("·", timelineCellWidth))
	case load <= 50:
		return styles.LoadLowStyle.Render(styles.Pad("░░░", timelineCellWidth))
	case load <= 100:
		return styles.LoadHighStyle.Render(styles.Pad("▓▓▓", timelineCellWidth))
	default:
		return styles.LoadOverStyle.Render(styles.Pad("███", timelineCellWidth))
	}
}
