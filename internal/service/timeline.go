package service

import (
	"sort"
	"time"

	"pulseboard/internal/domain"
)

// WeekCell is one project-week on the timeline. Load is the sum of
// assignment percentages overlapping that week.
type WeekCell struct {
	Start time.Time
	Load  int
}

// TimelineRow is one project's stripe of week cells.
type TimelineRow struct {
	ProjectID   string
	ProjectName string
	Health      domain.Health
	Cells       []WeekCell
}

// Timeline is the whole view: one row per project, all rows sharing the
// same week columns.
type Timeline struct {
	Weeks []time.Time
	Rows  []TimelineRow
}

// BuildTimeline buckets assignments into per-project week cells inside
// [from, to). Weeks start on Monday. The computation is stateless: given
// the same inputs it always produces the same timeline.
func BuildTimeline(projects []domain.Project, assignments []domain.Assignment, from, to time.Time) Timeline {
	weeks := weekStarts(from, to)
	if len(weeks) == 0 {
		return Timeline{}
	}

	byProject := groupByProject(assignments)

	rows := make([]TimelineRow, 0, len(projects))
	for _, p := range projects {
		cells := make([]WeekCell, len(weeks))
		for i, wk := range weeks {
			wkEnd := wk.AddDate(0, 0, 7)
			load := 0
			for _, a := range byProject[p.ID] {
				if a.Overlaps(wk, wkEnd) {
					load += a.Percent
				}
			}
			cells[i] = WeekCell{Start: wk, Load: load}
		}
		rows = append(rows, TimelineRow{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Health:      p.Health,
			Cells:       cells,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ProjectName < rows[j].ProjectName
	})

	return Timeline{Weeks: weeks, Rows: rows}
}

// EngineerLoad sums an engineer's assignment percentages overlapping
// [from, to). Values over 100 mean the engineer is overallocated.
func EngineerLoad(engineerID string, assignments []domain.Assignment, from, to time.Time) int {
	load := 0
	for _, a := range assignments {
		if a.EngineerID == engineerID && a.Overlaps(from, to) {
			load += a.Percent
		}
	}
	return load
}

// weekStarts returns the Monday of every week touching [from, to).
func weekStarts(from, to time.Time) []time.Time {
	if !from.Before(to) {
		return nil
	}

	start := startOfWeek(from)
	var weeks []time.Time
	for wk := start; wk.Before(to); wk = wk.AddDate(0, 0, 7) {
		weeks = append(weeks, wk)
	}
	return weeks
}

func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset)
}
