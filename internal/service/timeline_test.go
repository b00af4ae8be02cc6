package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeeksStartOnMonday(t *testing.T) {
	// 2026-08-12 is a Wednesday; its week starts Monday 2026-08-10.
	tl := BuildTimeline(
		[]domain.Project{{ID: "p1", Name: "Billing"}},
		nil,
		date(2026, time.August, 12),
		date(2026, time.August, 31),
	)

	require.Len(t, tl.Weeks, 3)
	assert.Equal(t, date(2026, time.August, 10), tl.Weeks[0])
	assert.Equal(t, date(2026, time.August, 17), tl.Weeks[1])
	assert.Equal(t, date(2026, time.August, 24), tl.Weeks[2])
}

func TestLoadSumsOverlappingAssignments(t *testing.T) {
	projects := []domain.Project{{ID: "p1", Name: "Billing"}}
	assignments := []domain.Assignment{
		{ID: "a1", EngineerID: "e1", ProjectID: "p1", Start: date(2026, time.August, 10), End: date(2026, time.August, 17), Percent: 50},
		{ID: "a2", EngineerID: "e2", ProjectID: "p1", Start: date(2026, time.August, 10), End: date(2026, time.August, 24), Percent: 30},
		{ID: "a3", EngineerID: "e3", ProjectID: "p2", Start: date(2026, time.August, 10), End: date(2026, time.August, 24), Percent: 100},
	}

	tl := BuildTimeline(projects, assignments, date(2026, time.August, 10), date(2026, time.August, 24))
	require.Len(t, tl.Rows, 1)
	require.Len(t, tl.Rows[0].Cells, 2)

	// Week 1 has both p1 assignments; week 2 only a2. The p2 assignment
	// never contributes to p1's row.
	assert.Equal(t, 80, tl.Rows[0].Cells[0].Load)
	assert.Equal(t, 30, tl.Rows[0].Cells[1].Load)
}

func TestOpenEndedAssignmentFillsWindow(t *testing.T) {
	projects := []domain.Project{{ID: "p1", Name: "Billing"}}
	assignments := []domain.Assignment{
		{ID: "a1", ProjectID: "p1", Start: date(2026, time.January, 1), Percent: 100},
	}

	tl := BuildTimeline(projects, assignments, date(2026, time.August, 10), date(2026, time.August, 31))
	require.Len(t, tl.Rows, 1)
	for _, cell := range tl.Rows[0].Cells {
		assert.Equal(t, 100, cell.Load)
	}
}

func TestRowsSortedByProjectName(t *testing.T) {
	projects := []domain.Project{
		{ID: "p2", Name: "Search"},
		{ID: "p1", Name: "Billing"},
	}

	tl := BuildTimeline(projects, nil, date(2026, time.August, 10), date(2026, time.August, 17))
	require.Len(t, tl.Rows, 2)
	assert.Equal(t, "Billing", tl.Rows[0].ProjectName)
	assert.Equal(t, "Search", tl.Rows[1].ProjectName)
}

func TestEmptyWindow(t *testing.T) {
	tl := BuildTimeline(nil, nil, date(2026, time.August, 10), date(2026, time.August, 10))
	assert.Empty(t, tl.Weeks)
	assert.Empty(t, tl.Rows)
}

func TestEngineerLoadDetectsOverallocation(t *testing.T) {
	assignments := []domain.Assignment{
		{ID: "a1", EngineerID: "e1", ProjectID: "p1", Start: date(2026, time.August, 1), End: date(2026, time.September, 1), Percent: 70},
		{ID: "a2", EngineerID: "e1", ProjectID: "p2", Start: date(2026, time.August, 1), End: date(2026, time.September, 1), Percent: 50},
		{ID: "a3", EngineerID: "e2", ProjectID: "p1", Start: date(2026, time.August, 1), End: date(2026, time.September, 1), Percent: 20},
	}

	load := EngineerLoad("e1", assignments, date(2026, time.August, 10), date(2026, time.August, 17))
	assert.Equal(t, 120, load)
}
