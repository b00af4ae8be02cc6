package domain

import (
	"fmt"
	"time"
)

// ProjectStatus distinguishes project lifecycle phases
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPlanned   ProjectStatus = "planned"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

// Health is the coarse delivery-health rating of a project
type Health string

const (
	HealthGreen  Health = "green"
	HealthYellow Health = "yellow"
	HealthRed    Health = "red"
)

// Engineer represents one person tracked by the upstream system
type Engineer struct {
	ID     string // Tracker-assigned unique identifier
	Name   string // Display name
	Role   string // e.g., "Backend", "Frontend", "SRE"
	Email  string
	Active bool // False for engineers who have left or are on leave
}

// Project represents one project row on the dashboard
type Project struct {
	ID        string
	Name      string
	Status    ProjectStatus
	Health    Health
	Lead      string // Display name of the project lead
	StartDate time.Time
	EndDate   time.Time // Zero value means no planned end
}

// Assignment allocates an engineer to a project over a date range
type Assignment struct {
	ID         string
	EngineerID string
	ProjectID  string
	Start      time.Time
	End        time.Time // Zero value means open-ended
	Percent    int       // Allocation percentage, 0-100
}

// Overlaps reports whether the assignment intersects the [from, to) window
func (a Assignment) Overlaps(from, to time.Time) bool {
	if !a.End.IsZero() && !a.End.After(from) {
		return false
	}
	return a.Start.Before(to)
}

// DateRange returns the project's dates in a human-readable format
func (p Project) DateRange() string {
	if p.StartDate.IsZero() {
		return "—"
	}
	start := p.StartDate.Format("Jan 2")
	if p.EndDate.IsZero() {
		return start + " →"
	}
	return fmt.Sprintf("%s – %s", start, p.EndDate.Format("Jan 2"))
}
