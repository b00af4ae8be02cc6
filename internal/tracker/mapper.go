package tracker

import (
	"time"

	"pulseboard/internal/domain"
)

const dateLayout = "2006-01-02"

// MapEngineers converts engineer DTOs to domain entities
func MapEngineers(dtos []engineerDTO) []domain.Engineer {
	engineers := make([]domain.Engineer, 0, len(dtos))
	for _, d := range dtos {
		engineers = append(engineers, domain.Engineer{
			ID:     d.ID,
			Name:   d.Name,
			Role:   d.Role,
			Email:  d.Email,
			Active: d.Active,
		})
	}
	return engineers
}

// MapProjects converts project DTOs to domain entities
func MapProjects(dtos []projectDTO) []domain.Project {
	projects := make([]domain.Project, 0, len(dtos))
	for _, d := range dtos {
		projects = append(projects, domain.Project{
			ID:        d.ID,
			Name:      d.Name,
			Status:    mapProjectStatus(d.Status),
			Health:    mapHealth(d.Health),
			Lead:      d.Lead,
			StartDate: parseDate(d.StartDate),
			EndDate:   parseDate(d.EndDate),
		})
	}
	return projects
}

// MapAssignments converts assignment DTOs to domain entities
func MapAssignments(dtos []assignmentDTO) []domain.Assignment {
	assignments := make([]domain.Assignment, 0, len(dtos))
	for _, d := range dtos {
		pct := d.Percent
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		assignments = append(assignments, domain.Assignment{
			ID:         d.ID,
			EngineerID: d.EngineerID,
			ProjectID:  d.ProjectID,
			Start:      parseDate(d.StartDate),
			End:        parseDate(d.EndDate),
			Percent:    pct,
		})
	}
	return assignments
}

func mapProjectStatus(s string) domain.ProjectStatus {
	switch domain.ProjectStatus(s) {
	case domain.ProjectActive, domain.ProjectPlanned, domain.ProjectPaused, domain.ProjectCompleted:
		return domain.ProjectStatus(s)
	default:
		return domain.ProjectActive
	}
}

func mapHealth(s string) domain.Health {
	switch domain.Health(s) {
	case domain.HealthGreen, domain.HealthYellow, domain.HealthRed:
		return domain.Health(s)
	default:
		return domain.HealthGreen
	}
}

// parseDate is tolerant: an empty or malformed date maps to the zero time
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
