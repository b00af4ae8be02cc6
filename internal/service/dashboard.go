package service

import (
	"context"
	"log/slog"
	"time"

	"pulseboard/internal/domain"
	"pulseboard/internal/store"
)

// TrackerClient is the slice of the backend API the dashboard needs.
type TrackerClient interface {
	Engineers(ctx context.Context) ([]domain.Engineer, error)
	Projects(ctx context.Context) ([]domain.Project, error)
	Assignments(ctx context.Context) ([]domain.Assignment, error)
	ProjectAssignments(ctx context.Context, projectID string) ([]domain.Assignment, error)
}

// DashboardData is everything the dashboard views render from.
type DashboardData struct {
	Engineers   []domain.Engineer
	Projects    []domain.Project
	Assignments []domain.Assignment
	FromCache   bool
}

// DashboardService loads tracker data cache-first: the UI paints from the
// local store immediately and replaces it when a network refresh lands.
type DashboardService struct {
	client TrackerClient
	store  *store.DashboardStore
	logger *slog.Logger
}

func NewDashboardService(client TrackerClient, st *store.DashboardStore, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{client: client, store: st, logger: logger}
}

// Load returns cached data when present, otherwise fetches from the network.
func (s *DashboardService) Load(ctx context.Context) (DashboardData, error) {
	engineers, okE := s.store.GetEngineers()
	projects, okP := s.store.GetProjects()
	assignments, okA := s.store.GetAllAssignments()

	if okE && okP && okA {
		s.logger.Debug("dashboard loaded from cache",
			"engineers", len(engineers), "projects", len(projects))
		return DashboardData{
			Engineers:   engineers,
			Projects:    projects,
			Assignments: assignments,
			FromCache:   true,
		}, nil
	}

	return s.Refresh(ctx, nil)
}

// Refresh fetches everything from the network and rewrites the cache.
// This is what runs when a background synchronization completes: the
// server's lastSyncTime becomes the new cache watermark.
func (s *DashboardService) Refresh(ctx context.Context, syncedAt *time.Time) (DashboardData, error) {
	engineers, err := s.client.Engineers(ctx)
	if err != nil {
		return DashboardData{}, err
	}
	projects, err := s.client.Projects(ctx)
	if err != nil {
		return DashboardData{}, err
	}
	assignments, err := s.client.Assignments(ctx)
	if err != nil {
		return DashboardData{}, err
	}

	// Projects removed upstream leave per-project groups behind; drop them
	// before the new list overwrites the old one.
	if oldProjects, ok := s.store.GetProjects(); ok {
		current := make(map[string]bool, len(projects))
		for _, p := range projects {
			current[p.ID] = true
		}
		for _, p := range oldProjects {
			if !current[p.ID] {
				s.store.InvalidateAssignments(p.ID)
			}
		}
	}

	if err := s.store.SaveEngineers(engineers); err != nil {
		s.logger.Warn("cache write failed", "error", err)
	}
	if err := s.store.SaveProjects(projects); err != nil {
		s.logger.Warn("cache write failed", "error", err)
	}
	if err := s.store.SaveAllAssignments(assignments); err != nil {
		s.logger.Warn("cache write failed", "error", err)
	}
	for projectID, group := range groupByProject(assignments) {
		if err := s.store.SaveAssignments(projectID, group); err != nil {
			s.logger.Warn("cache write failed", "project", projectID, "error", err)
		}
	}
	if syncedAt != nil {
		if err := s.store.SaveWatermark(*syncedAt); err != nil {
			s.logger.Warn("watermark write failed", "error", err)
		}
	}

	s.logger.Info("dashboard refreshed",
		"engineers", len(engineers), "projects", len(projects), "assignments", len(assignments))

	return DashboardData{
		Engineers:   engineers,
		Projects:    projects,
		Assignments: assignments,
	}, nil
}

// NeedsRefresh reports whether the server's last completed sync is newer
// than what the cache holds.
func (s *DashboardService) NeedsRefresh(serverSyncTime *time.Time) bool {
	if serverSyncTime == nil {
		return false
	}
	return !s.store.IsFresh(*serverSyncTime)
}

// ProjectAssignments returns one project's assignments, cache-first. On a
// cache miss it fetches from the network and caches the result; a project
// unknown to the backend yields domain.ErrProjectNotFound.
func (s *DashboardService) ProjectAssignments(ctx context.Context, projectID string) ([]domain.Assignment, error) {
	if assignments, ok := s.store.GetAssignments(projectID); ok {
		return assignments, nil
	}

	assignments, err := s.client.ProjectAssignments(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveAssignments(projectID, assignments); err != nil {
		s.logger.Warn("cache write failed", "project", projectID, "error", err)
	}
	return assignments, nil
}

func groupByProject(assignments []domain.Assignment) map[string][]domain.Assignment {
	groups := make(map[string][]domain.Assignment)
	for _, a := range assignments {
		groups[a.ProjectID] = append(groups[a.ProjectID], a)
	}
	return groups
}
