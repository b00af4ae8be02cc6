package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/domain"
	"pulseboard/internal/store"
)

type fakeTracker struct {
	engineers   []domain.Engineer
	projects    []domain.Project
	assignments []domain.Assignment
	err         error
	calls       int
}

func (f *fakeTracker) Engineers(ctx context.Context) ([]domain.Engineer, error) {
	f.calls++
	return f.engineers, f.err
}

func (f *fakeTracker) Projects(ctx context.Context) ([]domain.Project, error) {
	return f.projects, f.err
}

func (f *fakeTracker) Assignments(ctx context.Context) ([]domain.Assignment, error) {
	return f.assignments, f.err
}

func (f *fakeTracker) ProjectAssignments(ctx context.Context, projectID string) ([]domain.Assignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Assignment
	for _, a := range f.assignments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	if out == nil {
		return nil, domain.ErrProjectNotFound
	}
	return out, nil
}

func newMemoryStore(t *testing.T) *store.DashboardStore {
	t.Helper()
	s, err := store.NewDashboardStore("", "")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadPrefersCache(t *testing.T) {
	st := newMemoryStore(t)
	require.NoError(t, st.SaveEngineers([]domain.Engineer{{ID: "e1", Name: "Dana"}}))
	require.NoError(t, st.SaveProjects([]domain.Project{{ID: "p1", Name: "Billing"}}))
	require.NoError(t, st.SaveAllAssignments([]domain.Assignment{{ID: "a1"}}))

	tracker := &fakeTracker{}
	svc := NewDashboardService(tracker, st, nil)

	data, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, data.FromCache)
	assert.Equal(t, "Dana", data.Engineers[0].Name)
	assert.Zero(t, tracker.calls)
}

func TestLoadFallsBackToNetwork(t *testing.T) {
	st := newMemoryStore(t)
	tracker := &fakeTracker{
		engineers: []domain.Engineer{{ID: "e1", Name: "Dana"}},
		projects:  []domain.Project{{ID: "p1", Name: "Billing"}},
	}
	svc := NewDashboardService(tracker, st, nil)

	data, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, data.FromCache)
	assert.Equal(t, 1, tracker.calls)

	// A second load now hits the cache.
	data, err = svc.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, data.FromCache)
	assert.Equal(t, 1, tracker.calls)
}

func TestRefreshDropsRemovedProjectGroups(t *testing.T) {
	st := newMemoryStore(t)
	require.NoError(t, st.SaveProjects([]domain.Project{{ID: "p-old", Name: "Retired"}}))
	require.NoError(t, st.SaveAssignments("p-old", []domain.Assignment{{ID: "a1", ProjectID: "p-old"}}))

	tracker := &fakeTracker{
		projects:    []domain.Project{{ID: "p1", Name: "Billing"}},
		assignments: []domain.Assignment{{ID: "a2", ProjectID: "p1"}},
	}
	svc := NewDashboardService(tracker, st, nil)

	_, err := svc.Refresh(context.Background(), nil)
	require.NoError(t, err)

	_, ok := st.GetAssignments("p-old")
	assert.False(t, ok)
	fresh, ok := st.GetAssignments("p1")
	require.True(t, ok)
	assert.Equal(t, "a2", fresh[0].ID)
}

func TestRefreshRecordsWatermark(t *testing.T) {
	st := newMemoryStore(t)
	tracker := &fakeTracker{
		engineers: []domain.Engineer{{ID: "e1"}},
		projects:  []domain.Project{{ID: "p1"}},
		assignments: []domain.Assignment{
			{ID: "a1", ProjectID: "p1"},
			{ID: "a2", ProjectID: "p2"},
		},
	}
	svc := NewDashboardService(tracker, st, nil)

	syncedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	_, err := svc.Refresh(context.Background(), &syncedAt)
	require.NoError(t, err)

	wm, ok := st.Watermark()
	require.True(t, ok)
	assert.True(t, wm.Equal(syncedAt))

	assert.False(t, svc.NeedsRefresh(&syncedAt))
	later := syncedAt.Add(time.Hour)
	assert.True(t, svc.NeedsRefresh(&later))
	assert.False(t, svc.NeedsRefresh(nil))

	// Per-project assignment groups are cached too.
	got, err := svc.ProjectAssignments(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)

	_, err = svc.ProjectAssignments(context.Background(), "p3")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestRefreshSurfacesError(t *testing.T) {
	st := newMemoryStore(t)
	tracker := &fakeTracker{err: domain.ErrServerOffline}
	svc := NewDashboardService(tracker, st, nil)

	_, err := svc.Refresh(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}
