package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/domain"
)

func newTestStore(t *testing.T) *DashboardStore {
	t.Helper()
	s, err := NewDashboardStore(t.TempDir(), "https://tracker.example.com")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoundTripEngineers(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.GetEngineers()
	assert.False(t, ok)

	in := []domain.Engineer{{ID: "e1", Name: "Dana", Role: "Backend", Active: true}}
	require.NoError(t, s.SaveEngineers(in))

	out, ok := s.GetEngineers()
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestAssignmentsKeyedPerProject(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveAssignments("p1", []domain.Assignment{{ID: "a1", ProjectID: "p1"}}))
	require.NoError(t, s.SaveAssignments("p2", []domain.Assignment{{ID: "a2", ProjectID: "p2"}}))

	got, ok := s.GetAssignments("p1")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)

	s.InvalidateAssignments("p1")
	_, ok = s.GetAssignments("p1")
	assert.False(t, ok)

	_, ok = s.GetAssignments("p2")
	assert.True(t, ok)
}

func TestWatermarkFreshness(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.Watermark()
	assert.False(t, ok)

	ts := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveWatermark(ts))

	got, ok := s.Watermark()
	require.True(t, ok)
	assert.True(t, got.Equal(ts))

	assert.True(t, s.IsFresh(ts))
	assert.True(t, s.IsFresh(ts.Add(-time.Hour)))
	assert.False(t, s.IsFresh(ts.Add(time.Hour)))
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewDashboardStore(dir, "https://tracker.example.com")
	require.NoError(t, err)
	require.NoError(t, s.SaveProjects([]domain.Project{{ID: "p1", Name: "Billing"}}))
	require.NoError(t, s.Close())

	s2, err := NewDashboardStore(dir, "https://tracker.example.com")
	require.NoError(t, err)
	defer s2.Close()

	projects, ok := s2.GetProjects()
	require.True(t, ok)
	assert.Equal(t, "Billing", projects[0].Name)
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := NewDashboardStore("", "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveProjects([]domain.Project{{ID: "p1"}}))
	_, ok := s.GetProjects()
	assert.True(t, ok)
}

func TestOpenWipesCacheOnSchemaChange(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDashboardStore(dir, "https://tracker.example.com")
	require.NoError(t, err)
	require.NoError(t, s.SaveEngineers([]domain.Engineer{{ID: "e1", Name: "Dana"}}))
	require.NoError(t, s.set(bucketMeta, "schema", schemaVersion-1))
	require.NoError(t, s.Close())

	s, err = NewDashboardStore(dir, "https://tracker.example.com")
	require.NoError(t, err)

	_, ok := s.GetEngineers()
	assert.False(t, ok)

	// A reopen keeps data written under the current layout.
	require.NoError(t, s.SaveEngineers([]domain.Engineer{{ID: "e2", Name: "Marcus"}}))
	require.NoError(t, s.Close())

	s, err = NewDashboardStore(dir, "https://tracker.example.com")
	require.NoError(t, err)
	defer s.Close()
	out, ok := s.GetEngineers()
	require.True(t, ok)
	assert.Equal(t, "e2", out[0].ID)
}

func TestInvalidateAll(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveEngineers([]domain.Engineer{{ID: "e1"}}))
	require.NoError(t, s.SaveProjects([]domain.Project{{ID: "p1"}}))
	require.NoError(t, s.SaveWatermark(time.Now()))

	s.InvalidateAll()

	_, ok := s.GetEngineers()
	assert.False(t, ok)
	_, ok = s.GetProjects()
	assert.False(t, ok)
	_, ok = s.Watermark()
	assert.False(t, ok)
}
