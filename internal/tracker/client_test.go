package tracker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/domain"
	"pulseboard/internal/syncwatch"
)

func TestEngineersRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/engineers", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"engineers":[{"id":"e1","name":"Dana","role":"Backend","email":"dana@example.com","active":true}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", nil)
	engineers, err := c.Engineers(context.Background())
	require.NoError(t, err)
	require.Len(t, engineers, 1)
	assert.Equal(t, "Dana", engineers[0].Name)
	assert.True(t, engineers[0].Active)
}

func TestProjectsParsesDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"projects":[
			{"id":"p1","name":"Billing","status":"active","health":"yellow","lead":"Dana","startDate":"2026-01-05","endDate":"2026-09-30"},
			{"id":"p2","name":"Search","status":"weird","health":"","lead":"","startDate":"","endDate":""}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	projects, err := c.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)

	assert.Equal(t, 2026, projects[0].StartDate.Year())
	assert.Equal(t, domain.HealthYellow, projects[0].Health)

	// Unknown enum values fall back to safe defaults.
	assert.Equal(t, domain.ProjectActive, projects[1].Status)
	assert.True(t, projects[1].StartDate.IsZero())
}

func TestProjectAssignmentsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	_, err := c.ProjectAssignments(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestProjectAssignmentsScopedPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/p1/assignments", r.URL.Path)
		w.Write([]byte(`{"assignments":[{"id":"a1","engineerId":"e1","projectId":"p1","startDate":"2026-08-01","endDate":"2026-09-01","percent":50}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	assignments, err := c.ProjectAssignments(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, 50, assignments[0].Percent)
}

func TestAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", nil)
	_, err := c.Engineers(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
}

func TestServerOffline(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "t", nil)
	_, err := c.Engineers(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestSyncStatusDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sync/status", r.URL.Path)
		w.Write([]byte(`{"status":"syncing","isRunning":true,"progressPercent":55,"syncingProjectId":"p1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	snap, err := c.SyncStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, syncwatch.PhaseSyncing, snap.Status)
	require.NotNil(t, snap.ProgressPercent)
	assert.Equal(t, 55, *snap.ProgressPercent)
	assert.Equal(t, "p1", snap.SyncingProjectID)
}

func TestSyncStatusNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	_, err := c.SyncStatus(context.Background())
	assert.Error(t, err)
}

func TestStartSyncAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/sync", r.URL.Path)
		w.Write([]byte(`{"message":"sync started"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	assert.NoError(t, c.StartSync(context.Background()))
}

func TestStartSyncConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"already syncing"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	err := c.StartSync(context.Background())

	var rej *syncwatch.StartRejectedError
	require.True(t, errors.As(err, &rej))
	assert.True(t, rej.Busy())
	assert.Equal(t, "already syncing", rej.Message)
}

func TestStartSyncHardFailureMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	err := c.StartSync(context.Background())

	var rej *syncwatch.StartRejectedError
	require.True(t, errors.As(err, &rej))
	assert.False(t, rej.Busy())
	assert.Equal(t, http.StatusInternalServerError, rej.StatusCode)
}
