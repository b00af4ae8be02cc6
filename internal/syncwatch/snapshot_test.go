package syncwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshotDefaults(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, snap.Status)
	assert.False(t, snap.IsRunning)
	assert.Nil(t, snap.LastSyncTime)
	assert.Nil(t, snap.ProgressPercent)
	assert.Nil(t, snap.PartialProgress)
	assert.Empty(t, snap.SyncingProjectID)
}

func TestDecodeSnapshotFull(t *testing.T) {
	body := []byte(`{
		"status": "syncing",
		"isRunning": true,
		"lastSyncTime": "2026-08-20T10:30:00Z",
		"progressPercent": 40,
		"syncingProjectId": "proj-7",
		"hasPartialSync": true,
		"partialSyncProgress": {"completed": 12, "total": 30},
		"error": ""
	}`)

	snap, err := DecodeSnapshot(body)
	require.NoError(t, err)
	assert.Equal(t, PhaseSyncing, snap.Status)
	assert.True(t, snap.IsRunning)
	require.NotNil(t, snap.LastSyncTime)
	require.NotNil(t, snap.ProgressPercent)
	assert.Equal(t, 40, *snap.ProgressPercent)
	assert.Equal(t, "proj-7", snap.SyncingProjectID)
	require.NotNil(t, snap.PartialProgress)
	assert.Equal(t, 12, snap.PartialProgress.Completed)
	assert.Equal(t, 30, snap.PartialProgress.Total)
}

func TestDecodeSnapshotUnknownStatusIsIdle(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"status": "rebalancing"}`))
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, snap.Status)
}

func TestDecodeSnapshotClampsProgress(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"progressPercent": 140}`))
	require.NoError(t, err)
	assert.Equal(t, 100, *snap.ProgressPercent)

	snap, err = DecodeSnapshot([]byte(`{"progressPercent": -3}`))
	require.NoError(t, err)
	assert.Equal(t, 0, *snap.ProgressPercent)
}

func TestDecodeSnapshotClampsPartialProgress(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"partialSyncProgress": {"completed": 50, "total": 30}}`))
	require.NoError(t, err)
	require.NotNil(t, snap.PartialProgress)
	assert.Equal(t, 30, snap.PartialProgress.Completed, "completed capped at total")
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"status":`))
	assert.Error(t, err)
}
