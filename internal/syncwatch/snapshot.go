package syncwatch

import (
	"encoding/json"
	"time"
)

// Phase is the coarse job phase reported by the backend
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseSyncing Phase = "syncing"
	PhaseError   Phase = "error"
)

// PartialProgress counts resumable work units left behind by an interrupted job
type PartialProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Snapshot is one point-in-time read of the backend sync job. Immutable once
// decoded; every poll produces a fresh value.
type Snapshot struct {
	Status           Phase
	IsRunning        bool
	LastSyncTime     *time.Time
	ProgressPercent  *int
	SyncingProjectID string // Empty means a full sync covering every project
	HasPartialSync   bool
	PartialProgress  *PartialProgress
	Error            string
}

type snapshotDTO struct {
	Status              string           `json:"status"`
	IsRunning           bool             `json:"isRunning"`
	LastSyncTime        *time.Time       `json:"lastSyncTime"`
	ProgressPercent     *int             `json:"progressPercent"`
	SyncingProjectID    string           `json:"syncingProjectId"`
	HasPartialSync      bool             `json:"hasPartialSync"`
	PartialSyncProgress *PartialProgress `json:"partialSyncProgress"`
	Error               string           `json:"error"`
}

// DecodeSnapshot parses a status response body. Absent fields take their zero
// defaults and an unrecognized status maps to idle, so a newer backend never
// crashes the poller.
func DecodeSnapshot(body []byte) (Snapshot, error) {
	var dto snapshotDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Status:           PhaseIdle,
		IsRunning:        dto.IsRunning,
		LastSyncTime:     dto.LastSyncTime,
		SyncingProjectID: dto.SyncingProjectID,
		HasPartialSync:   dto.HasPartialSync,
		Error:            dto.Error,
	}

	switch Phase(dto.Status) {
	case PhaseSyncing:
		snap.Status = PhaseSyncing
	case PhaseError:
		snap.Status = PhaseError
	}

	if dto.ProgressPercent != nil {
		pct := clampPercent(*dto.ProgressPercent)
		snap.ProgressPercent = &pct
	}

	if pp := dto.PartialSyncProgress; pp != nil {
		p := *pp
		if p.Total < 0 {
			p.Total = 0
		}
		if p.Completed < 0 {
			p.Completed = 0
		}
		if p.Completed > p.Total {
			p.Completed = p.Total
		}
		snap.PartialProgress = &p
	}

	return snap, nil
}

func clampPercent(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
