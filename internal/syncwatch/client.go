package syncwatch

import (
	"context"
	"fmt"
	"net/http"
)

// Client is the boundary with the external synchronization engine. Watchers
// only ever read status; StartSync is the sole write, and the remote job is
// the only thing observer instances share.
type Client interface {
	// SyncStatus fetches one snapshot of the running (or resting) job.
	SyncStatus(ctx context.Context) (Snapshot, error)

	// StartSync asks the backend to begin a new sync job. A refusal is
	// returned as *StartRejectedError; any other error is a hard failure.
	StartSync(ctx context.Context) error
}

// StartRejectedError is a non-2xx response to a start request.
type StartRejectedError struct {
	StatusCode int
	Message    string
}

func (e *StartRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("sync start rejected (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("sync start rejected (%d)", e.StatusCode)
}

// Busy reports whether the rejection means a job is already running or the
// client is rate-limited. Busy rejections are reconciled, not surfaced.
func (e *StartRejectedError) Busy() bool {
	return e.StatusCode == http.StatusConflict || e.StatusCode == http.StatusTooManyRequests
}
