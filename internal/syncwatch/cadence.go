package syncwatch

import "time"

// Poll cadence by phase. A short interval while a job is running keeps the
// indicator fresh; a longer one at rest bounds background request volume.
const (
	pollIntervalSyncing = 750 * time.Millisecond
	pollIntervalIdle    = 5 * time.Second
	pollIntervalError   = 5 * time.Second
)

// cadence maps observed phase to poll interval. The watcher owns a single
// timer; any phase change that alters the interval re-arms it atomically.
type cadence struct {
	idle    time.Duration
	syncing time.Duration
	err     time.Duration
}

func defaultCadence() cadence {
	return cadence{
		idle:    pollIntervalIdle,
		syncing: pollIntervalSyncing,
		err:     pollIntervalError,
	}
}

func (c cadence) intervalFor(p Phase) time.Duration {
	switch p {
	case PhaseSyncing:
		return c.syncing
	case PhaseError:
		return c.err
	default:
		return c.idle
	}
}
