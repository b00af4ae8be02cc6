package syncwatch

import "time"

// errorMessageTTL bounds how long an error message lingers after the last
// report that set it. Only the message expires; the error phase stands until
// the server reports recovery.
const errorMessageTTL = 6 * time.Second

// State is one observer's view of the sync job. Each watcher owns its own
// copy; it is never shared by reference across observers, so two surfaces
// may briefly disagree by up to one poll interval.
type State struct {
	Phase            Phase
	IsRefreshing     bool // True between a locally-initiated refresh and its resolution
	Relevant         bool // Whether the running job concerns this observer's scope
	Progress         *int // Raw polled target; smoothing is the Animator's job
	SyncingProjectID string
	LastSyncTime     *time.Time
	HasPartialSync   bool
	PartialCompleted int
	PartialTotal     int
	ErrorMessage     string

	// wasSyncing records that a polled snapshot showed the job running, so
	// completion is detected on the edge into idle rather than on idle
	// itself (idle is also the resting state before any job ever ran).
	wasSyncing bool
	errSeq     int
}

// Effects are the one-shot side effects of a transition. The reducer itself
// never touches timers or the network; the watcher carries these out.
type Effects struct {
	// Reload fires exactly once per completed job: fresh data is available
	// and dependent views must reload.
	Reload bool
	// PollNow requests an immediate out-of-band poll to reconcile local
	// belief with authoritative server state.
	PollNow bool
	// ClearErrorAfter schedules expiry of the current error message.
	ClearErrorAfter time.Duration

	clearSeq int
}

// Reducer is the pure transition function for one observer. It holds no
// mutable state of its own, only the observer's scope.
type Reducer struct {
	// Scope restricts which jobs concern this observer. Empty means global:
	// every job is relevant. A project id means only that project's jobs
	// and full (unscoped) jobs are.
	Scope string
}

// NewState returns the resting state a watcher starts from.
func NewState() State {
	return State{Phase: PhaseIdle, Relevant: true}
}

// Reduce produces the next state and its side effects for one event.
func (r Reducer) Reduce(prev State, ev Event) (State, Effects) {
	next := prev
	var eff Effects

	switch ev := ev.(type) {
	case Polled:
		return r.reducePolled(prev, ev.Snapshot)

	case RefreshRequested:
		// Optimistic: show syncing now, reconcile when the server answers.
		next.Phase = PhaseSyncing
		next.IsRefreshing = true

	case RefreshAccepted:
		next.IsRefreshing = false
		next.ErrorMessage = ""

	case RefreshRejected:
		next.IsRefreshing = false
		if ev.Cause == RejectBusy {
			// Someone else's job is running; pull authoritative state.
			eff.PollNow = true
			break
		}
		next.Phase = PhaseError
		next.ErrorMessage = ev.Message
		next.errSeq++
		eff.ClearErrorAfter = errorMessageTTL
		eff.clearSeq = next.errSeq

	case errorMessageExpired:
		if ev.Seq == prev.errSeq {
			next.ErrorMessage = ""
		}
	}

	return next, eff
}

func (r Reducer) reducePolled(prev State, snap Snapshot) (State, Effects) {
	next := prev
	var eff Effects

	next.Relevant = r.relevant(snap)
	if !next.Relevant {
		// Another project's job: this observer must never show it as its own.
		snap = restingSnapshot(snap)
	}

	next.LastSyncTime = snap.LastSyncTime
	next.HasPartialSync = snap.HasPartialSync
	if pp := snap.PartialProgress; pp != nil {
		next.PartialCompleted = pp.Completed
		next.PartialTotal = pp.Total
	} else {
		next.PartialCompleted = 0
		next.PartialTotal = 0
	}

	switch snap.Status {
	case PhaseSyncing:
		// A just-finished job may report isRunning=false with a stale
		// syncing status for one poll; treating it as still syncing avoids
		// indicator flicker.
		next.Phase = PhaseSyncing
		next.wasSyncing = true
		next.Progress = snap.ProgressPercent
		next.SyncingProjectID = snap.SyncingProjectID

	case PhaseError:
		next.Phase = PhaseError
		next.IsRefreshing = false
		next.wasSyncing = false
		next.Progress = nil
		next.SyncingProjectID = ""
		next.ErrorMessage = snap.Error
		next.errSeq++
		eff.ClearErrorAfter = errorMessageTTL
		eff.clearSeq = next.errSeq

	default: // idle
		if prev.IsRefreshing {
			// A locally-initiated start request is still in flight; hold the
			// optimistic syncing display until it resolves.
			break
		}
		if prev.Phase == PhaseError {
			next.ErrorMessage = "" // server-confirmed recovery
		}
		if prev.wasSyncing && snap.LastSyncTime != nil {
			eff.Reload = true
		}
		next.Phase = PhaseIdle
		next.wasSyncing = false
		next.Progress = nil
		next.SyncingProjectID = ""
	}

	return next, eff
}

// relevant applies the scope filter: global observers accept everything;
// scoped observers accept their own project's jobs and full syncs (absent
// syncingProjectId), which affect every project.
func (r Reducer) relevant(snap Snapshot) bool {
	return r.Scope == "" || snap.SyncingProjectID == "" || snap.SyncingProjectID == r.Scope
}

// restingSnapshot masks a non-relevant job so a scoped observer sees the
// backend at rest.
func restingSnapshot(snap Snapshot) Snapshot {
	snap.Status = PhaseIdle
	snap.IsRunning = false
	snap.ProgressPercent = nil
	snap.SyncingProjectID = ""
	snap.Error = ""
	return snap
}
