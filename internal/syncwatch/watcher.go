package syncwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Options configure a Watcher.
type Options struct {
	// Scope restricts the watcher to one project's jobs. Empty watches all.
	Scope string

	// OnChange is invoked with the new observed state after every
	// transition. Called outside the watcher's lock.
	OnChange func(State)

	// OnReload is invoked exactly once per completed job, when fresh data
	// is available and dependent views must reload.
	OnReload func()

	Logger *slog.Logger
}

// Watcher is one independent observer of the backend sync job: it polls
// status on a phase-dependent cadence, folds snapshots and local actions
// through the reducer, and animates displayed progress. Each UI surface that
// needs sync awareness owns its own Watcher and stops it when the surface
// goes away.
type Watcher struct {
	client   Client
	reducer  Reducer
	cadence  cadence
	logger   *slog.Logger
	onChange func(State)
	onReload func()

	mu       sync.Mutex
	state    State
	anim     *Animator
	timer    *time.Timer
	timerGen int
	started  bool
	stopped  bool
	inFlight bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a watcher. It does not poll until Start is called.
func New(client Client, opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		client:   client,
		reducer:  Reducer{Scope: opts.Scope},
		cadence:  defaultCadence(),
		logger:   logger,
		onChange: opts.OnChange,
		onReload: opts.OnReload,
		state:    NewState(),
		anim:     NewAnimator(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start arms the first poll immediately. Calling Start twice is a no-op.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	w.rescheduleLocked(0)
}

// Stop cancels the poll timer and any in-flight request. Results arriving
// after Stop are discarded: no state mutation occurs after teardown.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.cancel()
}

// State returns a copy of the current observed state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Progress samples the animated display progress at now.
func (w *Watcher) Progress(now time.Time) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.anim.ValueAt(now)
}

// ShowsProgress reports whether a progress figure should be rendered at all.
func (w *Watcher) ShowsProgress() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Progress != nil
}

// Apply feeds one event through the reducer and carries out its effects.
// Events applied after Stop are dropped.
func (w *Watcher) Apply(ev Event) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	notify := w.applyLocked(ev)
	w.mu.Unlock()
	for _, fn := range notify {
		fn()
	}
}

// applyLocked runs the reducer and schedules effects. It returns callbacks
// to invoke once the lock is released, so observers can safely call back
// into the watcher.
func (w *Watcher) applyLocked(ev Event) []func() {
	prevPhase := w.state.Phase
	next, eff := w.reducer.Reduce(w.state, ev)
	w.state = next

	if _, polled := ev.(Polled); polled {
		w.anim.SetPercent(time.Now(), next.Progress)
	} else if next.Phase != prevPhase {
		// Local transitions (optimistic refresh, hard rejection) change the
		// required cadence without a poll completing; re-arm the timer now.
		w.rescheduleLocked(w.cadence.intervalFor(next.Phase))
	}

	var notify []func()
	if w.onChange != nil {
		st := next
		notify = append(notify, func() { w.onChange(st) })
	}
	if eff.Reload && w.onReload != nil {
		notify = append(notify, w.onReload)
	}
	if eff.PollNow {
		w.rescheduleLocked(0)
	}
	if eff.ClearErrorAfter > 0 {
		seq := eff.clearSeq
		time.AfterFunc(eff.ClearErrorAfter, func() {
			w.Apply(errorMessageExpired{Seq: seq})
		})
	}
	return notify
}

// rescheduleLocked cancels the armed timer, if any, and arms a single new
// one. The generation counter keeps a canceled timer that already fired from
// acting on a stale schedule, so two timers never race for one watcher.
func (w *Watcher) rescheduleLocked(d time.Duration) {
	if w.stopped || !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerGen++
	gen := w.timerGen
	w.timer = time.AfterFunc(d, func() { w.tick(gen) })
}
