package syncwatch

// tick runs when the poll timer fires. At most one status request may be
// outstanding per watcher: if a tick elapses while the previous request is
// still pending, the tick is skipped (not queued), bounding outstanding load
// regardless of server latency.
func (w *Watcher) tick(gen int) {
	w.mu.Lock()
	if w.stopped || gen != w.timerGen {
		w.mu.Unlock()
		return
	}
	if w.inFlight {
		w.rescheduleLocked(w.cadence.intervalFor(w.state.Phase))
		w.mu.Unlock()
		return
	}
	w.inFlight = true
	ctx := w.ctx
	w.mu.Unlock()

	go func() {
		snap, err := w.client.SyncStatus(ctx)

		w.mu.Lock()
		if w.stopped {
			// Surface torn down while the request was in flight; discard.
			w.mu.Unlock()
			return
		}
		w.inFlight = false

		var notify []func()
		if err != nil {
			// Transient poll failures never surface and never change state;
			// the next tick simply tries again.
			w.logger.Debug("sync status poll failed", "error", err)
		} else {
			notify = w.applyLocked(Polled{Snapshot: snap})
		}
		w.rescheduleLocked(w.cadence.intervalFor(w.state.Phase))
		w.mu.Unlock()

		for _, fn := range notify {
			fn()
		}
	}()
}
