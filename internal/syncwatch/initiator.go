package syncwatch

import "errors"

// RequestRefresh starts a new sync job. It is a no-op while a refresh is
// already pending or a job is observed running; that is only a client-side
// debounce, the server still enforces exclusivity. The observed state flips
// to syncing optimistically before the request is issued.
func (w *Watcher) RequestRefresh() {
	w.mu.Lock()
	if w.stopped || w.state.IsRefreshing || w.state.Phase == PhaseSyncing {
		w.mu.Unlock()
		return
	}
	notify := w.applyLocked(RefreshRequested{})
	ctx := w.ctx
	w.mu.Unlock()
	for _, fn := range notify {
		fn()
	}

	go func() {
		err := w.client.StartSync(ctx)
		if err == nil {
			w.Apply(RefreshAccepted{})
			return
		}

		var rej *StartRejectedError
		if errors.As(err, &rej) && rej.Busy() {
			w.logger.Debug("sync already running", "status", rej.StatusCode)
			w.Apply(RefreshRejected{Cause: RejectBusy, Message: rej.Message})
			return
		}

		msg := err.Error()
		if rej != nil && rej.Message != "" {
			msg = rej.Message
		}
		w.logger.Warn("sync start failed", "error", err)
		w.Apply(RefreshRejected{Cause: RejectHard, Message: msg})
	}()
}
