package tui

import "pulseboard/internal/syncwatch"

// syncEvent is one observer callback flattened onto a channel.
type syncEvent struct {
	scope  string
	state  syncwatch.State
	reload bool
}

// SyncFeed adapts watcher callbacks to a channel for Bubble Tea. Both the
// global watcher and any scoped watcher push into the same feed; the model
// demultiplexes by scope.
type SyncFeed struct {
	ch chan syncEvent
}

// NewSyncFeed creates a feed with enough buffer for bursty transitions.
func NewSyncFeed() *SyncFeed {
	return &SyncFeed{ch: make(chan syncEvent, 32)}
}

// OnChange returns a callback for syncwatch.Options.OnChange.
func (f *SyncFeed) OnChange(scope string) func(syncwatch.State) {
	return func(st syncwatch.State) {
		f.push(syncEvent{scope: scope, state: st})
	}
}

// OnReload returns a callback for syncwatch.Options.OnReload.
func (f *SyncFeed) OnReload(scope string) func() {
	return func() {
		f.push(syncEvent{scope: scope, reload: true})
	}
}

// push never blocks a watcher goroutine. When the buffer is full the oldest
// event is dropped; later states supersede earlier ones anyway.
func (f *SyncFeed) push(ev syncEvent) {
	for {
		select {
		case f.ch <- ev:
			return
		default:
			select {
			case <-f.ch:
			default:
			}
		}
	}
}
