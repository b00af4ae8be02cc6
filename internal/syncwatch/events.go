package syncwatch

// Event is the tagged union of reducer inputs: either a polled snapshot or a
// local action on this observer. The reducer sees nothing else.
type Event interface{ event() }

// Polled carries a snapshot received from the status endpoint
type Polled struct {
	Snapshot Snapshot
}

// RefreshRequested marks a locally-initiated refresh. The observer shows
// syncing immediately, before the server confirms, so there is no visible
// dead interval during the request round-trip.
type RefreshRequested struct{}

// RefreshAccepted resolves a start request that the server accepted
type RefreshAccepted struct{}

// RejectCause classifies a refused start request
type RejectCause int

const (
	// RejectBusy covers 409/429: a job is already running or the client is
	// rate-limited. Not an error; reconciled with an immediate poll.
	RejectBusy RejectCause = iota
	// RejectHard covers every other start failure
	RejectHard
)

// RefreshRejected resolves a start request the server refused
type RefreshRejected struct {
	Cause   RejectCause
	Message string
}

// errorMessageExpired clears a stale error message after its TTL. Seq must
// match the state's current sequence so an expiry never clobbers a message
// set after it was scheduled.
type errorMessageExpired struct {
	Seq int
}

func (Polled) event()              {}
func (RefreshRequested) event()    {}
func (RefreshAccepted) event()     {}
func (RefreshRejected) event()     {}
func (errorMessageExpired) event() {}
