package syncwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCadenceByPhase(t *testing.T) {
	c := defaultCadence()

	assert.Equal(t, pollIntervalSyncing, c.intervalFor(PhaseSyncing))
	assert.Equal(t, pollIntervalIdle, c.intervalFor(PhaseIdle))
	assert.Equal(t, pollIntervalError, c.intervalFor(PhaseError))

	// An active job polls much faster than a resting backend.
	assert.Less(t, c.intervalFor(PhaseSyncing), c.intervalFor(PhaseIdle))
	assert.Less(t, c.intervalFor(PhaseSyncing), c.intervalFor(PhaseError))
}
