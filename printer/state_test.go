package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGcodeState(t *testing.T) {
	assert.Equal(t, GcodeStateRunning, ParseGcodeState("RUNNING"))
	assert.Equal(t, GcodeStatePause, ParseGcodeState("PAUSE"))
	assert.Equal(t, GcodeStateIdle, ParseGcodeState("IDLE"))
	assert.Equal(t, GcodeStateUnknown, ParseGcodeState("SOMETHING_NEW"))
	assert.Equal(t, GcodeStateUnknown, ParseGcodeState(""))
}

func TestPrintStateFromCode(t *testing.T) {
	assert.Equal(t, StatePrinting, PrintStateFromCode(0))
	assert.Equal(t, StateAutoBedLeveling, PrintStateFromCode(1))
	assert.Equal(t, StatePausedNozzleClog, PrintStateFromCode(35))
	assert.Equal(t, StateIdle, PrintStateFromCode(255))
	assert.Equal(t, StateIdle, PrintStateFromCode(-1))
	assert.Equal(t, StateUnknown, PrintStateFromCode(999))
}

func TestPrintStateString(t *testing.T) {
	assert.Equal(t, "PRINTING", StatePrinting.String())
	assert.Equal(t, "PAUSED_USER", StatePausedUser.String())
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "UNKNOWN", PrintState(1234).String())
}
