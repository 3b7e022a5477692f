package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/call-indicator/pkg/session"
)

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateOn, StateOf(session.Snapshot{Status: session.StatusActive, IsActive: true}))
	assert.Equal(t, StateOff, StateOf(session.Snapshot{Status: session.StatusReady}))
	assert.Equal(t, StateOff, StateOf(session.Snapshot{Status: session.StatusError, LastError: "boom"}))
}

func TestState_Set(t *testing.T) {
	var actual State

	require.NoError(t, actual.Set(" ON "))
	assert.Equal(t, StateOn, actual)

	require.NoError(t, actual.Set("unavailable"))
	assert.Equal(t, StateUnknown, actual)
	assert.Equal(t, "unknown", actual.String())

	assert.EqualError(t, actual.Set("maybe"), "illegal-signal-state: maybe")
}

func TestState_MarshalText(t *testing.T) {
	text, err := StateOff.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "off", string(text))

	_, err = State(7).MarshalText()
	assert.EqualError(t, err, "illegal signal state: 7")
	assert.Equal(t, "illegal-signal-state-7", State(7).String())
}

func TestNewContext(t *testing.T) {
	actual := NewContext(session.Snapshot{Status: session.StatusActive, IsActive: true})

	assert.Equal(t, StateOn, actual.State())
	assert.Equal(t, session.StatusActive, actual.Snapshot().Status)
	assert.Equal(t, session.IconPause, actual.Presentation().Icon)
}
