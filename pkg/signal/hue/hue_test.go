package hue

import (
	"errors"
	"testing"

	"github.com/amimof/huego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/call-indicator/pkg/common"
	"github.com/blaubaer/call-indicator/pkg/credentials"
	"github.com/blaubaer/call-indicator/pkg/session"
	"github.com/blaubaer/call-indicator/pkg/signal"
)

type setCall struct {
	group bool
	id    int
	state huego.State
}

type fakeBridge struct {
	lights []huego.Light
	groups []huego.Group
	setErr error
	calls  []setCall
}

func (this *fakeBridge) GetLights() ([]huego.Light, error) {
	return this.lights, nil
}

func (this *fakeBridge) GetGroups() ([]huego.Group, error) {
	return this.groups, nil
}

func (this *fakeBridge) SetLightState(id int, state huego.State) (*huego.Response, error) {
	this.calls = append(this.calls, setCall{false, id, state})
	return &huego.Response{}, this.setErr
}

func (this *fakeBridge) SetGroupState(id int, state huego.State) (*huego.Response, error) {
	this.calls = append(this.calls, setCall{true, id, state})
	return &huego.Response{}, this.setErr
}

func newTestHue(b *fakeBridge, kinds ...HueKind) *Hue {
	conf := NewConfiguration()
	conf.Kinds = kinds
	return &Hue{
		conf:        &conf,
		credentials: credentials.Credentials{HueBridge: "bridge.local", HueUser: "user"},
		newBridge: func(host, user string) bridge {
			return b
		},
	}
}

var (
	activeCtx = signal.NewContext(session.Snapshot{Status: session.StatusActive, IsActive: true})
	readyCtx  = signal.NewContext(session.Snapshot{Status: session.StatusReady})
)

func TestHue_Update_filtersByName(t *testing.T) {
	b := &fakeBridge{
		lights: []huego.Light{
			{ID: 1, Name: "OnCall Desk", State: &huego.State{}},
			{ID: 2, Name: "Kitchen", State: &huego.State{}},
		},
		groups: []huego.Group{
			{ID: 7, Name: "OnCall Office"},
		},
	}
	instance := newTestHue(b)

	require.NoError(t, instance.Update())

	require.Len(t, instance.lights, 1)
	assert.Equal(t, 1, instance.lights[0].ID)
	require.Len(t, instance.groups, 1)
	assert.Equal(t, 7, instance.groups[0].ID)
	assert.NotNil(t, instance.groups[0].State)
}

func TestHue_Update_respectsKinds(t *testing.T) {
	b := &fakeBridge{
		lights: []huego.Light{{ID: 1, Name: "OnCall Desk"}},
		groups: []huego.Group{{ID: 7, Name: "OnCall Office"}},
	}
	instance := newTestHue(b, HueKindGroup)

	require.NoError(t, instance.Update())

	assert.Empty(t, instance.lights)
	assert.Len(t, instance.groups, 1)
}

func TestHue_Ensure(t *testing.T) {
	b := &fakeBridge{
		lights: []huego.Light{{ID: 1, Name: "OnCall Desk", State: &huego.State{}}},
		groups: []huego.Group{{ID: 7, Name: "OnCall Office", State: &huego.State{}}},
	}
	instance := newTestHue(b)
	require.NoError(t, instance.Update())

	require.NoError(t, instance.Ensure(activeCtx))
	on := huego.State{On: true, Bri: 254, Hue: 62259, Sat: 197}
	assert.Equal(t, []setCall{{false, 1, on}, {true, 7, on}}, b.calls)

	b.calls = nil
	require.NoError(t, instance.Ensure(activeCtx))
	assert.Empty(t, b.calls)

	require.NoError(t, instance.Ensure(readyCtx))
	off := huego.State{On: false}
	assert.Equal(t, []setCall{{false, 1, off}, {true, 7, off}}, b.calls)

	b.calls = nil
	require.NoError(t, instance.Ensure(readyCtx))
	assert.Empty(t, b.calls)
}

func TestHue_Ensure_reappliesChangedColor(t *testing.T) {
	b := &fakeBridge{
		lights: []huego.Light{{ID: 1, Name: "OnCall Desk", State: &huego.State{On: true, Bri: 254, Hue: 100, Sat: 197}}},
	}
	instance := newTestHue(b, HueKindLight)
	require.NoError(t, instance.Update())

	require.NoError(t, instance.Ensure(activeCtx))

	require.Len(t, b.calls, 1)
	assert.Equal(t, uint16(62259), b.calls[0].state.Hue)
}

func TestHue_Ensure_failsOnBridgeError(t *testing.T) {
	b := &fakeBridge{
		lights: []huego.Light{{ID: 1, Name: "OnCall Desk", State: &huego.State{}}},
		setErr: errors.New("bridge gone"),
	}
	instance := newTestHue(b, HueKindLight)
	require.NoError(t, instance.Update())

	err := instance.Ensure(activeCtx)

	require.Error(t, err)
	assert.ErrorContains(t, err, "bridge gone")
	assert.False(t, instance.lights[0].State.On)
}

func TestHue_Ensure_requiresPairing(t *testing.T) {
	conf := NewConfiguration()
	instance := &Hue{conf: &conf}

	assert.EqualError(t, instance.Ensure(activeCtx), "not paired with hue bridge")
}

func TestConfiguration_defaultName(t *testing.T) {
	conf := NewConfiguration()

	assert.True(t, conf.Name.MatchString("OnCall Desk"))
	assert.False(t, conf.Name.MatchString("Desk OnCall"))
	assert.Equal(t, common.MustNewRegexp("^OnCall").String(), conf.Name.String())
}
