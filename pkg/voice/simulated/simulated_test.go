package simulated

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_startAndStop(t *testing.T) {
	instance, events := provision(t, Configuration{})

	require.NoError(t, instance.Start("agent"))
	assert.Equal(t, "started", events.next(t))

	require.NoError(t, instance.Stop())
	assert.Equal(t, "ended", events.next(t))
	events.none(t)
}

func TestSession_Stop_withoutCall(t *testing.T) {
	instance, events := provision(t, Configuration{})

	require.NoError(t, instance.Stop())
	events.none(t)
}

func TestSession_Stop_beforeStarted(t *testing.T) {
	instance, events := provision(t, Configuration{StartDelay: time.Hour})

	require.NoError(t, instance.Start("agent"))
	require.NoError(t, instance.Stop())
	events.none(t)
}

func TestSession_failAfter(t *testing.T) {
	instance, events := provision(t, Configuration{FailAfter: 10 * time.Millisecond, FailWith: "network drop"})

	require.NoError(t, instance.Start("agent"))
	assert.Equal(t, "started", events.next(t))
	assert.Equal(t, "error:network drop", events.next(t))

	require.NoError(t, instance.Stop())
	events.none(t)
}

func provision(t *testing.T, conf Configuration) (*Session, *eventRecorder) {
	t.Helper()
	result, err := (&Provider{Conf: &conf}).Provision("pk-secret")
	require.NoError(t, err)
	events := &eventRecorder{make(chan string, 16)}
	s := result.(*Session)
	s.Subscribe(events)
	return s, events
}

type eventRecorder struct {
	ch chan string
}

func (this *eventRecorder) OnStarted() {
	this.ch <- "started"
}

func (this *eventRecorder) OnEnded() {
	this.ch <- "ended"
}

func (this *eventRecorder) OnError(detail string) {
	this.ch <- "error:" + detail
}

func (this *eventRecorder) next(t *testing.T) string {
	t.Helper()
	select {
	case v := <-this.ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timeout while waiting for voice event")
		return ""
	}
}

func (this *eventRecorder) none(t *testing.T) {
	t.Helper()
	select {
	case v := <-this.ch:
		t.Fatalf("unexpected voice event: %s", v)
	case <-time.After(50 * time.Millisecond):
	}
}
