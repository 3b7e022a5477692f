package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/call-indicator/pkg/notify"
	"github.com/blaubaer/call-indicator/pkg/voice"
)

func TestController_scenarioStartAndStop(t *testing.T) {
	instance, provider, rec := newTestController()

	require.NoError(t, instance.Initialize(validConfiguration()))
	assert.Equal(t, StatusReady, instance.Status())
	assert.Equal(t, []string{"VALID"}, provider.keys)
	sess := provider.last()

	instance.ToggleCall()
	assert.Equal(t, []string{"VALID"}, sess.startedWith())
	assert.Equal(t, Snapshot{Status: StatusReady, Pending: PendingStart}, instance.Snapshot())

	sess.FireStarted()
	assert.Equal(t, Snapshot{Status: StatusActive, IsActive: true}, instance.Snapshot())

	instance.ToggleCall()
	assert.Equal(t, 1, sess.stopCalls())
	assert.Equal(t, Snapshot{Status: StatusActive, IsActive: true, Pending: PendingStop}, instance.Snapshot())

	sess.FireEnded()
	assert.Equal(t, Snapshot{Status: StatusReady}, instance.Snapshot())

	assert.Equal(t, []string{"Call Started", "Call Ended"}, rec.titles())
}

func TestController_scenarioPlaceholder(t *testing.T) {
	instance, provider, rec := newTestController()

	conf := NewConfiguration()
	conf.PublicKey = "YOUR_KEY"
	conf.AgentId = "YOUR_ID"

	require.NoError(t, instance.Initialize(conf))
	assert.Equal(t, StatusMisconfigured, instance.Status())
	assert.Empty(t, provider.keys)
	require.Len(t, rec.all(), 1)
	assert.Equal(t, notify.KindWarning, rec.all()[0].Kind)

	var confErr *ConfigurationError
	require.ErrorAs(t, instance.Err(), &confErr)
	assert.Equal(t, []string{"publicKey", "agentId"}, confErr.Fields)
	assert.Empty(t, instance.Snapshot().LastError)

	instance.ToggleCall()
	assert.Equal(t, StatusMisconfigured, instance.Status())
	require.Len(t, rec.all(), 2)
	assert.Equal(t, notify.KindWarning, rec.all()[1].Kind)
	assert.Equal(t, "Voice Configuration Needed", rec.all()[1].Title)
}

func TestController_ToggleCall_uninitialized(t *testing.T) {
	instance, _, rec := newTestController()

	instance.ToggleCall()
	assert.Equal(t, StatusUninitialized, instance.Status())
	require.Len(t, rec.all(), 1)
	assert.Equal(t, "Voice Assistant Not Ready", rec.all()[0].Title)

	instance.ToggleCall()
	assert.Equal(t, StatusUninitialized, instance.Status())
	assert.Len(t, rec.all(), 2)
}

func TestController_scenarioRuntimeError(t *testing.T) {
	instance, provider, rec := newTestController()
	require.NoError(t, instance.Initialize(validConfiguration()))
	sess := provider.last()

	instance.ToggleCall()
	sess.FireStarted()
	require.Equal(t, StatusActive, instance.Status())

	sess.FireError("network drop")
	assert.Equal(t, Snapshot{Status: StatusError, LastError: "network drop"}, instance.Snapshot())
	var runtimeErr *SessionRuntimeError
	require.ErrorAs(t, instance.Err(), &runtimeErr)

	last := rec.all()[len(rec.all())-1]
	assert.Equal(t, notify.KindError, last.Kind)
	assert.Equal(t, "An error occurred: network drop", last.Message)

	instance.ToggleCall()
	assert.Equal(t, []string{"VALID", "VALID"}, sess.startedWith())
	assert.Equal(t, Snapshot{Status: StatusReady, Pending: PendingStart}, instance.Snapshot())

	sess.FireStarted()
	assert.Equal(t, StatusActive, instance.Status())
}

func TestController_OnError_withoutDetail(t *testing.T) {
	instance, provider, rec := newTestController()
	require.NoError(t, instance.Initialize(validConfiguration()))

	provider.last().FireError("")

	assert.Equal(t, "Unknown error", instance.Snapshot().LastError)
	assert.Equal(t, "An error occurred: Unknown error", rec.all()[0].Message)
}

func TestController_ToggleCall_ignoredWhilePending(t *testing.T) {
	instance, provider, rec := newTestController()
	require.NoError(t, instance.Initialize(validConfiguration()))
	sess := provider.last()

	instance.ToggleCall()
	instance.ToggleCall()
	assert.Equal(t, []string{"VALID"}, sess.startedWith())

	sess.FireStarted()
	instance.ToggleCall()
	instance.ToggleCall()
	assert.Equal(t, 1, sess.stopCalls())

	assert.Equal(t, []string{"Call Started"}, rec.titles())
}

func TestController_ToggleCall_startFails(t *testing.T) {
	instance, provider, _ := newTestController()
	require.NoError(t, instance.Initialize(validConfiguration()))
	sess := provider.last()
	sess.startErr = errors.New("busy")

	instance.ToggleCall()

	assert.Equal(t, Snapshot{Status: StatusError, LastError: "cannot start call: busy"}, instance.Snapshot())
}

func TestController_ToggleCall_stopFails(t *testing.T) {
	instance, provider, _ := newTestController()
	require.NoError(t, instance.Initialize(validConfiguration()))
	sess := provider.last()
	sess.stopErr = errors.New("gone")

	instance.ToggleCall()
	sess.FireStarted()
	instance.ToggleCall()

	assert.Equal(t, Snapshot{Status: StatusError, LastError: "cannot stop call: gone"}, instance.Snapshot())
}

func TestController_synchronousCapability(t *testing.T) {
	instance, provider, rec := newTestController()
	provider.synchronous = true
	require.NoError(t, instance.Initialize(validConfiguration()))

	instance.ToggleCall()
	assert.Equal(t, StatusActive, instance.Status())

	instance.ToggleCall()
	assert.Equal(t, StatusReady, instance.Status())

	assert.Equal(t, []string{"Call Started", "Call Ended"}, rec.titles())
}

func TestController_provisioningFails(t *testing.T) {
	instance, provider, rec := newTestController()
	provider.err = errors.New("service unavailable")

	require.NoError(t, instance.Initialize(validConfiguration()))
	assert.Equal(t, StatusError, instance.Status())
	assert.Equal(t, "cannot provision voice session: service unavailable", instance.Snapshot().LastError)
	var initErr *CapabilityInitError
	require.ErrorAs(t, instance.Err(), &initErr)
	assert.Equal(t, []string{"Voice Initialization Failed"}, rec.titles())

	instance.ToggleCall()
	assert.Equal(t, StatusError, instance.Status())
	assert.Len(t, provider.keys, 2)

	provider.err = nil
	instance.ToggleCall()
	assert.Len(t, provider.keys, 3)
	assert.Equal(t, Snapshot{Status: StatusReady, Pending: PendingStart}, instance.Snapshot())
	assert.Equal(t, []string{"VALID"}, provider.last().startedWith())
}

func TestController_withoutProvider(t *testing.T) {
	instance := NewController(nil, nil)

	require.NoError(t, instance.Initialize(validConfiguration()))
	assert.Equal(t, StatusError, instance.Status())

	instance.Dispose()
	assert.Equal(t, StatusDisposed, instance.Status())
}

func TestController_Initialize_misuse(t *testing.T) {
	instance, _, _ := newTestController()

	require.NoError(t, instance.Initialize(validConfiguration()))
	assert.Equal(t, ErrAlreadyInitialized, instance.Initialize(validConfiguration()))

	instance.Dispose()
	assert.Equal(t, ErrDisposed, instance.Initialize(validConfiguration()))
}

func TestController_Initialize_reconfigure(t *testing.T) {
	instance, provider, _ := newTestController()

	conf := NewConfiguration()
	conf.PublicKey = "YOUR_VAPI_PUBLIC_KEY"
	conf.AgentId = "VALID"
	require.NoError(t, instance.Initialize(conf))
	assert.Equal(t, StatusMisconfigured, instance.Status())

	require.NoError(t, instance.Initialize(validConfiguration()))
	assert.Equal(t, StatusReady, instance.Status())

	provider.last().FireError("boom")
	require.NoError(t, instance.Initialize(validConfiguration()))
	assert.Equal(t, StatusReady, instance.Status())
	assert.Len(t, provider.sessions, 2)
	assert.Equal(t, 1, provider.sessions[0].stopCalls())
	assert.Equal(t, 0, provider.sessions[0].subscribers())
}

func TestController_Dispose(t *testing.T) {
	instance, provider, rec := newTestController()
	require.NoError(t, instance.Initialize(validConfiguration()))
	sess := provider.last()
	instance.ToggleCall()
	sess.FireStarted()

	instance.Dispose()
	instance.Dispose()

	assert.Equal(t, 1, sess.stopCalls())
	assert.Equal(t, StatusDisposed, instance.Status())
	assert.Equal(t, 0, sess.subscribers())

	sess.FireEnded()
	sess.FireError("late")
	instance.ToggleCall()
	assert.Equal(t, StatusDisposed, instance.Status())
	assert.Equal(t, []string{"Call Started"}, rec.titles())
}

func TestController_Dispose_whilePending(t *testing.T) {
	instance, provider, _ := newTestController()
	require.NoError(t, instance.Initialize(validConfiguration()))
	sess := provider.last()
	instance.ToggleCall()

	instance.Dispose()

	assert.Equal(t, 1, sess.stopCalls())
	assert.Equal(t, Snapshot{Status: StatusDisposed}, instance.Snapshot())
}

func TestController_Dispose_swallowsFailures(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		instance, provider, _ := newTestController()
		require.NoError(t, instance.Initialize(validConfiguration()))
		provider.last().stopErr = errors.New("already gone")

		assert.NotPanics(t, instance.Dispose)
		assert.Equal(t, StatusDisposed, instance.Status())
	})
	t.Run("panic", func(t *testing.T) {
		instance, provider, _ := newTestController()
		require.NoError(t, instance.Initialize(validConfiguration()))
		provider.last().stopPanic = "kaputt"

		assert.NotPanics(t, instance.Dispose)
		assert.Equal(t, StatusDisposed, instance.Status())
		assert.Equal(t, 0, provider.last().subscribers())
	})
	t.Run("uninitialized", func(t *testing.T) {
		instance, _, _ := newTestController()
		assert.NotPanics(t, instance.Dispose)
		assert.Equal(t, StatusDisposed, instance.Status())
	})
}

func TestController_eventSequences(t *testing.T) {
	cases := []struct {
		name     string
		events   string
		expected Status
	}{
		{"none", "", StatusReady},
		{"started", "s", StatusActive},
		{"started ended", "se", StatusReady},
		{"two calls", "sese", StatusReady},
		{"started error", "sx", StatusError},
		{"error started", "xs", StatusActive},
		{"started error ended", "sxe", StatusReady},
		{"ended only", "e", StatusReady},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			instance, provider, _ := newTestController()
			require.NoError(t, instance.Initialize(validConfiguration()))
			sess := provider.last()
			for _, e := range c.events {
				switch e {
				case 's':
					sess.FireStarted()
				case 'e':
					sess.FireEnded()
				case 'x':
					sess.FireError("x")
				}
			}
			actual := instance.Snapshot()
			assert.Equal(t, c.expected, actual.Status)
			assert.Equal(t, actual.Status == StatusActive, actual.IsActive)
		})
	}
}

func TestController_concurrentEvents(t *testing.T) {
	instance, provider, rec := newTestController()
	require.NoError(t, instance.Initialize(validConfiguration()))
	sess := provider.last()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.FireStarted()
			_ = instance.Snapshot()
			sess.FireEnded()
		}()
	}
	wg.Wait()

	assert.Len(t, rec.all(), 100)
	assert.Equal(t, StatusReady, instance.Status())
}

func TestController_concurrentEvents_sinkReadsSnapshot(t *testing.T) {
	provider := &fakeProvider{}
	var instance *Controller
	var mutex sync.Mutex
	var observed []Status
	instance = NewController(provider, notify.SinkFunc(func(n notify.Notification) {
		s := instance.Snapshot()
		mutex.Lock()
		defer mutex.Unlock()
		observed = append(observed, s.Status)
	}))
	require.NoError(t, instance.Initialize(validConfiguration()))
	sess := provider.last()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sess.FireStarted()
				sess.FireEnded()
			}()
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events blocked while the sink reads the snapshot")
	}

	mutex.Lock()
	defer mutex.Unlock()
	assert.Len(t, observed, 40)
	assert.Equal(t, StatusReady, instance.Status())
}

func TestController_notificationsKeepTransitionOrder(t *testing.T) {
	instance, provider, rec := newTestController()
	require.NoError(t, instance.Initialize(validConfiguration()))
	sess := provider.last()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.FireStarted()
			sess.FireError("boom")
			sess.FireEnded()
		}()
	}
	wg.Wait()

	titles := rec.titles()
	require.Len(t, titles, 60)
	assert.Equal(t, "Call Ended", titles[len(titles)-1])
	assert.Equal(t, StatusReady, instance.Status())
}

func validConfiguration() Configuration {
	result := NewConfiguration()
	result.PublicKey = "VALID"
	result.AgentId = "VALID"
	return result
}

func newTestController() (*Controller, *fakeProvider, *recorder) {
	provider := &fakeProvider{}
	rec := &recorder{}
	return NewController(provider, rec), provider, rec
}

type fakeProvider struct {
	err         error
	synchronous bool

	keys     []string
	sessions []*fakeSession
}

func (this *fakeProvider) Provision(publicKey string) (voice.Session, error) {
	this.keys = append(this.keys, publicKey)
	if this.err != nil {
		return nil, this.err
	}
	result := &fakeSession{synchronous: this.synchronous}
	this.sessions = append(this.sessions, result)
	return result, nil
}

func (this *fakeProvider) last() *fakeSession {
	return this.sessions[len(this.sessions)-1]
}

type fakeSession struct {
	voice.Handlers

	synchronous bool
	startErr    error
	stopErr     error
	stopPanic   any

	mutex        sync.Mutex
	starts       []string
	stops        int
	nSubscribers int
}

func (this *fakeSession) Start(agentId string) error {
	this.mutex.Lock()
	this.starts = append(this.starts, agentId)
	this.mutex.Unlock()
	if this.startErr != nil {
		return this.startErr
	}
	if this.synchronous {
		this.FireStarted()
	}
	return nil
}

func (this *fakeSession) Stop() error {
	this.mutex.Lock()
	this.stops++
	this.mutex.Unlock()
	if this.stopPanic != nil {
		panic(this.stopPanic)
	}
	if this.stopErr != nil {
		return this.stopErr
	}
	if this.synchronous {
		this.FireEnded()
	}
	return nil
}

func (this *fakeSession) Subscribe(h voice.Handler) func() {
	this.mutex.Lock()
	this.nSubscribers++
	this.mutex.Unlock()
	unsubscribe := this.Handlers.Subscribe(h)
	return func() {
		this.mutex.Lock()
		this.nSubscribers--
		this.mutex.Unlock()
		unsubscribe()
	}
}

func (this *fakeSession) startedWith() []string {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return append([]string(nil), this.starts...)
}

func (this *fakeSession) stopCalls() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.stops
}

func (this *fakeSession) subscribers() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.nSubscribers
}

type recorder struct {
	mutex   sync.Mutex
	entries []notify.Notification
}

func (this *recorder) Notify(n notify.Notification) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.entries = append(this.entries, n)
}

func (this *recorder) all() []notify.Notification {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return append([]notify.Notification(nil), this.entries...)
}

func (this *recorder) titles() (result []string) {
	for _, n := range this.all() {
		result = append(result, n.Title)
	}
	return result
}
