package session

import (
	"fmt"
	"sync"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-indicator/pkg/notify"
	"github.com/blaubaer/call-indicator/pkg/voice"
)

// Snapshot is a read-only view of the controller state.
type Snapshot struct {
	Status    Status  `json:"status" yaml:"status"`
	IsActive  bool    `json:"isActive" yaml:"isActive"`
	LastError string  `json:"lastError,omitempty" yaml:"lastError,omitempty"`
	Pending   Pending `json:"pending" yaml:"pending"`
}

func (this Snapshot) Presentation() Presentation {
	return Present(this.Status)
}

// Controller is the single authority of the call state. It translates
// ToggleCall requests and the events of the voice capability into status
// transitions and emits a notification for each of them.
//
// Status only changes with the events of the capability, never because a
// request was issued. While a start or stop request is pending further
// toggles are ignored.
//
// The sink is called synchronously but never while the state is locked, so it
// may read Snapshot or Status. It must not call ToggleCall, Initialize or
// Dispose from within Notify.
type Controller struct {
	provider voice.Provider
	sink     notify.Sink

	// requests serializes everything that talks to the capability.
	requests sync.Mutex
	// emitting is held by the one goroutine delivering the outbox. It is never
	// acquired while mutex is held.
	emitting sync.Mutex
	mutex    sync.Mutex
	// outbox holds notifications in the order of their transitions until
	// they were delivered.
	outbox []notify.Notification

	status      Status
	pending     Pending
	lastErr     error
	conf        Configuration
	session     voice.Session
	unsubscribe func()
}

func NewController(provider voice.Provider, sink notify.Sink) *Controller {
	if sink == nil {
		sink = notify.Discard
	}
	return &Controller{
		provider: provider,
		sink:     sink,
	}
}

// Initialize provisions the voice capability with the given credentials.
// Placeholder credentials and provisioning failures only lead to the
// misconfigured or error status; the returned error is reserved for calls
// which are not allowed in the current status.
func (this *Controller) Initialize(conf Configuration) error {
	this.requests.Lock()
	defer this.requests.Unlock()

	this.mutex.Lock()
	switch this.status {
	case StatusDisposed:
		this.mutex.Unlock()
		return ErrDisposed
	case StatusReady, StatusActive:
		this.mutex.Unlock()
		return ErrAlreadyInitialized
	}
	this.conf = conf
	previous, previousUnsubscribe := this.session, this.unsubscribe
	this.session, this.unsubscribe = nil, nil
	this.mutex.Unlock()

	if previous != nil {
		release(previous, previousUnsubscribe)
	}

	if err := conf.Validate(); err != nil {
		log.WithError(err).
			Warn("Voice credentials are not configured. Calls are not possible.")
		this.mutex.Lock()
		this.status = StatusMisconfigured
		this.pending = PendingNone
		this.lastErr = err
		this.emitLocked(configurationNeededNotification())
		return nil
	}

	this.provision(conf)
	return nil
}

func (this *Controller) provision(conf Configuration) bool {
	fail := func(err error) bool {
		err = &CapabilityInitError{err}
		log.WithError(err).
			Error("Cannot initialize voice session.")
		this.mutex.Lock()
		this.status = StatusError
		this.pending = PendingNone
		this.lastErr = err
		this.emitLocked(initFailedNotification(err))
		return false
	}

	if this.provider == nil {
		return fail(fmt.Errorf("no voice provider configured"))
	}
	session, err := this.provider.Provision(conf.PublicKey)
	if err != nil {
		return fail(err)
	}
	if session == nil {
		return fail(fmt.Errorf("voice provider returned no session"))
	}

	unsubscribe := session.Subscribe(this)

	this.mutex.Lock()
	this.session = session
	this.unsubscribe = unsubscribe
	this.status = StatusReady
	this.pending = PendingNone
	this.lastErr = nil
	this.mutex.Unlock()

	log.With("agentId", conf.AgentId).
		Info("Voice session ready.")
	return true
}

// ToggleCall starts a call if none is active and stops the active one
// otherwise. It returns as soon as the request was issued.
func (this *Controller) ToggleCall() {
	this.requests.Lock()
	defer this.requests.Unlock()

	this.mutex.Lock()
	if this.status == StatusError && this.session == nil {
		conf := this.conf
		this.mutex.Unlock()
		log.Info("Voice session was never provisioned. Try again...")
		if !this.provision(conf) {
			return
		}
		this.mutex.Lock()
	}

	status, pending := this.status, this.pending
	switch {
	case status == StatusDisposed:
		this.mutex.Unlock()
		log.Debug("Toggle ignored, controller already disposed.")
		return
	case status == StatusUninitialized:
		this.emitLocked(notReadyNotification())
		return
	case status == StatusMisconfigured:
		this.emitLocked(configurationBlocksCallNotification())
		return
	case pending != PendingNone:
		this.mutex.Unlock()
		log.With("pending", pending).
			Debug("Toggle ignored, previous request still pending.")
		return
	}

	session, agentId := this.session, this.conf.AgentId
	if status == StatusActive {
		this.pending = PendingStop
		this.mutex.Unlock()

		log.Info("Stopping call...")
		if err := session.Stop(); err != nil {
			this.OnError(fmt.Sprintf("cannot stop call: %v", err))
		}
		return
	}

	if status == StatusError {
		this.status = StatusReady
		this.lastErr = nil
	}
	this.pending = PendingStart
	this.mutex.Unlock()

	log.With("agentId", agentId).
		Info("Starting call...")
	if err := session.Start(agentId); err != nil {
		this.OnError(fmt.Sprintf("cannot start call: %v", err))
	}
}

func (this *Controller) OnStarted() {
	this.mutex.Lock()
	if !this.acceptsEventsLocked() {
		log.With("status", this.status).
			Debug("Ignoring started event.")
		this.mutex.Unlock()
		return
	}
	this.status = StatusActive
	this.pending = PendingNone
	this.lastErr = nil
	log.Info("Call started.")
	this.emitLocked(callStartedNotification())
}

func (this *Controller) OnEnded() {
	this.mutex.Lock()
	if !this.acceptsEventsLocked() {
		log.With("status", this.status).
			Debug("Ignoring ended event.")
		this.mutex.Unlock()
		return
	}
	this.status = StatusReady
	this.pending = PendingNone
	this.lastErr = nil
	log.Info("Call ended.")
	this.emitLocked(callEndedNotification())
}

func (this *Controller) OnError(detail string) {
	if detail == "" {
		detail = unknownErrorDetail
	}

	this.mutex.Lock()
	if !this.acceptsEventsLocked() {
		log.With("status", this.status).
			With("detail", detail).
			Debug("Ignoring error event.")
		this.mutex.Unlock()
		return
	}
	err := &SessionRuntimeError{detail}
	this.status = StatusError
	this.pending = PendingNone
	this.lastErr = err
	log.WithError(err).
		Error("Voice session reported an error.")
	this.emitLocked(runtimeErrorNotification(detail))
}

func (this *Controller) acceptsEventsLocked() bool {
	if this.session == nil {
		return false
	}
	switch this.status {
	case StatusReady, StatusActive, StatusError:
		return true
	default:
		return false
	}
}

// Dispose stops the voice capability regardless of the current status and
// releases it. It runs only once; failures of the capability are logged and
// swallowed.
func (this *Controller) Dispose() {
	this.requests.Lock()
	defer this.requests.Unlock()

	this.mutex.Lock()
	if this.status == StatusDisposed {
		this.mutex.Unlock()
		return
	}
	session, unsubscribe := this.session, this.unsubscribe
	this.session, this.unsubscribe = nil, nil
	this.status = StatusDisposed
	this.pending = PendingNone
	this.mutex.Unlock()

	if session != nil {
		release(session, unsubscribe)
	}
	log.Debug("Session controller disposed.")
}

func release(session voice.Session, unsubscribe func()) {
	defer func() {
		if unsubscribe != nil {
			unsubscribe()
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			log.With("panic", r).
				Warn("Voice session panicked while stopping. Ignoring...")
		}
	}()
	if err := session.Stop(); err != nil {
		log.WithError(err).
			Warn("Cannot stop voice session. Ignoring...")
	}
}

// emitLocked must be called with mutex held. It queues the notification,
// releases mutex and delivers everything queued to the sink.
func (this *Controller) emitLocked(n notify.Notification) {
	this.outbox = append(this.outbox, n)
	this.mutex.Unlock()
	this.flush()
}

// flush returns once the outbox was empty at least once. Notifications queued
// by concurrent transitions may be delivered by whichever goroutine flushes.
func (this *Controller) flush() {
	this.emitting.Lock()
	defer this.emitting.Unlock()

	for {
		this.mutex.Lock()
		if len(this.outbox) == 0 {
			this.outbox = nil
			this.mutex.Unlock()
			return
		}
		n := this.outbox[0]
		this.outbox = this.outbox[1:]
		this.mutex.Unlock()

		this.sink.Notify(n)
	}
}

func (this *Controller) Snapshot() Snapshot {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	result := Snapshot{
		Status:   this.status,
		IsActive: IsActive(this.status),
		Pending:  this.pending,
	}
	if this.status == StatusError && this.lastErr != nil {
		result.LastError = this.lastErr.Error()
	}
	return result
}

func (this *Controller) Status() Status {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.status
}

// Err returns the error which led to the current misconfigured or error status.
func (this *Controller) Err() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	switch this.status {
	case StatusMisconfigured, StatusError:
		return this.lastErr
	default:
		return nil
	}
}
