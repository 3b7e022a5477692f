// Package simulated provides a voice capability which runs locally without
// any remote assistant. It is meant for demos and for trying signals.
package simulated

import (
	"sync"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-indicator/pkg/voice"
)

type Provider struct {
	Conf *Configuration
}

func (this *Provider) Provision(publicKey string) (voice.Session, error) {
	conf := NewConfiguration()
	if v := this.Conf; v != nil {
		conf = *v
	}
	log.With("publicKey", mask(publicKey)).
		Debug("Simulated voice session provisioned.")
	return &Session{conf: conf}, nil
}

type Session struct {
	voice.Handlers

	conf Configuration

	mutex      sync.Mutex
	generation uint64
	running    bool
	timers     []*time.Timer
}

func (this *Session) Start(agentId string) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.stopTimersLocked()
	this.generation++
	gen := this.generation

	log.With("agentId", agentId).
		Debug("Simulated call requested.")

	this.after(this.conf.StartDelay, gen, func() bool {
		this.running = true
		return true
	}, this.FireStarted)

	if d := this.conf.FailAfter; d > 0 {
		detail := this.conf.FailWith
		this.after(this.conf.StartDelay+d, gen, func() bool {
			if !this.running {
				return false
			}
			this.running = false
			return true
		}, func() { this.FireError(detail) })
	}
	return nil
}

func (this *Session) Stop() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	this.stopTimersLocked()
	this.generation++
	if !this.running {
		return nil
	}
	this.running = false

	this.after(this.conf.EndDelay, this.generation, func() bool { return true }, this.FireEnded)
	return nil
}

// after fires the event once d elapsed, unless another Start or Stop happened
// meanwhile or apply vetoes it.
func (this *Session) after(d time.Duration, gen uint64, apply func() bool, fire func()) {
	this.timers = append(this.timers, time.AfterFunc(d, func() {
		this.mutex.Lock()
		if this.generation != gen || !apply() {
			this.mutex.Unlock()
			return
		}
		this.mutex.Unlock()
		fire()
	}))
}

func (this *Session) stopTimersLocked() {
	for _, t := range this.timers {
		t.Stop()
	}
	this.timers = nil
}

func mask(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return v[:4] + "****"
}
