package signal

import (
	"github.com/blaubaer/call-indicator/pkg/session"
)

type Context interface {
	State() State
	Snapshot() session.Snapshot
	Presentation() session.Presentation
}

func NewContext(snapshot session.Snapshot) Context {
	return staticContext{snapshot}
}

type staticContext struct {
	snapshot session.Snapshot
}

func (this staticContext) State() State {
	return StateOf(this.snapshot)
}

func (this staticContext) Snapshot() session.Snapshot {
	return this.snapshot
}

func (this staticContext) Presentation() session.Presentation {
	return this.snapshot.Presentation()
}
