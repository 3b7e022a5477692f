package homeassistant

import (
	"time"

	"github.com/blaubaer/call-indicator/pkg/signal"
)

const (
	attrStatus    = "status"
	attrLabel     = "label"
	attrLastError = "lastError"
)

type stateGetResponse struct {
	EntityId     string         `json:"entity_id"`
	State        signal.State   `json:"state"`
	Attributes   map[string]any `json:"attributes"`
	LastChanged  time.Time      `json:"last_changed"`
	LastReported time.Time      `json:"last_reported"`
	LastUpdated  time.Time      `json:"last_updated"`
	Context      map[string]any `json:"context"`
}

func (this *stateGetResponse) getAttr(key string) string {
	if this.Attributes != nil {
		if v, ok := this.Attributes[key].(string); ok {
			return v
		}
	}
	return ""
}

type statePostRequest struct {
	State      signal.State   `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func (this *statePostRequest) setAttrs(v *state) {
	if this.Attributes == nil {
		this.Attributes = make(map[string]any)
	}
	this.Attributes[attrStatus] = v.status
	this.Attributes[attrLabel] = v.label
	if v.lastError != "" {
		this.Attributes[attrLastError] = v.lastError
	} else {
		delete(this.Attributes, attrLastError)
	}
}

type state struct {
	timestamp time.Time
	state     signal.State
	status    string
	label     string
	lastError string
}

func stateOf(ctx signal.Context, now time.Time) state {
	snapshot := ctx.Snapshot()
	return state{
		timestamp: now,
		state:     ctx.State(),
		status:    snapshot.Status.String(),
		label:     ctx.Presentation().Label,
		lastError: snapshot.LastError,
	}
}

func (this *stateGetResponse) toState(now time.Time) state {
	return state{
		timestamp: now,
		state:     this.State,
		status:    this.getAttr(attrStatus),
		label:     this.getAttr(attrLabel),
		lastError: this.getAttr(attrLastError),
	}
}

func (this *state) isEqualTo(o *state) bool {
	return this.state == o.state &&
		this.status == o.status &&
		this.label == o.label &&
		this.lastError == o.lastError
}
