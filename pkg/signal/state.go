package signal

import (
	"fmt"
	"strings"

	"github.com/blaubaer/call-indicator/pkg/session"
)

// State is what every signal shows. It is on while a call is active.
type State uint8

const (
	StateOff = State(0)
	StateOn  = State(1)
	// StateUnknown is only read from remote systems which do not know the
	// state of their entity, yet.
	StateUnknown = State(2)
)

func StateOf(snapshot session.Snapshot) State {
	if snapshot.IsActive {
		return StateOn
	}
	return StateOff
}

func (this *State) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "off", "false":
		*this = StateOff
	case "on", "true":
		*this = StateOn
	case "unknown", "unavailable":
		*this = StateUnknown
	default:
		return fmt.Errorf("illegal-signal-state: %s", plain)
	}
	return nil
}

func (this State) String() string {
	switch this {
	case StateOff:
		return "off"
	case StateOn:
		return "on"
	case StateUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("illegal-signal-state-%d", this)
	}
}

func (this State) MarshalText() (text []byte, err error) {
	if this > StateUnknown {
		return nil, fmt.Errorf("illegal signal state: %d", this)
	}
	return []byte(this.String()), nil
}

func (this *State) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}
