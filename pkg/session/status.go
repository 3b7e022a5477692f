package session

import (
	"fmt"
	"strings"
)

type Status uint8

const (
	StatusUninitialized = Status(0)
	StatusMisconfigured = Status(1)
	StatusReady         = Status(2)
	StatusActive        = Status(3)
	StatusError         = Status(4)
	StatusDisposed      = Status(5)
)

var (
	AllStatuses = Statuses{
		StatusUninitialized,
		StatusMisconfigured,
		StatusReady,
		StatusActive,
		StatusError,
		StatusDisposed,
	}
)

func (this *Status) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "uninitialized":
		*this = StatusUninitialized
		return nil
	case "misconfigured":
		*this = StatusMisconfigured
		return nil
	case "ready":
		*this = StatusReady
		return nil
	case "active":
		*this = StatusActive
		return nil
	case "error":
		*this = StatusError
		return nil
	case "disposed":
		*this = StatusDisposed
		return nil
	default:
		return fmt.Errorf("illegal-session-status: %s", plain)
	}
}

func (this Status) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-session-status-%d", this)
	}
	return string(v)
}

func (this Status) MarshalText() (text []byte, err error) {
	switch this {
	case StatusUninitialized:
		return []byte("uninitialized"), nil
	case StatusMisconfigured:
		return []byte("misconfigured"), nil
	case StatusReady:
		return []byte("ready"), nil
	case StatusActive:
		return []byte("active"), nil
	case StatusError:
		return []byte("error"), nil
	case StatusDisposed:
		return []byte("disposed"), nil
	default:
		return nil, fmt.Errorf("illegal session status: %d", this)
	}
}

func (this *Status) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Statuses []Status

func (this Statuses) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Statuses) String() string {
	return strings.Join(this.Strings(), ",")
}

// Pending tells which request was issued to the voice capability and is still
// waiting for its started/ended event.
type Pending uint8

const (
	PendingNone  = Pending(0)
	PendingStart = Pending(1)
	PendingStop  = Pending(2)
)

func (this Pending) String() string {
	switch this {
	case PendingNone:
		return "none"
	case PendingStart:
		return "start"
	case PendingStop:
		return "stop"
	default:
		return fmt.Sprintf("illegal-session-pending-%d", this)
	}
}

func (this Pending) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}
