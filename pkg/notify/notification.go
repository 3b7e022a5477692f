package notify

import (
	"fmt"
	"time"
)

// Notification is a fire-and-forget message for the presentation layer. Duration
// is a hint for how long a toast should stay visible.
type Notification struct {
	Kind     Kind          `json:"kind" yaml:"kind"`
	Title    string        `json:"title" yaml:"title"`
	Message  string        `json:"message,omitempty" yaml:"message,omitempty"`
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Time     time.Time     `json:"time" yaml:"time"`
}

func (this Notification) String() string {
	if this.Message == "" {
		return fmt.Sprintf("[%v] %s", this.Kind, this.Title)
	}
	return fmt.Sprintf("[%v] %s: %s", this.Kind, this.Title, this.Message)
}

type Sink interface {
	Notify(Notification)
}

type SinkFunc func(Notification)

func (this SinkFunc) Notify(n Notification) {
	this(n)
}

// Discard drops every notification.
var Discard Sink = SinkFunc(func(Notification) {})
