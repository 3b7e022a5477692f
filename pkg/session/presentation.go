package session

import "time"

type Icon string

const (
	IconPhone = Icon("phone")
	IconPause = Icon("pause")
)

const (
	LabelActive   = "Call in progress..."
	LabelInactive = "Click to call AI Assistant"

	ActiveButtonColor = "#ff3a76"
	ActiveBodyClass   = "demo-active"
)

type RingPulse struct {
	Delay time.Duration `json:"delay" yaml:"delay"`
}

var activeRingPulses = []RingPulse{
	{0},
	{500 * time.Millisecond},
	{time.Second},
}

// Presentation is everything a renderer needs to draw the call button. It is
// always derived from a Status and never stored.
type Presentation struct {
	Status        Status      `json:"status" yaml:"status"`
	IsActive      bool        `json:"isActive" yaml:"isActive"`
	Label         string      `json:"label" yaml:"label"`
	Icon          Icon        `json:"icon" yaml:"icon"`
	ButtonColor   string      `json:"buttonColor,omitempty" yaml:"buttonColor,omitempty"`
	BodyClass     string      `json:"bodyClass,omitempty" yaml:"bodyClass,omitempty"`
	ButtonEnabled bool        `json:"buttonEnabled" yaml:"buttonEnabled"`
	RingPulses    []RingPulse `json:"ringPulses,omitempty" yaml:"ringPulses,omitempty"`
}

func Present(s Status) Presentation {
	return Presentation{
		Status:        s,
		IsActive:      IsActive(s),
		Label:         Label(s),
		Icon:          IconOf(s),
		ButtonColor:   ButtonColor(s),
		BodyClass:     BodyClass(s),
		ButtonEnabled: ButtonEnabled(s),
		RingPulses:    RingPulses(s),
	}
}

func IsActive(s Status) bool {
	return s == StatusActive
}

func Label(s Status) string {
	if IsActive(s) {
		return LabelActive
	}
	return LabelInactive
}

func IconOf(s Status) Icon {
	if IsActive(s) {
		return IconPause
	}
	return IconPhone
}

func ButtonColor(s Status) string {
	if IsActive(s) {
		return ActiveButtonColor
	}
	return ""
}

func BodyClass(s Status) string {
	if IsActive(s) {
		return ActiveBodyClass
	}
	return ""
}

func ButtonEnabled(s Status) bool {
	return s != StatusUninitialized && s != StatusDisposed
}

func RingPulses(s Status) []RingPulse {
	if !IsActive(s) {
		return nil
	}
	result := make([]RingPulse, len(activeRingPulses))
	copy(result, activeRingPulses)
	return result
}
