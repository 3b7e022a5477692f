package notify

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindInfo    = Kind(0)
	KindWarning = Kind(1)
	KindError   = Kind(2)
)

var (
	AllKinds = Kinds{
		KindInfo,
		KindWarning,
		KindError,
	}
)

func (this *Kind) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "info":
		*this = KindInfo
		return nil
	case "warning", "warn":
		*this = KindWarning
		return nil
	case "error", "destructive":
		*this = KindError
		return nil
	default:
		return fmt.Errorf("illegal-notification-kind: %s", plain)
	}
}

func (this Kind) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-notification-kind-%d", this)
	}
	return string(v)
}

func (this Kind) MarshalText() (text []byte, err error) {
	switch this {
	case KindInfo:
		return []byte("info"), nil
	case KindWarning:
		return []byte("warning"), nil
	case KindError:
		return []byte("error"), nil
	default:
		return nil, fmt.Errorf("illegal notification kind: %d", this)
	}
}

func (this *Kind) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Kinds []Kind

func (this Kinds) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Kinds) String() string {
	return strings.Join(this.Strings(), ",")
}
