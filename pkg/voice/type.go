package voice

import (
	"fmt"
	"strings"
)

type Type uint8

const (
	TypeWebsocket = Type(0)
	TypeSimulated = Type(1)

	TypeDefault = TypeWebsocket
)

var (
	AllTypes = Types{
		TypeWebsocket,
		TypeSimulated,
	}
)

func (this *Type) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "websocket", "ws":
		*this = TypeWebsocket
		return nil
	case "simulated", "sim":
		*this = TypeSimulated
		return nil
	default:
		return fmt.Errorf("illegal-voice-type: %s", plain)
	}
}

func (this Type) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-voice-type-%d", this)
	}
	return string(v)
}

func (this Type) MarshalText() (text []byte, err error) {
	switch this {
	case TypeWebsocket:
		return []byte("websocket"), nil
	case TypeSimulated:
		return []byte("simulated"), nil
	default:
		return nil, fmt.Errorf("illegal voice type: %d", this)
	}
}

func (this *Type) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Types []Type

func (this Types) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Types) String() string {
	return strings.Join(this.Strings(), ",")
}
