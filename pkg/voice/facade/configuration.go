package facade

import (
	"github.com/blaubaer/call-indicator/pkg/common"
	"github.com/blaubaer/call-indicator/pkg/voice"
	"github.com/blaubaer/call-indicator/pkg/voice/simulated"
	"github.com/blaubaer/call-indicator/pkg/voice/websocket"
)

func NewConfiguration() Configuration {
	return Configuration{
		Type:      voice.TypeDefault,
		Websocket: websocket.NewConfiguration(),
		Simulated: simulated.NewConfiguration(),
	}
}

type Configuration struct {
	Type      voice.Type              `yaml:"type"`
	Websocket websocket.Configuration `yaml:"websocket,omitempty"`
	Simulated simulated.Configuration `yaml:"simulated,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("voice", "Voice assistant to call. All possible values: "+voice.AllTypes.String()).
		Envar("CI_VOICE").
		SetValue(&this.Type)

	this.Websocket.SetupConfiguration(using)
	this.Simulated.SetupConfiguration(using)
}
