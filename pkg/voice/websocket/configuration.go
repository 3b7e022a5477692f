package websocket

import (
	"time"

	"github.com/blaubaer/call-indicator/pkg/common"
)

const DefaultUrl = "ws://localhost:8765/v1/call"

func NewConfiguration() Configuration {
	return Configuration{
		DefaultUrl,
		15 * time.Second,
		5 * time.Second,
	}
}

type Configuration struct {
	Url          string        `yaml:"url"`
	DialTimeout  time.Duration `yaml:"dialTimeout,omitempty"`
	CloseTimeout time.Duration `yaml:"closeTimeout,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("voice.websocket.url", "URL of the voice assistant call endpoint.").
		Envar("CI_VOICE_WEBSOCKET_URL").
		StringVar(&this.Url)
	using.Flag("voice.websocket.dialTimeout", "How long to wait for the voice assistant to accept a call.").
		Envar("CI_VOICE_WEBSOCKET_DIAL_TIMEOUT").
		DurationVar(&this.DialTimeout)
	using.Flag("voice.websocket.closeTimeout", "How long to wait for the voice assistant to confirm the end of a call.").
		Envar("CI_VOICE_WEBSOCKET_CLOSE_TIMEOUT").
		DurationVar(&this.CloseTimeout)
}
