package facade

import (
	"fmt"

	"github.com/blaubaer/call-indicator/pkg/voice"
	"github.com/blaubaer/call-indicator/pkg/voice/simulated"
	"github.com/blaubaer/call-indicator/pkg/voice/websocket"
)

// Provider provisions the voice capability selected by Configuration.Type.
type Provider struct {
	Conf *Configuration
}

func (this *Provider) Provision(publicKey string) (voice.Session, error) {
	conf := this.Conf
	if conf == nil {
		buf := NewConfiguration()
		conf = &buf
	}

	switch conf.Type {
	case voice.TypeWebsocket:
		return (&websocket.Provider{Conf: &conf.Websocket}).Provision(publicKey)
	case voice.TypeSimulated:
		return (&simulated.Provider{Conf: &conf.Simulated}).Provision(publicKey)
	default:
		return nil, fmt.Errorf("unsupported voice type: %v", conf.Type)
	}
}
