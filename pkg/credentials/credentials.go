// Package credentials holds the secrets of the application inside the
// credential store of the operating system, where one is supported.
package credentials

import (
	"encoding/json"
)

const appName = "github.com/blaubaer/call-indicator"

type Credentials struct {
	VoicePublicKey string `json:"voice_publicKey,omitempty"`
	VoiceAgentId   string `json:"voice_agentId,omitempty"`

	HueBridge string `json:"hue_bridge,omitempty"`
	HueUser   string `json:"hue_user,omitempty"`

	HomeAssistantServer string `json:"homeAssistant_server,omitempty"`
	HomeAssistantToken  string `json:"homeAssistant_token,omitempty"`
}

func (this *Credentials) IsZero() bool {
	return this.IsVoiceZero() && this.IsHueZero() && this.IsHomeAssistantZero()
}

func (this *Credentials) IsVoiceZero() bool {
	return this.VoicePublicKey == "" && this.VoiceAgentId == ""
}

func (this *Credentials) IsHueZero() bool {
	return this.HueBridge == "" && this.HueUser == ""
}

func (this *Credentials) IsHomeAssistantZero() bool {
	return this.HomeAssistantServer == "" && this.HomeAssistantToken == ""
}

func (this *Credentials) MarshalBinary() (data []byte, err error) {
	return json.Marshal(this)
}

func (this *Credentials) UnmarshalBinary(data []byte) error {
	var buf Credentials
	if err := json.Unmarshal(data, &buf); err != nil {
		return err
	}
	*this = buf
	return nil
}
