package session

import (
	"strings"

	"github.com/blaubaer/call-indicator/pkg/common"
)

// DefaultPlaceholderPattern matches the credential values shipped as examples,
// like YOUR_KEY or YOUR_VAPI_PUBLIC_KEY.
const DefaultPlaceholderPattern = `^YOUR_[A-Z0-9_]*$`

func NewConfiguration() Configuration {
	return Configuration{
		"",
		"",
		common.MustNewRegexp(DefaultPlaceholderPattern),
	}
}

type Configuration struct {
	PublicKey string `yaml:"publicKey,omitempty"`
	AgentId   string `yaml:"agentId,omitempty"`

	Placeholder common.Regexp `yaml:"placeholder,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("session.publicKey", "Public key of the hosted voice assistant account.").
		Envar("CI_SESSION_PUBLIC_KEY").
		StringVar(&this.PublicKey)
	using.Flag("session.agentId", "Identifier of the voice agent a call should be started with.").
		Envar("CI_SESSION_AGENT_ID").
		StringVar(&this.AgentId)
	using.Flag("session.placeholder", "Regex of credential values which are treated as not configured.").
		Envar("CI_SESSION_PLACEHOLDER").
		SetValue(&this.Placeholder)
}

func (this Configuration) IsPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	p := this.Placeholder
	if p.IsZero() {
		p = defaultPlaceholder
	}
	return p.MatchString(v)
}

// Validate returns a *ConfigurationError if one of the credentials is unset or
// still a placeholder.
func (this Configuration) Validate() error {
	var fields []string
	if this.IsPlaceholder(this.PublicKey) {
		fields = append(fields, "publicKey")
	}
	if this.IsPlaceholder(this.AgentId) {
		fields = append(fields, "agentId")
	}
	if len(fields) > 0 {
		return &ConfigurationError{Fields: fields}
	}
	return nil
}

var defaultPlaceholder = common.MustNewRegexp(DefaultPlaceholderPattern)
