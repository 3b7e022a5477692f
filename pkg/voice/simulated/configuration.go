package simulated

import (
	"time"

	"github.com/blaubaer/call-indicator/pkg/common"
)

func NewConfiguration() Configuration {
	return Configuration{
		750 * time.Millisecond,
		250 * time.Millisecond,
		0,
		"",
	}
}

type Configuration struct {
	StartDelay time.Duration `yaml:"startDelay,omitempty"`
	EndDelay   time.Duration `yaml:"endDelay,omitempty"`

	// FailAfter reports FailWith as error if a call lasts that long. Zero disables it.
	FailAfter time.Duration `yaml:"failAfter,omitempty"`
	FailWith  string        `yaml:"failWith,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("voice.simulated.startDelay", "How long the simulated assistant takes to accept a call.").
		Envar("CI_VOICE_SIMULATED_START_DELAY").
		DurationVar(&this.StartDelay)
	using.Flag("voice.simulated.endDelay", "How long the simulated assistant takes to end a call.").
		Envar("CI_VOICE_SIMULATED_END_DELAY").
		DurationVar(&this.EndDelay)
	using.Flag("voice.simulated.failAfter", "If set the simulated call fails after this duration.").
		Envar("CI_VOICE_SIMULATED_FAIL_AFTER").
		DurationVar(&this.FailAfter)
	using.Flag("voice.simulated.failWith", "Error detail reported if the simulated call fails.").
		Envar("CI_VOICE_SIMULATED_FAIL_WITH").
		StringVar(&this.FailWith)
}
