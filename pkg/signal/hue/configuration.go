package hue

import "github.com/blaubaer/call-indicator/pkg/common"

func NewConfiguration() Configuration {
	return Configuration{
		false,
		"",
		"",

		common.MustNewRegexp("^OnCall"),
		HueKinds{},

		254,
		62259,
		197,
	}
}

// Configuration of the lights which are switched on while a call is active.
// The default color is the pink of the active call button (#ff3a76).
type Configuration struct {
	Pair   bool   `yaml:"pair,omitempty"`
	Bridge string `yaml:"bridge,omitempty"`
	User   string `yaml:"user,omitempty"`

	Name  common.Regexp `yaml:"target"`
	Kinds HueKinds      `yaml:"kinds,omitempty"`

	Brightness uint8  `yaml:"brightness"`
	Hue        uint16 `yaml:"hue"`
	Saturation uint8  `yaml:"saturation"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("signal.hue.pair", "If true this application will pair again with an existing hue. This will be implicit enabled if this application is not already paired.").
		Envar("CI_SIGNAL_HUE_PAIR").
		BoolVar(&this.Pair)
	using.Flag("signal.hue.bridge", "Usually the bridge is automatically detected. You can specify an explicit one if they are more than one. This is only required while pairing and will afterwards be ignored.").
		Envar("CI_SIGNAL_HUE_BRIDGE").
		StringVar(&this.Bridge)
	using.Flag("signal.hue.user", "Usually this is set while pairing and will then be persisted. If this set this will be used and not be persisted.").
		Envar("CI_SIGNAL_HUE_USER").
		StringVar(&this.User)
	using.Flag("signal.hue.name", "Name as regex of the lights/groups which should signal an active call.").
		Envar("CI_SIGNAL_HUE_NAME").
		SetValue(&this.Name)
	using.Flag("signal.hue.kind", "Kind(s) of what should be handled. Possible values: "+AllHueKinds.String()).
		Envar("CI_SIGNAL_HUE_KIND").
		SetValue(&this.Kinds)

	using.Flag("signal.hue.brightness", "The brightness while a call is active. Brightness is a scale from 1 (the minimum the light is capable of) to 254 (the maximum).").
		Envar("CI_SIGNAL_HUE_BRIGHTNESS").
		Uint8Var(&this.Brightness)
	using.Flag("signal.hue.hue", "The hue while a call is active. The hue value is a wrapping value between 0 and 65535. Both 0 and 65535 are red, 25500 is green and 46920 is blue.").
		Envar("CI_SIGNAL_HUE_HUE").
		Uint16Var(&this.Hue)
	using.Flag("signal.hue.saturation", "Saturation while a call is active. 254 is the most saturated (colored) and 0 is the least saturated (white).").
		Envar("CI_SIGNAL_HUE_SATURATION").
		Uint8Var(&this.Saturation)
}
