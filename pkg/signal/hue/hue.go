package hue

import (
	"fmt"
	"sync"
	"time"

	"github.com/amimof/huego"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-indicator/pkg/credentials"
	"github.com/blaubaer/call-indicator/pkg/signal"
)

const appName = "github.com/blaubaer/call-indicator"

type bridge interface {
	GetLights() ([]huego.Light, error)
	GetGroups() ([]huego.Group, error)
	SetLightState(id int, state huego.State) (*huego.Response, error)
	SetGroupState(id int, state huego.State) (*huego.Response, error)
}

type Hue struct {
	conf         *Configuration
	saveConfFunc func() error
	newBridge    func(host, user string) bridge

	lights      []huego.Light
	groups      []huego.Group
	credentials credentials.Credentials
	mutex       sync.Mutex
}

func (this *Hue) Update() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	b, err := this.bridge()
	if err != nil {
		return err
	}

	lights, err := this.discoverLights(b)
	if err != nil {
		return err
	}
	groups, err := this.discoverGroups(b)
	if err != nil {
		return err
	}

	this.lights = lights
	this.groups = groups

	return nil
}

func (this *Hue) discoverLights(b bridge) (result []huego.Light, _ error) {
	if this.conf.Kinds.Has(HueKindLight) {
		candidates, err := b.GetLights()
		if err != nil {
			return nil, fmt.Errorf("cannot discover lights of bridge %s: %w", this.credentials.HueBridge, err)
		}
		for _, candidate := range candidates {
			if this.conf.Name.MatchString(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				result = append(result, candidate)
			}
		}
	}
	return
}

func (this *Hue) discoverGroups(b bridge) (result []huego.Group, _ error) {
	if this.conf.Kinds.Has(HueKindGroup) {
		candidates, err := b.GetGroups()
		if err != nil {
			return nil, fmt.Errorf("cannot discover groups of bridge %s: %w", this.credentials.HueBridge, err)
		}
		for _, candidate := range candidates {
			if this.conf.Name.MatchString(candidate.Name) {
				if candidate.State == nil {
					candidate.State = &huego.State{}
				}
				result = append(result, candidate)
			}
		}
	}
	return
}

func (this *Hue) Ensure(ctx signal.Context) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	b, err := this.bridge()
	if err != nil {
		return err
	}
	state := ctx.State()
	for i, v := range this.lights {
		if err := this.ensureLight(b, state, &v); err != nil {
			return err
		}
		this.lights[i] = v
	}
	for i, v := range this.groups {
		if err := this.ensureGroup(b, state, &v); err != nil {
			return err
		}
		this.groups[i] = v
	}
	return nil
}

// targetState returns nil if current already matches state.
func (this *Hue) targetState(state signal.State, title string, current *huego.State) (*huego.State, error) {
	switch state {
	case signal.StateOn:
		if !current.On || current.Bri != this.conf.Brightness || current.Hue != this.conf.Hue || current.Sat != this.conf.Saturation {
			return &huego.State{
				On:  true,
				Bri: this.conf.Brightness,
				Hue: this.conf.Hue,
				Sat: this.conf.Saturation,
			}, nil
		}
	case signal.StateOff:
		if current.On {
			return &huego.State{
				On: false,
			}, nil
		}
	default:
		return nil, fmt.Errorf("cannot ensure hue light state for %s: %v", title, state)
	}
	return nil, nil
}

func (this *Hue) ensureLight(b bridge, state signal.State, v *huego.Light) error {
	title := fmt.Sprintf("light %q#%d", v.Name, v.ID)
	if target, err := this.targetState(state, title, v.State); err != nil {
		return err
	} else if target != nil {
		if _, err := b.SetLightState(v.ID, *target); err != nil {
			return fmt.Errorf("cannot switch to hue state %v for %s: %w", state, title, err)
		}
		v.State = target
	}
	return nil
}

func (this *Hue) ensureGroup(b bridge, state signal.State, v *huego.Group) error {
	title := fmt.Sprintf("group %q#%d", v.Name, v.ID)
	if target, err := this.targetState(state, title, v.State); err != nil {
		return err
	} else if target != nil {
		if _, err := b.SetGroupState(v.ID, *target); err != nil {
			return fmt.Errorf("cannot switch to hue state %v for %s: %w", state, title, err)
		}
		v.State = target
	}
	return nil
}

func (this *Hue) Initialize(conf *Configuration, saveConfFunc func() error) error {
	this.conf = conf
	this.saveConfFunc = saveConfFunc

	v, err := this.resolveCredentials()
	if err != nil {
		return err
	}
	this.credentials = v

	if err := this.Update(); err != nil {
		return err
	}

	return nil
}

func (this *Hue) bridge() (bridge, error) {
	v := this.credentials
	if v.IsHueZero() {
		return nil, fmt.Errorf("not paired with hue bridge")
	}
	if f := this.newBridge; f != nil {
		return f(v.HueBridge, v.HueUser), nil
	}
	return huego.New(v.HueBridge, v.HueUser), nil
}

func (this *Hue) resolveCredentials() (credentials.Credentials, error) {
	if u := this.conf.User; u != "" {
		b, err := this.discoverBridge()
		if err != nil {
			return credentials.Credentials{}, err
		}

		return credentials.Credentials{
			HueBridge: b.Host,
			HueUser:   u,
		}, nil
	}

	if this.conf.Pair {
		return this.pair()
	}

	v, err := this.readCredentials()
	if err != nil {
		return credentials.Credentials{}, err
	}

	if !v.IsHueZero() {
		return v, nil
	}

	return this.pair()
}

func (this *Hue) discoverBridge() (*huego.Bridge, error) {
	if this.conf.Bridge != "" {
		return &huego.Bridge{
			Host: this.conf.Bridge,
		}, nil
	}

	return huego.Discover()
}

func (this *Hue) pair() (credentials.Credentials, error) {
	b, err := this.discoverBridge()
	if err != nil {
		return credentials.Credentials{}, err
	}

	for {
		log.Info("Wait for hue link button been pressed...")
		user, err := b.CreateUser(appName)
		if apiErr, ok := err.(*huego.APIError); ok && apiErr.Type == 101 {
			time.Sleep(1 * time.Second)
			continue
		} else if err != nil {
			return credentials.Credentials{}, fmt.Errorf("was not able to pair with %s: %w", b.Host, err)
		}

		v := credentials.Credentials{
			HueBridge: b.Host,
			HueUser:   user,
		}

		if err := this.storeCredentials(v); err != nil {
			log.WithError(err).
				Warn("Cannot store credentials. The app will work now, but next time the pairing might be required again.")
		}

		log.With("bridge", b.Host).
			Info("Successful paired.")
		return v, nil
	}
}

func (this *Hue) Dispose() error {
	this.conf = nil
	this.saveConfFunc = nil
	return nil
}

func (this *Hue) GetType() signal.Type {
	return signal.TypeHue
}

func (this *Hue) readCredentials() (credentials.Credentials, error) {
	var v credentials.Credentials
	if _, err := v.ReadFromStore(); err != nil {
		return credentials.Credentials{}, err
	}

	if v.HueBridge == "" {
		v.HueBridge = this.conf.Bridge
	}
	if v.HueUser == "" {
		v.HueUser = this.conf.User
	}

	return v, nil
}

func (this *Hue) storeCredentials(v credentials.Credentials) error {
	var stored credentials.Credentials
	if _, err := stored.ReadFromStore(); err != nil {
		return err
	}
	stored.HueBridge = v.HueBridge
	stored.HueUser = v.HueUser

	supported, err := stored.WriteToStore()
	if err != nil {
		return err
	}
	if supported {
		return nil
	}

	this.conf.Bridge = v.HueBridge
	this.conf.User = v.HueUser
	return this.saveConfFunc()
}
