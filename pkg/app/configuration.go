package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/blaubaer/call-indicator/pkg/common"
	"github.com/blaubaer/call-indicator/pkg/session"
	sfacade "github.com/blaubaer/call-indicator/pkg/signal/facade"
	vfacade "github.com/blaubaer/call-indicator/pkg/voice/facade"
)

const configurationDirectoryName = "call-indicator"

func NewConfiguration() Configuration {
	return Configuration{
		false,

		session.NewConfiguration(),
		vfacade.NewConfiguration(),
		sfacade.NewConfiguration(),

		5 * time.Minute,
		50,
	}
}

type Configuration struct {
	PreventAutoSave bool `yaml:"preventAutoSave"`

	Session session.Configuration `yaml:"session,omitempty"`
	Voice   vfacade.Configuration `yaml:"voice,omitempty"`
	Signal  sfacade.Configuration `yaml:"signal,omitempty"`

	RefreshInterval time.Duration `yaml:"refreshInterval,omitempty"`
	HistorySize     uint32        `yaml:"historySize,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("preventAutoSave", "If provided configuration will NOT automatically be saved upon changes.").
		Envar("CI_PREVENT_AUTO_SAVE").
		BoolVar(&this.PreventAutoSave)
	using.Flag("refreshInterval", "How often the whole setup should be refreshed.").
		Envar("CI_REFRESH_INTERVAL").
		DurationVar(&this.RefreshInterval)
	using.Flag("historySize", "How many notifications are kept to be shown again.").
		Envar("CI_HISTORY_SIZE").
		Uint32Var(&this.HistorySize)

	this.Session.SetupConfiguration(using)
	this.Voice.SetupConfiguration(using)
	this.Signal.SetupConfiguration(using)
}

func (this *Configuration) loadFrom(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(this); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (this *Configuration) loadFromFile(fn string, ignoreNotFound bool) error {
	f, err := os.Open(fn)
	if os.IsNotExist(err) && ignoreNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.loadFrom(f); err != nil {
		return fmt.Errorf("cannot load configuration file %q: %w", fn, err)
	}

	return nil
}

func (this *Configuration) saveTo(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(this); err != nil {
		return err
	}
	return enc.Close()
}

func (this *Configuration) saveToFile(fn string) error {
	_ = os.MkdirAll(filepath.Dir(fn), 0700)

	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.saveTo(f); err != nil {
		return fmt.Errorf("cannot write file %q: %w", fn, err)
	}

	return nil
}

// mergeFrom applies every value of the given configuration which is set.
func (this *Configuration) mergeFrom(o Configuration) error {
	return mergo.Merge(this, o, mergo.WithOverride, mergo.WithTransformers(mergeTransformers{}))
}

// mergeTransformers prevents unset values without exported fields from
// overriding set ones.
type mergeTransformers struct{}

var regexpType = reflect.TypeOf(common.Regexp{})

func (this mergeTransformers) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	if t != regexpType {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if v, ok := src.Interface().(common.Regexp); ok && v.HasContent() && dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}
