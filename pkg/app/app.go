package app

import (
	"context"
	"fmt"
	"iter"
	"os"
	"time"

	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-indicator/pkg/common"
	"github.com/blaubaer/call-indicator/pkg/credentials"
	"github.com/blaubaer/call-indicator/pkg/notify"
	"github.com/blaubaer/call-indicator/pkg/session"
	"github.com/blaubaer/call-indicator/pkg/signal"
	sfacade "github.com/blaubaer/call-indicator/pkg/signal/facade"
	"github.com/blaubaer/call-indicator/pkg/voice"
	vfacade "github.com/blaubaer/call-indicator/pkg/voice/facade"
)

func NewApp() *App {
	return &App{
		config: NewConfiguration(),
	}
}

type App struct {
	Signal            sfacade.Facade
	OtherSignals      []signal.Signal
	ConfigurationFile string

	// Provider replaces the voice capability selected by the configuration.
	Provider voice.Provider

	configFromFlags Configuration
	config          Configuration

	hub        notify.Hub
	history    *notify.History
	controller *session.Controller
}

func (this *App) SetupConfiguration(using common.FlagHolder) {
	this.configFromFlags.SetupConfiguration(using)

	using.Flag("configuration", "Defines the file from which the configuration should be loaded and/or stored to.").
		Short('c').
		Envar("CI_CONFIGURATION").
		StringVar(&this.ConfigurationFile)
}

func (this *App) Initialize() (rErr error) {
	success := false
	defer func() {
		if !success {
			if err := this.Dispose(); err != nil && rErr == nil {
				rErr = err
			}
		}
	}()

	if err := this.config.loadFromFile(this.configurationFile(), true); err != nil {
		return err
	}
	if err := this.config.mergeFrom(this.configFromFlags); err != nil {
		return fmt.Errorf("cannot apply configuration from flags: %w", err)
	}
	if err := this.resolveSessionCredentials(); err != nil {
		return err
	}

	this.history = notify.NewHistory(this.config.HistorySize)
	this.hub.Attach(this.history)

	provider := this.Provider
	if provider == nil {
		provider = &vfacade.Provider{Conf: &this.config.Voice}
	}
	this.controller = session.NewController(provider, &this.hub)

	if err := this.Signal.Initialize(&this.config.Signal, this.alwaysSaveConf); err != nil {
		return fmt.Errorf("cannot initialize signal %v: %w", this.config.Signal.Type, err)
	}
	for _, s := range this.OtherSignals {
		if err := s.Update(); err != nil {
			log.WithError(err).
				With("type", s.GetType()).
				Warn("Cannot update signal.")
		}
	}

	if err := this.controller.Initialize(this.config.Session); err != nil {
		return err
	}
	if cErr, ok := common.AsError[*session.ConfigurationError](this.controller.Err()); ok {
		log.With("fields", cErr.Fields).
			With("file", this.configurationFile()).
			Info("Provide the missing voice credentials by flags, inside the configuration file or by the credentials command.")
	}

	if err := this.saveConf(false); err != nil {
		return err
	}

	success = true
	return nil
}

// resolveSessionCredentials fills credentials neither provided by file nor by
// flags from the credential store.
func (this *App) resolveSessionCredentials() error {
	conf := &this.config.Session
	if !conf.IsPlaceholder(conf.PublicKey) && !conf.IsPlaceholder(conf.AgentId) {
		return nil
	}

	var cred credentials.Credentials
	supported, err := cred.ReadFromStore()
	if err != nil {
		return err
	}
	if !supported {
		return nil
	}

	if conf.IsPlaceholder(conf.PublicKey) && cred.VoicePublicKey != "" {
		conf.PublicKey = cred.VoicePublicKey
	}
	if conf.IsPlaceholder(conf.AgentId) && cred.VoiceAgentId != "" {
		conf.AgentId = cred.VoiceAgentId
	}
	return nil
}

// StoreSessionCredentials persists the credentials of the voice assistant.
// Without a supported credential store they are written into the
// configuration file.
func (this *App) StoreSessionCredentials(publicKey, agentId string) error {
	this.config.Session.PublicKey = publicKey
	this.config.Session.AgentId = agentId

	var cred credentials.Credentials
	if _, err := cred.ReadFromStore(); err != nil {
		return err
	}
	cred.VoicePublicKey = publicKey
	cred.VoiceAgentId = agentId

	supported, err := cred.WriteToStore()
	if err != nil {
		return err
	}
	if supported {
		log.Info("Voice credentials stored.")
		return nil
	}

	buf := this.config
	if err := buf.loadFromFile(this.configurationFile(), true); err != nil {
		return err
	}
	buf.Session.PublicKey = publicKey
	buf.Session.AgentId = agentId
	fn := this.configurationFile()
	if err := buf.saveToFile(fn); err != nil {
		return err
	}
	log.With("file", fn).
		Info("Voice credentials stored in configuration.")
	return nil
}

func (this *App) Toggle() {
	if c := this.controller; c != nil {
		c.ToggleCall()
	}
}

func (this *App) Snapshot() session.Snapshot {
	if c := this.controller; c != nil {
		return c.Snapshot()
	}
	return session.Snapshot{Status: session.StatusUninitialized}
}

func (this *App) History() iter.Seq[notify.Notification] {
	if h := this.history; h != nil {
		return h.All()
	}
	return func(func(notify.Notification) bool) {}
}

// Subscribe delivers every following notification of the session.
func (this *App) Subscribe(buffer int) (<-chan notify.Notification, func()) {
	return this.hub.Subscribe(buffer)
}

// Run keeps the signals in sync with the session until ctx is done. They are
// ensured after every notification and refreshed every RefreshInterval.
func (this *App) Run(ctx context.Context) error {
	notifications, unsubscribe := this.hub.Subscribe(0)
	defer unsubscribe()

	interval := this.config.RefreshInterval
	if interval <= 0 {
		interval = NewConfiguration().RefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	this.ensureSignals()
	for {
		select {
		case <-ctx.Done():
			log.Debug("Run loop interrupted.")
			return nil
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			log.With("notification", n).
				Debug("Notification received.")
		case <-ticker.C:
			log.With("interval", interval).
				Debug("Refresh signals...")
			this.updateSignals()
		}
		this.ensureSignals()
	}
}

func (this *App) updateSignals() {
	if err := this.Signal.Update(); err != nil {
		log.WithError(err).
			Error("Cannot update signal.")
	}
	for _, s := range this.OtherSignals {
		if err := s.Update(); err != nil {
			log.WithError(err).
				Warn("Cannot update signal.")
		}
	}
}

func (this *App) ensureSignals() {
	sCtx := signal.NewContext(this.Snapshot())
	if err := this.Signal.Ensure(sCtx); err != nil {
		log.WithError(err).
			Error("It was not possible to ensure signal state.")
	}
	for _, s := range this.OtherSignals {
		if err := s.Ensure(sCtx); err != nil {
			log.WithError(err).
				Warn("It was not possible to ensure signal state.")
		}
	}
}

func (this *App) configurationFile() string {
	if v := this.ConfigurationFile; v != "" {
		return v
	}
	return defaultConfigurationFile()
}

func (this *App) alwaysSaveConf() error {
	return this.saveConf(true)
}

func (this *App) saveConf(always bool) error {
	if this.config.PreventAutoSave {
		log.Debug("Automatically save of configuration disabled.")
		return nil
	}

	fn := this.configurationFile()
	if !always {
		_, err := os.Stat(fn)
		if os.IsNotExist(err) {
			log.With("file", fn).Info("Configuration absent.")
		} else if err != nil {
			return err
		} else {
			return nil
		}
	}

	if err := this.config.saveToFile(fn); err != nil {
		return err
	}

	log.With("file", fn).Info("Configuration saved.")

	return nil
}

// Dispose ends a possibly running call first and switches all signals off
// afterward.
func (this *App) Dispose() (rErr error) {
	if c := this.controller; c != nil {
		c.Dispose()
	}

	defer func() {
		if err := this.Signal.Dispose(); err != nil && rErr == nil {
			rErr = err
		}
	}()

	sCtx := signal.NewContext(this.Snapshot())

	for _, s := range this.OtherSignals {
		defer func() { _ = s.Ensure(sCtx) }()
	}

	return this.Signal.Ensure(sCtx)
}
