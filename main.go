package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	log "github.com/echocat/slf4g"
	"github.com/echocat/slf4g/native"
	"github.com/echocat/slf4g/native/consumer"
	"github.com/echocat/slf4g/native/facade/value"
	"github.com/echocat/slf4g/native/formatter"
	"github.com/getlantern/systray"

	"github.com/blaubaer/call-indicator/pkg/app"
	"github.com/blaubaer/call-indicator/pkg/common"
	ps "github.com/blaubaer/call-indicator/pkg/signal"
	ts "github.com/blaubaer/call-indicator/pkg/signal/systray"
	"github.com/blaubaer/call-indicator/pkg/shell"
)

func main() {
	wf := &writerFacade{delegates: []io.Writer{os.Stderr}}
	consumer.Default = consumer.NewWriter(wf)

	lv := value.NewProvider(native.DefaultProvider)
	lv.Consumer.Formatter.Codec = value.MappingFormatterCodec{
		"text": formatter.NewText(func(v *formatter.Text) {
			bv := true
			v.AllowMultiLineMessage = &bv
			v.MultiLineMessageAfterFields = &bv
		}),
		"json": formatter.NewJson(),
	}

	a := app.NewApp()

	cmd := kingpin.New(os.Args[0], "Starts and ends calls with a hosted voice assistant and signals while a call is active.")
	a.SetupConfiguration(cmd)

	cmd.Command("tray", "Runs inside the system tray.").
		Default().
		Action(func(*kingpin.ParseContext) error {
			return runTray(a)
		})
	cmd.Command("shell", "Runs an interactive shell inside the terminal.").
		Action(func(*kingpin.ParseContext) error {
			return runShell(a, wf)
		})
	cmd.Command("credentials", "Stores the credentials of the voice assistant.").
		Action(func(*kingpin.ParseContext) error {
			return storeCredentials(a)
		})

	cmd.Flag("log.level", "").
		SetValue(lv.Level)
	cmd.Flag("log.format", "").
		Default("text").
		SetValue(lv.Consumer.Formatter)
	cmd.Flag("log.color", "").
		Default("auto").
		SetValue(lv.Consumer.Formatter.ColorMode)

	kingpin.MustParse(cmd.Parse(os.Args[1:]))
}

func runTray(a *app.App) error {
	tray := &ts.Systray{
		IconPhone: phoneIcon,
		IconPause: pauseIcon,
	}
	menu := &trayMenu{}
	a.Signal.Systray = tray
	a.OtherSignals = []ps.Signal{tray, menu}

	if err := a.Initialize(); err != nil {
		return err
	}

	systray.Run(func() {
		systray.SetIcon(phoneIcon)
		systray.SetTitle("Call indicator")
		menu.setItem(systray.AddMenuItem("Call", "Starts a call with the voice assistant."))
		lastMi := systray.AddMenuItem("No notifications yet.", "The most recent notification.")
		lastMi.Disable()
		systray.AddSeparator()
		quitMi := systray.AddMenuItem("Exit", "Exit the call indicator")

		ctx, cancel := context.WithCancel(context.Background())
		notifications, unsubscribe := a.Subscribe(0)

		go func() {
			defer unsubscribe()
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(c)
			for {
				select {
				case <-menu.clicked():
					a.Toggle()
				case n, ok := <-notifications:
					if !ok {
						notifications = nil
						continue
					}
					lastMi.SetTitle(n.String())
				case <-c:
					log.Info("Terminated. Going down...")
					cancel()
					return
				case <-quitMi.ClickedCh:
					log.Info("Exit clicked. Going down...")
					cancel()
					return
				case <-ctx.Done():
					return
				}
			}
		}()

		go func() {
			defer systray.Quit()
			defer cancel()
			if err := a.Run(ctx); err != nil {
				log.WithError(err).
					Error("Run failed.")
			}
			if err := a.Dispose(); err != nil {
				log.WithError(err).
					Warn("Cannot dispose.")
			}
		}()
	}, nil)

	return nil
}

func runShell(a *app.App, wf *writerFacade) error {
	if err := a.Initialize(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	runCtx, runCancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := a.Run(runCtx); err != nil {
			log.WithError(err).
				Error("Run failed.")
		}
	}()

	sh := shell.Shell{
		Target: a,
		Attach: func(stderr io.Writer) func() {
			wf.set([]io.Writer{stderr})
			return func() {
				wf.set([]io.Writer{os.Stderr})
			}
		},
	}
	rErr := sh.Run(ctx)

	runCancel()
	<-done

	if err := a.Dispose(); err != nil && rErr == nil {
		rErr = err
	}
	return rErr
}

func storeCredentials(a *app.App) error {
	var publicKey, agentId string
	if err := common.RequestStringContentIfRequiredFromTerminal(&publicKey, "public key of the voice assistant", false, true); err != nil {
		return err
	}
	if err := common.RequestStringContentIfRequiredFromTerminal(&agentId, "agent id", false, false); err != nil {
		return err
	}
	return a.StoreSessionCredentials(publicKey, agentId)
}

// trayMenu reflects the call onto the menu item which toggles it.
type trayMenu struct {
	mutex sync.Mutex
	item  *systray.MenuItem
}

func (this *trayMenu) setItem(v *systray.MenuItem) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.item = v
}

func (this *trayMenu) clicked() <-chan struct{} {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	if v := this.item; v != nil {
		return v.ClickedCh
	}
	return nil
}

func (this *trayMenu) Ensure(ctx ps.Context) error {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	v := this.item
	if v == nil {
		return nil
	}
	p := ctx.Presentation()
	if p.IsActive {
		v.SetTitle("Hang up")
		v.SetTooltip("Ends the running call.")
	} else {
		v.SetTitle("Call")
		v.SetTooltip(p.Label)
	}
	if p.ButtonEnabled {
		v.Enable()
	} else {
		v.Disable()
	}
	return nil
}

func (this *trayMenu) Update() error  { return nil }
func (this *trayMenu) Dispose() error { return nil }

func (this *trayMenu) GetType() ps.Type {
	return ps.TypeSystray
}

type writerFacade struct {
	delegates []io.Writer
	mutex     sync.RWMutex
}

func (this *writerFacade) Write(p []byte) (n int, err error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	for i, w := range this.delegates {
		var nn int
		if nn, err = w.Write(p); err != nil {
			return n, err
		}
		if i == 0 {
			n = nn
		} else if n != nn {
			return n, fmt.Errorf("the previous writer wrote %d, but the current one wrote %d bytes", n, nn)
		}
	}

	return
}

func (this *writerFacade) set(next []io.Writer) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.delegates = next
}

var (
	//go:embed assets/phone.ico
	phoneIcon []byte
	//go:embed assets/pause.ico
	pauseIcon []byte
)
