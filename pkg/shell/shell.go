// Package shell provides an interactive terminal to control the call.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	log "github.com/echocat/slf4g"

	"github.com/blaubaer/call-indicator/pkg/notify"
	"github.com/blaubaer/call-indicator/pkg/session"
)

type Target interface {
	Toggle()
	Snapshot() session.Snapshot
	History() iter.Seq[notify.Notification]
	Subscribe(buffer int) (<-chan notify.Notification, func())
}

type Shell struct {
	Target Target

	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer

	Prompt string

	// Attach is called once the shell is open with a writer which does not
	// break the prompt. The returned function is called on close.
	Attach func(stderr io.Writer) (detach func())
}

var helpText = strings.TrimSpace(`
Commands:
  toggle, t, <empty>  Starts a call or ends the running one.
  status, s           Shows the current state of the call.
  history, h          Shows the recent notifications.
  help, ?             Shows this help.
  quit, q, exit       Leaves the shell and ends a running call.
`)

var errQuit = errors.New("quit")

// Run reads commands until quit was entered, the input ended or ctx is done.
func (this *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          this.prompt(),
		Stdin:           this.stdin(),
		Stdout:          this.stdout(),
		Stderr:          this.stderr(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("toggle"),
			readline.PcItem("status"),
			readline.PcItem("history"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return fmt.Errorf("cannot open shell: %w", err)
	}
	defer func() {
		_ = rl.Close()
	}()

	if attach := this.Attach; attach != nil {
		if detach := attach(rl.Stderr()); detach != nil {
			defer detach()
		}
	}

	notifications, unsubscribe := this.Target.Subscribe(0)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = rl.Close()
				return
			case n, ok := <-notifications:
				if !ok {
					return
				}
				printToast(rl.Stdout(), n)
				rl.Refresh()
			}
		}
	}()

	for n := range this.Target.History() {
		printToast(rl.Stdout(), n)
	}
	_, _ = fmt.Fprintln(rl.Stdout(), `Type "help" for all commands.`)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("cannot read from shell: %w", err)
		}

		if err := this.Execute(line, rl.Stdout()); errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			log.WithError(err).
				Warn("Command failed.")
		}
	}
}

// Execute runs a single command line and writes its output to w.
func (this *Shell) Execute(line string, w io.Writer) error {
	switch cmd := strings.ToLower(strings.TrimSpace(line)); cmd {
	case "", "toggle", "t":
		this.Target.Toggle()
	case "status", "s":
		printStatus(w, this.Target.Snapshot())
	case "history", "h":
		empty := true
		for n := range this.Target.History() {
			printToast(w, n)
			empty = false
		}
		if empty {
			_, _ = fmt.Fprintln(w, "No notifications yet.")
		}
	case "help", "?":
		_, _ = fmt.Fprintln(w, helpText)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try \"help\"", cmd)
	}
	return nil
}

func printToast(w io.Writer, n notify.Notification) {
	_, _ = fmt.Fprintf(w, "%s %s\n", n.Time.Format(time.TimeOnly), n)
}

func printStatus(w io.Writer, s session.Snapshot) {
	p := s.Presentation()
	_, _ = fmt.Fprintf(w, "Status:  %v\n", s.Status)
	_, _ = fmt.Fprintf(w, "Button:  [%s] %s\n", p.Icon, p.Label)
	if s.Pending != session.PendingNone {
		_, _ = fmt.Fprintf(w, "Pending: %v\n", s.Pending)
	}
	if v := p.ButtonColor; v != "" {
		_, _ = fmt.Fprintf(w, "Color:   %s\n", v)
	}
	if n := len(p.RingPulses); n > 0 {
		_, _ = fmt.Fprintf(w, "Rings:   %d\n", n)
	}
	if v := s.LastError; v != "" {
		_, _ = fmt.Fprintf(w, "Error:   %s\n", v)
	}
	if !p.ButtonEnabled {
		_, _ = fmt.Fprintln(w, "The call button is currently disabled.")
	}
}

func (this *Shell) prompt() string {
	if v := this.Prompt; v != "" {
		return v
	}
	return "call> "
}

func (this *Shell) stdin() io.ReadCloser {
	if v := this.Stdin; v != nil {
		return v
	}
	return os.Stdin
}

func (this *Shell) stdout() io.Writer {
	if v := this.Stdout; v != nil {
		return v
	}
	return os.Stdout
}

func (this *Shell) stderr() io.Writer {
	if v := this.Stderr; v != nil {
		return v
	}
	return os.Stderr
}
