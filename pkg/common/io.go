package common

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	log "github.com/echocat/slf4g"
)

type settable interface {
	IsZero() bool
	Set(string) error
}

// Terminal asks the user for values which are not configured, yet.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.Writer
}

// DefaultTerminal prompts on stderr to keep stdout clean.
var DefaultTerminal = Terminal{}

func (this Terminal) open() (*readline.Instance, error) {
	cfg := readline.Config{
		Stdin:  this.Stdin,
		Stdout: this.Stdout,
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stderr
	}
	return readline.NewEx(&cfg)
}

// Request reads lines until one was accepted by of. If canBeEmpty an empty line is
// accepted, too. Nothing is read if of is already set.
func (this Terminal) Request(of settable, promptName string, canBeEmpty, isPassword bool) error {
	if !of.IsZero() {
		return nil
	}

	l, err := this.open()
	if err != nil {
		return fmt.Errorf("could not read from terminal for prompt %q: %w", promptName, err)
	}
	defer func() {
		_ = l.Close()
	}()

	prompt := fmt.Sprintf("Enter %s: ", promptName)
	l.SetPrompt(prompt)
	if isPassword {
		l.SetMaskRune('*')
	}
	l.ResetHistory()
	for of.IsZero() {
		var line string
		if isPassword {
			var b []byte
			b, err = l.ReadPassword(prompt)
			line = string(b)
		} else {
			line, err = l.Readline()
		}
		if err != nil {
			return fmt.Errorf("could not read from terminal for prompt %q: %w", promptName, err)
		}
		if err := of.Set(line); err != nil {
			log.WithError(err).
				With("prompt", promptName).
				Error("Illegal value entered.")
		}
		if canBeEmpty && of.IsZero() {
			return nil
		}
	}
	return nil
}

func (this Terminal) RequestString(of *string, promptName string, canBeEmpty, isPassword bool) error {
	buf := rawString(*of)
	if err := this.Request(&buf, promptName, canBeEmpty, isPassword); err != nil {
		return err
	}
	*of = string(buf)
	return nil
}

func RequestStringContentIfRequiredFromTerminal(of *string, promptName string, canBeEmpty, isPassword bool) error {
	return DefaultTerminal.RequestString(of, promptName, canBeEmpty, isPassword)
}

type rawString []byte

func (v rawString) IsZero() bool {
	return len(v) == 0
}

func (v *rawString) Set(s string) error {
	*v = rawString(s)
	return nil
}
