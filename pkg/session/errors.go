package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDisposed           = errors.New("session controller already disposed")
	ErrAlreadyInitialized = errors.New("session controller already initialized")
)

// ConfigurationError reports credentials which are unset or placeholders. It
// blocks every call attempt until the controller is initialized again.
type ConfigurationError struct {
	Fields []string
}

func (this *ConfigurationError) Error() string {
	return fmt.Sprintf("voice credentials not configured: %s", strings.Join(this.Fields, ", "))
}

// CapabilityInitError reports that the voice capability could not be provisioned.
type CapabilityInitError struct {
	Err error
}

func (this *CapabilityInitError) Error() string {
	return fmt.Sprintf("cannot provision voice session: %v", this.Err)
}

func (this *CapabilityInitError) Unwrap() error {
	return this.Err
}

// SessionRuntimeError is an error reported by the voice capability while a
// session exists.
type SessionRuntimeError struct {
	Detail string
}

func (this *SessionRuntimeError) Error() string {
	return this.Detail
}
