// Package voice describes the hosted voice-assistant capability a call session
// is delegated to. Implementations live in the sub packages.
package voice

// Handler receives the lifecycle events of a Session in the order they were
// emitted by the capability.
type Handler interface {
	OnStarted()
	OnEnded()
	OnError(detail string)
}

// Session is a provisioned voice capability. Start and Stop only issue the
// request and return immediately; the outcome is reported through the
// subscribed handlers. Stop without a running call is a no-op.
type Session interface {
	Start(agentId string) error
	Stop() error
	Subscribe(Handler) (unsubscribe func())
}

type Provider interface {
	Provision(publicKey string) (Session, error)
}

type ProviderFunc func(publicKey string) (Session, error)

func (this ProviderFunc) Provision(publicKey string) (Session, error) {
	return this(publicKey)
}
