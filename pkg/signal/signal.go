// Package signal renders the state of a call onto something the user can see
// while not looking at the call button, like the tray, lights or a smart home.
package signal

type Signal interface {
	Dispose() error
	Ensure(Context) error
	Update() error

	GetType() Type
}
