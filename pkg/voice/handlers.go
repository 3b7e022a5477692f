package voice

import "sync"

// Handlers is a subscription table which can be embedded by Session
// implementations. Handlers are called in subscription order.
type Handlers struct {
	mutex   sync.RWMutex
	entries []*handlerEntry
}

type handlerEntry struct {
	Handler
}

func (this *Handlers) Subscribe(h Handler) func() {
	e := &handlerEntry{h}

	this.mutex.Lock()
	this.entries = append(this.entries, e)
	this.mutex.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			this.mutex.Lock()
			defer this.mutex.Unlock()
			for i, candidate := range this.entries {
				if candidate == e {
					this.entries = append(this.entries[:i:i], this.entries[i+1:]...)
					break
				}
			}
		})
	}
}

func (this *Handlers) FireStarted() {
	for _, h := range this.current() {
		h.OnStarted()
	}
}

func (this *Handlers) FireEnded() {
	for _, h := range this.current() {
		h.OnEnded()
	}
}

func (this *Handlers) FireError(detail string) {
	for _, h := range this.current() {
		h.OnError(detail)
	}
}

func (this *Handlers) current() []Handler {
	this.mutex.RLock()
	defer this.mutex.RUnlock()
	result := make([]Handler, len(this.entries))
	for i, e := range this.entries {
		result[i] = e.Handler
	}
	return result
}
