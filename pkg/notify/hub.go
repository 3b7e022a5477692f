package notify

import (
	"sync"
	"time"

	log "github.com/echocat/slf4g"
)

const DefaultSubscriberBuffer = 32

// Hub fans notifications out to all of its subscribers. Notify never blocks: a
// subscriber which does not keep up loses notifications.
type Hub struct {
	// Now is used to stamp notifications without a time. Defaults to time.Now.
	Now func() time.Time

	mutex       sync.RWMutex
	subscribers map[*subscription]struct{}
	sinks       []Sink
}

type subscription struct {
	ch chan Notification
}

func (this *Hub) Notify(n Notification) {
	if n.Time.IsZero() {
		if now := this.Now; now != nil {
			n.Time = now()
		} else {
			n.Time = time.Now()
		}
	}

	this.mutex.RLock()
	defer this.mutex.RUnlock()

	for _, s := range this.sinks {
		s.Notify(n)
	}
	for s := range this.subscribers {
		select {
		case s.ch <- n:
		default:
			log.With("title", n.Title).
				With("kind", n.Kind).
				Warn("Subscriber does not keep up. Notification dropped.")
		}
	}
}

// Attach registers a sink which receives every notification synchronously.
func (this *Hub) Attach(sink Sink) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.sinks = append(this.sinks, sink)
}

// Subscribe returns a channel which receives all following notifications and a
// function which cancels the subscription and closes the channel.
func (this *Hub) Subscribe(buffer int) (<-chan Notification, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	s := &subscription{make(chan Notification, buffer)}

	this.mutex.Lock()
	if this.subscribers == nil {
		this.subscribers = make(map[*subscription]struct{})
	}
	this.subscribers[s] = struct{}{}
	this.mutex.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			this.mutex.Lock()
			defer this.mutex.Unlock()
			delete(this.subscribers, s)
			close(s.ch)
		})
	}
}
