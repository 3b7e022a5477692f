package notify

import (
	"iter"
	"sync"
)

const DefaultHistorySize = 50

func NewHistory(maxEntries uint32) *History {
	if maxEntries == 0 {
		maxEntries = DefaultHistorySize
	}
	return &History{
		entries:  make([]Notification, maxEntries),
		capacity: int(maxEntries),
	}
}

// History keeps the most recent notifications. If full the oldest one will be
// overwritten.
type History struct {
	offset   int
	length   int
	entries  []Notification
	capacity int

	mutex sync.RWMutex
}

func (this *History) Notify(n Notification) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	i := this.offset + this.length
	if i >= this.capacity {
		i -= this.capacity
	}
	this.entries[i] = n

	if this.length < this.capacity {
		this.length++
	} else {
		this.offset++
		if this.offset >= this.capacity {
			this.offset = 0
		}
	}
}

func (this *History) Len() int {
	this.mutex.RLock()
	defer this.mutex.RUnlock()
	return this.length
}

// All yields the retained notifications from the oldest to the newest one.
func (this *History) All() iter.Seq[Notification] {
	return func(yield func(Notification) bool) {
		for _, n := range this.snapshot() {
			if !yield(n) {
				return
			}
		}
	}
}

func (this *History) snapshot() []Notification {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	result := make([]Notification, this.length)
	for i := 0; i < this.length; i++ {
		j := this.offset + i
		if j >= this.capacity {
			j -= this.capacity
		}
		result[i] = this.entries[j]
	}
	return result
}
