// Package broadcast fans values out to any number of channel subscribers.
package broadcast

import (
	"sync"
)

const defaultBuffer = 8

// Hub delivers every published value to all current subscribers.
// Publishing never blocks: when a subscriber's buffer is full the oldest
// pending value is dropped so the subscriber always ends up with the latest.
type Hub[T any] struct {
	mu          sync.Mutex
	buffer      int
	subscribers map[chan T]struct{}
}

// NewHub creates a Hub whose subscriber channels hold buffer values.
// A non-positive buffer selects the default.
func NewHub[T any](buffer int) *Hub[T] {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub[T]{
		buffer:      buffer,
		subscribers: make(map[chan T]struct{}),
	}
}

// Subscribe registers a new subscriber and returns its channel and a cleanup
// function that unregisters and closes it. Cleanup is safe to call twice.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan T, h.buffer)
	h.subscribers[ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, ch)
			close(ch)
		})
	}
	return ch, cleanup
}

// SubscribeWith is Subscribe with initial queued as the first value.
func (h *Hub[T]) SubscribeWith(initial T) (<-chan T, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan T, h.buffer)
	ch <- initial
	h.subscribers[ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, ch)
			close(ch)
		})
	}
	return ch, cleanup
}

func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- v:
		default:
			// drop the stalest value to make room
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

func (h *Hub[T]) subscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
