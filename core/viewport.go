package core

import (
	"sync"

	"golang.org/x/term"
)

// Viewport broadcasts container width changes to scoped subscribers.
type Viewport struct {
	mu     sync.Mutex
	width  int
	subs   map[int]chan int
	nextID int
	closed bool
}

// NewViewport creates a viewport with an initial width.
func NewViewport(width int) *Viewport {
	return &Viewport{width: width, subs: make(map[int]chan int)}
}

// Width returns the last known width.
func (v *Viewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// Subscribe returns a channel of width changes and the function that releases it.
// The channel keeps only the most recent width when the reader falls behind.
func (v *Viewport) Subscribe() (<-chan int, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan int, 1)
	if v.closed {
		close(ch)
		return ch, func() {}
	}
	id := v.nextID
	v.nextID++
	v.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if sub, ok := v.subs[id]; ok {
				delete(v.subs, id)
				close(sub)
			}
		})
	}
}

// Set records a new width and notifies subscribers if it changed.
func (v *Viewport) Set(width int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || width == v.width {
		return
	}
	v.width = width
	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		ch <- width
	}
}

// Subscribers returns the number of active subscriptions.
func (v *Viewport) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// Close releases every subscription.
func (v *Viewport) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	for id, ch := range v.subs {
		delete(v.subs, id)
		close(ch)
	}
}

// TerminalWidth returns the width of the terminal at fd, or fallback when unknown.
func TerminalWidth(fd int, fallback int) int {
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return fallback
}
