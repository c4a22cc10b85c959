// Package input holds the raw input events a host collects between ticks and the key bindings
// that turn them into actions.
package input

import "sync"

// Key is a keyboard key the simulation knows about. Keys are identified by the character they
// produce on an AZERTY layout.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyA
	KeyD
	KeyE
	KeyQ
	KeyS
	KeyZ
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
)

var keyNames = map[Key]string{ //nolint:gochecknoglobals // lookup table
	KeyUnknown: "unknown",
	KeyA:       "a",
	KeyD:       "d",
	KeyE:       "e",
	KeyQ:       "q",
	KeyS:       "s",
	KeyZ:       "z",
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeyEscape:  "escape",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return keyNames[KeyUnknown]
}

// KeyFromRune maps a typed character to a Key, case-insensitively.
func KeyFromRune(r rune) Key {
	switch r {
	case 'a', 'A':
		return KeyA
	case 'd', 'D':
		return KeyD
	case 'e', 'E':
		return KeyE
	case 'q', 'Q':
		return KeyQ
	case 's', 'S':
		return KeyS
	case 'z', 'Z':
		return KeyZ
	default:
		return KeyUnknown
	}
}

// Event is one raw input event: KeyPressed, KeyReleased, MousePressed, MouseReleased, MouseWheel
// or MouseMotion.
type Event interface {
	isEvent()
}

type KeyPressed struct{ Key Key }
type KeyReleased struct{ Key Key }
type MousePressed struct{}
type MouseReleased struct{}
type MouseWheel struct{ Delta float64 }

// MouseMotion is a relative pointer movement, in pixels.
type MouseMotion struct{ DX, DY float64 }

func (KeyPressed) isEvent()    {}
func (KeyReleased) isEvent()   {}
func (MousePressed) isEvent()  {}
func (MouseReleased) isEvent() {}
func (MouseWheel) isEvent()    {}
func (MouseMotion) isEvent()   {}

// Queue accumulates events between ticks. Push is safe to call from the host's input goroutine
// while a tick reads the events.
type Queue struct {
	mu     sync.Mutex
	events []Event
	delta  float64
}

// Push appends events in arrival order.
func (q *Queue) Push(events ...Event) {
	q.mu.Lock()
	q.events = append(q.events, events...)
	q.mu.Unlock()
}

// Events returns a copy of the queued events.
func (q *Queue) Events() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Event(nil), q.events...)
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Clear drops every queued event.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.events = q.events[:0]
	q.mu.Unlock()
}

// SetDelta records the frame delta, in seconds, for the coming tick.
func (q *Queue) SetDelta(delta float64) {
	q.mu.Lock()
	q.delta = delta
	q.mu.Unlock()
}

// Delta returns the frame delta of the current tick.
func (q *Queue) Delta() float64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.delta
}
