package main

import (
	"github.com/argus-labs/blobber/pkg/blobber/input"
	"github.com/gdamore/tcell/v2"
)

// translator turns terminal events into input events. Terminals only report key presses, so every
// key event becomes a KeyPressed. Mouse buttons and motion are diffed against the previous event.
type translator struct {
	tracking bool
	lastX    int
	lastY    int
	buttons  tcell.ButtonMask
}

// translate returns the input events for ev, and whether the player asked to quit.
func (t *translator) translate(ev tcell.Event) ([]input.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.translateKey(ev)
	case *tcell.EventMouse:
		return t.translateMouse(ev), false
	default:
		return nil, false
	}
}

func (t *translator) translateKey(ev *tcell.EventKey) ([]input.Event, bool) {
	var key input.Key
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, true
	case tcell.KeyUp:
		key = input.KeyUp
	case tcell.KeyDown:
		key = input.KeyDown
	case tcell.KeyLeft:
		key = input.KeyLeft
	case tcell.KeyRight:
		key = input.KeyRight
	case tcell.KeyRune:
		key = input.KeyFromRune(ev.Rune())
	default:
		key = input.KeyUnknown
	}
	return []input.Event{input.KeyPressed{Key: key}}, false
}

func (t *translator) translateMouse(ev *tcell.EventMouse) []input.Event {
	var events []input.Event

	x, y := ev.Position()
	if t.tracking && (x != t.lastX || y != t.lastY) {
		events = append(events, input.MouseMotion{DX: float64(x - t.lastX), DY: float64(y - t.lastY)})
	}
	t.tracking, t.lastX, t.lastY = true, x, y

	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		events = append(events, input.MouseWheel{Delta: 1})
	case buttons&tcell.WheelDown != 0:
		events = append(events, input.MouseWheel{Delta: -1})
	}

	pressed := buttons & tcell.Button1
	switch {
	case pressed != 0 && t.buttons == 0:
		events = append(events, input.MousePressed{})
	case pressed == 0 && t.buttons != 0:
		events = append(events, input.MouseReleased{})
	}
	t.buttons = pressed
	return events
}
