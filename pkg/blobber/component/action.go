package component

import (
	"fmt"

	"github.com/argus-labs/blobber/pkg/blobber/movement"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Action is the closed set of things an Intent can ask for: None, Move, Turn, Look and
// ControlCamera.
type Action interface {
	isAction()
	fmt.Stringer
}

// None is the empty action. It never becomes an Intent.
type None struct{}

// Move steps one tile toward Direction.
type Move struct {
	Direction movement.Direction `json:"direction"`
}

// Turn rotates a quarter turn toward Direction, or a half turn for Backward.
type Turn struct {
	Direction movement.Direction `json:"direction"`
}

// Look offsets the free-look camera.
type Look struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ControlCamera enables or disables free look.
type ControlCamera struct {
	Enabled bool `json:"enabled"`
}

func (None) isAction()          {}
func (Move) isAction()          {}
func (Turn) isAction()          {}
func (Look) isAction()          {}
func (ControlCamera) isAction() {}

func (None) String() string            { return "none" }
func (a Move) String() string          { return "move " + a.Direction.String() }
func (a Turn) String() string          { return "turn " + a.Direction.String() }
func (a Look) String() string          { return fmt.Sprintf("look %.3f,%.3f", a.DX, a.DY) }
func (a ControlCamera) String() string { return fmt.Sprintf("control camera %t", a.Enabled) }

// IsNone reports whether a is None or nil.
func IsNone(a Action) bool {
	if a == nil {
		return true
	}
	_, ok := a.(None)
	return ok
}

// Effect is the closed set of animated transitions: Translate and Rotate.
type Effect interface {
	isEffect()
}

// Translate moves from From one tile toward Direction.
type Translate struct {
	From      Position           `json:"from"`
	Direction movement.Direction `json:"direction"`
}

// Rotate turns from From toward Direction.
type Rotate struct {
	From      Orientation        `json:"from"`
	Direction movement.Direction `json:"direction"`
}

func (Translate) isEffect() {}
func (Rotate) isEffect()    {}

// -------------------------------------------------------------------------------------------------
// JSON
//
// Variants are encoded as {"kind": "...", ...fields} so snapshots and the debug search can read
// them.
// -------------------------------------------------------------------------------------------------

type taggedAction struct {
	Kind      string             `json:"kind"`
	Direction movement.Direction `json:"direction,omitempty"`
	DX        float64            `json:"dx,omitempty"`
	DY        float64            `json:"dy,omitempty"`
	Enabled   bool               `json:"enabled,omitempty"`
}

// MarshalJSON encodes the action variant with a kind tag.
func (i Intent) MarshalJSON() ([]byte, error) {
	var tagged taggedAction
	switch a := i.Action.(type) {
	case nil, None:
		tagged.Kind = "none"
	case Move:
		tagged = taggedAction{Kind: "move", Direction: a.Direction}
	case Turn:
		tagged = taggedAction{Kind: "turn", Direction: a.Direction}
	case Look:
		tagged = taggedAction{Kind: "look", DX: a.DX, DY: a.DY}
	case ControlCamera:
		tagged = taggedAction{Kind: "control_camera", Enabled: a.Enabled}
	default:
		return nil, eris.Errorf("unknown action %T", a)
	}
	return json.Marshal(struct {
		Action taggedAction `json:"action"`
	}{tagged})
}

// UnmarshalJSON decodes an action variant written by MarshalJSON.
func (i *Intent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Action taggedAction `json:"action"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "failed to decode intent")
	}
	a := raw.Action
	switch a.Kind {
	case "none":
		i.Action = None{}
	case "move":
		i.Action = Move{Direction: a.Direction}
	case "turn":
		i.Action = Turn{Direction: a.Direction}
	case "look":
		i.Action = Look{DX: a.DX, DY: a.DY}
	case "control_camera":
		i.Action = ControlCamera{Enabled: a.Enabled}
	default:
		return eris.Errorf("unknown action kind %q", a.Kind)
	}
	return nil
}

type taggedEffect struct {
	Kind      string             `json:"kind"`
	Direction movement.Direction `json:"direction"`
	Position  *Position          `json:"position,omitempty"`
	Facing    *Orientation       `json:"orientation,omitempty"`
}

type animationJSON struct {
	Effect   taggedEffect `json:"effect"`
	Progress uint32       `json:"progress"`
	Frames   uint32       `json:"frames"`
}

// MarshalJSON encodes the effect variant with a kind tag.
func (a Animation) MarshalJSON() ([]byte, error) {
	out := animationJSON{Progress: a.Progress, Frames: a.Frames}
	switch e := a.Effect.(type) {
	case Translate:
		out.Effect = taggedEffect{Kind: "translate", Direction: e.Direction, Position: &e.From}
	case Rotate:
		out.Effect = taggedEffect{Kind: "rotate", Direction: e.Direction, Facing: &e.From}
	default:
		return nil, eris.Errorf("unknown effect %T", e)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an animation written by MarshalJSON.
func (a *Animation) UnmarshalJSON(data []byte) error {
	var raw animationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "failed to decode animation")
	}
	switch raw.Effect.Kind {
	case "translate":
		if raw.Effect.Position == nil {
			return eris.New("translate effect without position")
		}
		a.Effect = Translate{From: *raw.Effect.Position, Direction: raw.Effect.Direction}
	case "rotate":
		if raw.Effect.Facing == nil {
			return eris.New("rotate effect without orientation")
		}
		a.Effect = Rotate{From: *raw.Effect.Facing, Direction: raw.Effect.Direction}
	default:
		return eris.Errorf("unknown effect kind %q", raw.Effect.Kind)
	}
	a.Progress, a.Frames = raw.Progress, raw.Frames
	return nil
}
