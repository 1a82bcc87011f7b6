package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a logical button the game reacts to.
type Action int

const (
	Left Action = iota
	Right
	Jump
	Dash
	Confirm
	actionCount
)

func (a Action) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case Jump:
		return "jump"
	case Dash:
		return "dash"
	case Confirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// Frame is the input state sampled once per tick.
type Frame struct {
	held     [actionCount]bool
	pressed  [actionCount]bool
	released [actionCount]bool
}

// Held reports whether the action is down this tick.
func (f Frame) Held(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return f.held[a]
}

// Pressed reports a press edge this tick.
func (f Frame) Pressed(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return f.pressed[a]
}

// Released reports a release edge this tick.
func (f Frame) Released(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return f.released[a]
}

// With returns a copy of f with the action set. Used to script input in
// tests and demos.
func (f Frame) With(a Action, held, pressed, released bool) Frame {
	if a < 0 || a >= actionCount {
		return f
	}
	f.held[a] = held
	f.pressed[a] = pressed
	f.released[a] = released
	return f
}

// Press is shorthand for a fresh press edge on a.
func (f Frame) Press(a Action) Frame {
	return f.With(a, true, true, false)
}

var keyBindings = [actionCount][]ebiten.Key{
	Left:    {ebiten.KeyA, ebiten.KeyArrowLeft},
	Right:   {ebiten.KeyD, ebiten.KeyArrowRight},
	Jump:    {ebiten.KeySpace, ebiten.KeyW, ebiten.KeyArrowUp},
	Dash:    {ebiten.KeyShiftLeft, ebiten.KeyC, ebiten.KeyX},
	Confirm: {ebiten.KeyEnter, ebiten.KeySpace},
}

var padBindings = [actionCount][]ebiten.StandardGamepadButton{
	Left:    {ebiten.StandardGamepadButtonLeftLeft},
	Right:   {ebiten.StandardGamepadButtonLeftRight},
	Jump:    {ebiten.StandardGamepadButtonRightBottom},
	Dash:    {ebiten.StandardGamepadButtonRightLeft},
	Confirm: {ebiten.StandardGamepadButtonCenterRight, ebiten.StandardGamepadButtonRightBottom},
}

const stickDeadzone = 0.2

// Poll samples keyboard and the first gamepad.
func Poll() Frame {
	var f Frame
	for a := Action(0); a < actionCount; a++ {
		for _, k := range keyBindings[a] {
			f.held[a] = f.held[a] || ebiten.IsKeyPressed(k)
			f.pressed[a] = f.pressed[a] || inpututil.IsKeyJustPressed(k)
			f.released[a] = f.released[a] || inpututil.IsKeyJustReleased(k)
		}
	}

	gamepads := ebiten.AppendGamepadIDs(nil)
	if len(gamepads) == 0 {
		return f
	}
	id := gamepads[0]
	for a := Action(0); a < actionCount; a++ {
		for _, b := range padBindings[a] {
			f.held[a] = f.held[a] || ebiten.IsStandardGamepadButtonPressed(id, b)
			f.pressed[a] = f.pressed[a] || inpututil.IsStandardGamepadButtonJustPressed(id, b)
			f.released[a] = f.released[a] || inpututil.IsStandardGamepadButtonJustReleased(id, b)
		}
	}
	x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	if math.Abs(x) > stickDeadzone {
		if x < 0 {
			f.held[Left] = true
		} else {
			f.held[Right] = true
		}
	}
	return f
}
