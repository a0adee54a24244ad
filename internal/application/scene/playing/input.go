package playing

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/parallelrun/internal/application/system"
)

// Keys is the device state the scene samples once per frame
type Keys interface {
	Pressed(k ebiten.Key) bool
	JustPressed(k ebiten.Key) bool
	JustReleased(k ebiten.Key) bool
	// Stick returns the analog horizontal axis, 0 without a gamepad
	Stick() float64
}

// Key bindings
var (
	leftKeys  = []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}
	rightKeys = []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}
	jumpKeys  = []ebiten.Key{ebiten.KeySpace, ebiten.KeyZ, ebiten.KeyW, ebiten.KeyArrowUp}
	dashKeys  = []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyShiftRight, ebiten.KeyX}
)

const (
	keyPause   = ebiten.KeyEscape
	keyRestart = ebiten.KeyR
	keyAdvance = ebiten.KeyEnter
	keySave    = ebiten.KeyF5
	keyDebug   = ebiten.KeyTab
)

// ReadInput samples the controller input from k. Digital keys win over the
// stick; opposing keys cancel.
func ReadInput(k Keys) system.InputState {
	var in system.InputState

	left, right := anyPressed(k, leftKeys), anyPressed(k, rightKeys)
	switch {
	case left && !right:
		in.Axis = -1
	case right && !left:
		in.Axis = 1
	case !left && !right:
		in.Axis = k.Stick()
	}

	in.JumpHeld = anyPressed(k, jumpKeys)
	for _, key := range jumpKeys {
		if k.JustPressed(key) {
			in.JumpDown = true
		}
		if k.JustReleased(key) {
			in.JumpUp = true
		}
	}
	// switching between two jump keys is not a release
	if in.JumpHeld {
		in.JumpUp = false
	}

	for _, key := range dashKeys {
		if k.JustPressed(key) {
			in.DashPressed = true
		}
	}

	return in.Clamp()
}

func anyPressed(k Keys, keys []ebiten.Key) bool {
	for _, key := range keys {
		if k.Pressed(key) {
			return true
		}
	}
	return false
}

// ebitenKeys reads the live keyboard and the first standard gamepad
type ebitenKeys struct {
	gamepads []ebiten.GamepadID
}

func (e *ebitenKeys) Pressed(k ebiten.Key) bool      { return ebiten.IsKeyPressed(k) }
func (e *ebitenKeys) JustPressed(k ebiten.Key) bool  { return inpututil.IsKeyJustPressed(k) }
func (e *ebitenKeys) JustReleased(k ebiten.Key) bool { return inpututil.IsKeyJustReleased(k) }

func (e *ebitenKeys) Stick() float64 {
	e.gamepads = ebiten.AppendGamepadIDs(e.gamepads[:0])
	for _, id := range e.gamepads {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			return ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		}
	}
	return 0
}
