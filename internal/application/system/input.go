package system

// InputState is the per-tick input snapshot
type InputState struct {
	Axis        float64 // horizontal, in [-1, 1]
	JumpDown    bool    // pressed this tick
	JumpHeld    bool
	JumpUp      bool // released this tick
	DashPressed bool
}

// Clamp returns the input with the axis clamped to [-1, 1]
func (in InputState) Clamp() InputState {
	if in.Axis > 1 {
		in.Axis = 1
	} else if in.Axis < -1 {
		in.Axis = -1
	}
	return in
}

// Held returns the level-triggered part of the input, dropping edges.
// Used for fixed steps after the first in a frame.
func (in InputState) Held() InputState {
	return InputState{Axis: in.Axis, JumpHeld: in.JumpHeld}
}
