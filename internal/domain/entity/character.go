package entity

// CharacterState is the mutable per-tick state of the player character.
// It is owned by the simulation tick; other consumers read Snapshot copies.
type CharacterState struct {
	Velocity Vec2

	Grounded    bool
	WasGrounded bool
	Facing      float64 // -1 or 1

	IsDashing     bool
	DashDirection float64

	// ChargeArmed is set from the press until release; IsChargingJump
	// becomes visible once the hold passes the minimum charge time.
	ChargeArmed    bool
	IsChargingJump bool
	ChargeFraction float64

	IsLandingLocked bool

	// FallSpeed is the downward speed of the last airborne step, taken as
	// the impact speed when the character lands.
	FallSpeed float64

	Timers AbilityTimers
}

// NewCharacterState creates an airborne state facing right. The
// controller probes the ground before the first step.
func NewCharacterState() CharacterState {
	return CharacterState{
		Facing: 1,
		Timers: NewAbilityTimers(),
	}
}

// Reset restores ability state in place. Facing is kept.
func (s *CharacterState) Reset() {
	facing := s.Facing
	if facing == 0 {
		facing = 1
	}
	*s = NewCharacterState()
	s.Facing = facing
}

// AbilitiesExclusive reports whether at most one of dash and charge is active.
func (s CharacterState) AbilitiesExclusive() bool {
	return !(s.IsDashing && (s.IsChargingJump || s.ChargeArmed))
}
