package system

// Intent is an action the character performed during a tick
type Intent interface {
	isIntent()
}

// JumpIntent records a jump impulse
type JumpIntent struct {
	Force   float64
	Charged bool
	// Fraction is the charge fraction for charged releases
	Fraction float64
}

func (JumpIntent) isIntent() {}

// ChargeIntent records the start of visible charging
type ChargeIntent struct{}

func (ChargeIntent) isIntent() {}

// DashIntent records a dash start
type DashIntent struct {
	Direction float64 // -1 for left, 1 for right
}

func (DashIntent) isIntent() {}

// LandIntent records a landing edge
type LandIntent struct {
	FallSpeed float64
	Squash    float64
	Locked    bool
}

func (LandIntent) isIntent() {}
