package entity

import "math"

// Never is a timestamp that fails every window check.
var Never = math.Inf(-1)

// AbilityTimers holds the timestamps used by windowed jump and dash logic.
// All values are simulation seconds.
type AbilityTimers struct {
	LastGrounded    float64
	LastJumpPressed float64
	ChargeStart     float64
	DashEnd         float64
	NextDashReady   float64
	LandingLockEnd  float64
}

// NewAbilityTimers returns timers with every stamp cleared
func NewAbilityTimers() AbilityTimers {
	return AbilityTimers{
		LastGrounded:    Never,
		LastJumpPressed: Never,
		ChargeStart:     Never,
		DashEnd:         Never,
		NextDashReady:   Never,
		LandingLockEnd:  Never,
	}
}

// Within reports now - stamp <= window
func Within(now, stamp, window float64) bool {
	return now-stamp <= window
}
