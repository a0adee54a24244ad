package system

import (
	"math"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// DashSystem evaluates dash timing and direction
type DashSystem struct {
	config *config.DashConfig
}

// NewDashSystem creates a new dash system
func NewDashSystem(cfg *config.DashConfig) *DashSystem {
	return &DashSystem{config: cfg}
}

// Ready reports whether a new dash may start at now
func (s *DashSystem) Ready(now float64, st *entity.CharacterState) bool {
	return !st.IsDashing && now >= st.Timers.NextDashReady
}

// Expired reports whether the active dash has run its full duration
func (s *DashSystem) Expired(now float64, st *entity.CharacterState) bool {
	return st.IsDashing && now >= st.Timers.DashEnd
}

// Direction uses the input axis when it is non-negligible, otherwise facing.
// The result is always -1 or 1.
func (s *DashSystem) Direction(axis, facing, deadzone float64) float64 {
	if math.Abs(axis) > deadzone {
		return entity.Sign(axis)
	}
	if facing < 0 {
		return -1
	}
	return 1
}

// Begin marks the dash active starting at now
func (s *DashSystem) Begin(now, dir float64, st *entity.CharacterState) {
	st.IsDashing = true
	st.DashDirection = dir
	st.Timers.DashEnd = now + s.config.Duration
	st.Timers.NextDashReady = st.Timers.DashEnd + s.config.MinDelay
}

// End clears the dash
func (s *DashSystem) End(st *entity.CharacterState) {
	st.IsDashing = false
}
