package system

import (
	"math"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// JumpSystem evaluates jump windows and charge forces
type JumpSystem struct {
	jump   *config.JumpConfig
	charge *config.ChargeConfig
}

// NewJumpSystem creates a new jump system
func NewJumpSystem(jump *config.JumpConfig, charge *config.ChargeConfig) *JumpSystem {
	return &JumpSystem{jump: jump, charge: charge}
}

// CanCoyote reports whether the character counts as grounded for jumping
func (s *JumpSystem) CanCoyote(now float64, t *entity.AbilityTimers) bool {
	return entity.Within(now, t.LastGrounded, s.jump.CoyoteTime)
}

// Buffered reports whether a jump press is still remembered
func (s *JumpSystem) Buffered(now float64, t *entity.AbilityTimers) bool {
	return entity.Within(now, t.LastJumpPressed, s.jump.JumpBuffer)
}

// ChargeFraction maps a hold duration onto [0, 1]
func (s *JumpSystem) ChargeFraction(hold float64) float64 {
	span := s.charge.MaxTime - s.charge.MinTime
	if span <= 0 {
		if hold >= s.charge.MinTime {
			return 1
		}
		return 0
	}
	return entity.Clamp01((hold - s.charge.MinTime) / span)
}

// ReleaseForce is the impulse for releasing after hold seconds.
// Holds below the minimum charge time always give the base force.
func (s *JumpSystem) ReleaseForce(hold float64) float64 {
	if hold < s.charge.MinTime {
		return s.jump.Force
	}
	return entity.Lerp(s.jump.Force, s.charge.MaxForce, s.ChargeFraction(hold))
}

// CutGravityScale is the gravity scale used while ascending without the jump held
func (s *JumpSystem) CutGravityScale(defaultScale float64) float64 {
	return defaultScale / math.Max(0.01, s.jump.CutGravityMultiplier)
}
