package system

import (
	"math"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// LocomotionSystem turns horizontal input into a rate-limited velocity change
type LocomotionSystem struct {
	config *config.MovementConfig
}

// NewLocomotionSystem creates a new locomotion system
func NewLocomotionSystem(cfg *config.MovementConfig) *LocomotionSystem {
	return &LocomotionSystem{config: cfg}
}

// Rate returns the acceleration applied toward target this tick
func (s *LocomotionSystem) Rate(target float64, grounded, charging bool) float64 {
	moving := math.Abs(target) > s.config.Deadzone

	rate := s.config.Deceleration
	if moving {
		rate = s.config.Acceleration
	}
	if !grounded {
		rate *= s.config.AirControl
	}
	// Stop boost
	if !moving {
		rate *= s.config.StopBoost
	}
	if charging {
		rate *= s.config.ChargeDiscount
	}
	return rate
}

// Step returns the new horizontal velocity. The change never exceeds Rate*dt.
func (s *LocomotionSystem) Step(vx, axis float64, grounded, charging bool, dt float64) float64 {
	target := axis * s.config.MaxSpeed
	return entity.MoveTowards(vx, target, s.Rate(target, grounded, charging)*dt)
}
