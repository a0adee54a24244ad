package system

import (
	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// LandingDetector locks movement briefly after hard landings
type LandingDetector struct {
	config *config.LandingConfig
}

// NewLandingDetector creates a new landing detector
func NewLandingDetector(cfg *config.LandingConfig) *LandingDetector {
	return &LandingDetector{config: cfg}
}

// Squash returns the squash amount for a fall speed, 0 for soft landings
func (d *LandingDetector) Squash(fallSpeed float64) float64 {
	if fallSpeed < d.config.MinVelocity {
		return 0
	}
	return entity.Clamp(fallSpeed/d.config.SquashDivisor, 0.1, d.config.MaxSquash)
}

// Land handles a grounded edge. A hard landing starts the lock, or
// restarts it when one is already running.
func (d *LandingDetector) Land(now, fallSpeed float64, st *entity.CharacterState) LandIntent {
	out := LandIntent{FallSpeed: fallSpeed, Squash: d.Squash(fallSpeed)}
	if fallSpeed >= d.config.MinVelocity {
		st.IsLandingLocked = true
		st.Timers.LandingLockEnd = now + d.config.LockDuration
		out.Locked = true
	}
	return out
}

// Update releases an expired lock
func (d *LandingDetector) Update(now float64, st *entity.CharacterState) {
	if st.IsLandingLocked && now >= st.Timers.LandingLockEnd {
		st.IsLandingLocked = false
	}
}
