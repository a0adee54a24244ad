package config

import (
	"errors"
	"fmt"
)

// Physics backend names
const (
	BackendTiles    = "tiles"
	BackendChipmunk = "chipmunk"
)

// ErrInvalidTuning is wrapped by every Validate failure
var ErrInvalidTuning = errors.New("invalid tuning")

// Validate checks the values the simulation divides by or orders against
func (c *TuningConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidTuning}, args...)...))
		}
	}

	check(c.Physics.Backend == BackendTiles || c.Physics.Backend == BackendChipmunk,
		"physics.backend %q is not %q or %q", c.Physics.Backend, BackendTiles, BackendChipmunk)
	check(c.Physics.FixedStep > 0, "physics.fixedStep must be positive, got %v", c.Physics.FixedStep)
	check(c.Physics.MaxSteps > 0, "physics.maxSteps must be positive, got %d", c.Physics.MaxSteps)
	check(c.Physics.Substeps > 0, "physics.substeps must be positive, got %d", c.Physics.Substeps)
	check(c.Character.Width > 0 && c.Character.Height > 0, "character size must be positive")
	check(c.Character.Mass > 0, "character.mass must be positive, got %v", c.Character.Mass)
	check(c.Movement.AirControl >= 0 && c.Movement.AirControl <= 1,
		"movement.airControl must be in [0,1], got %v", c.Movement.AirControl)
	check(c.Jump.CutGravityMultiplier > 0 && c.Jump.CutGravityMultiplier <= 1,
		"jump.cutGravityMultiplier must be in (0,1], got %v", c.Jump.CutGravityMultiplier)
	check(c.Charge.MinTime >= 0 && c.Charge.MinTime < c.Charge.MaxTime,
		"charge.minTime (%v) must be below charge.maxTime (%v)", c.Charge.MinTime, c.Charge.MaxTime)
	check(c.Charge.MaxForce >= c.Jump.Force,
		"charge.maxForce (%v) must not be below jump.force (%v)", c.Charge.MaxForce, c.Jump.Force)
	check(c.Dash.Duration > 0, "dash.duration must be positive, got %v", c.Dash.Duration)
	check(c.Dash.MinDelay >= 0, "dash.minDelay must not be negative, got %v", c.Dash.MinDelay)
	check(c.Stamina.Max > 0, "stamina.max must be positive, got %v", c.Stamina.Max)
	check(c.Dash.StaminaCost >= 0 && c.Dash.StaminaCost <= c.Stamina.Max,
		"dash.staminaCost must be in [0, stamina.max], got %v", c.Dash.StaminaCost)
	check(c.Ground.Radius > 0, "ground.radius must be positive, got %v", c.Ground.Radius)
	check(c.Landing.SquashDivisor > 0, "landing.squashDivisor must be positive, got %v", c.Landing.SquashDivisor)
	check(c.Warning.MaxRange > c.Warning.MinDistance,
		"warning.maxRange (%v) must exceed warning.minDistance (%v)", c.Warning.MaxRange, c.Warning.MinDistance)

	return errors.Join(errs...)
}
