package system

import (
	"log"
	"math"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// Controller is the character aggregate. It owns the CharacterState and
// stamina pool and runs the ability state machines once per fixed step.
//
// Per-step order:
//  1. sample input (facing)
//  2. jump press / charge hold / release
//  3. ground probe, landing edge
//  4. buffered or coyote jump
//  5. jump-cut gravity
//  6. dash end / start
//  7. locomotion
type Controller struct {
	tuning    *config.TuningConfig
	body      Body
	probe     GroundProbe
	presenter Presenter

	stamina *entity.StaminaPool
	state   entity.CharacterState

	locomotion *LocomotionSystem
	jump       *JumpSystem
	dash       *DashSystem
	landing    *LandingDetector

	defaultGravity float64
	now            float64
	jumped         bool
	intents        []Intent
}

// NewController creates a controller driving body. The body's current
// gravity scale is taken as the default scale.
func NewController(cfg *config.TuningConfig, body Body, probe GroundProbe, presenter Presenter) *Controller {
	if presenter == nil {
		presenter = PresenterFunc(func(entity.Cue) {})
	}
	c := &Controller{
		body:           body,
		probe:          probe,
		presenter:      presenter,
		state:          entity.NewCharacterState(),
		defaultGravity: body.GravityScale(),
		intents:        make([]Intent, 0, 4),
	}
	if c.defaultGravity == 0 {
		c.defaultGravity = 1
		body.SetGravityScale(1)
	}
	c.stamina = entity.NewStaminaPool(cfg.Stamina.Max, cfg.Stamina.DrainRate, cfg.Stamina.RegenRate, cfg.Stamina.RegenDelay)
	c.SetTuning(cfg)
	c.SyncGround()
	return c
}

// SyncGround probes the ground without reporting a landing. A character
// placed on the floor is grounded from its first step.
func (c *Controller) SyncGround() {
	st := &c.state
	center := c.body.Position().Sub(entity.Vec2{Y: c.tuning.Ground.Offset})
	st.Grounded = c.probe.OverlapCircle(center, c.tuning.Ground.Radius, entity.LayerSolid)
	st.WasGrounded = st.Grounded
	st.FallSpeed = 0
	if st.Grounded {
		st.Timers.LastGrounded = c.now
	}
}

// SetTuning swaps the tuning without resetting state
func (c *Controller) SetTuning(cfg *config.TuningConfig) {
	c.tuning = cfg
	c.locomotion = NewLocomotionSystem(&cfg.Movement)
	c.jump = NewJumpSystem(&cfg.Jump, &cfg.Charge)
	c.dash = NewDashSystem(&cfg.Dash)
	c.landing = NewLandingDetector(&cfg.Landing)
	c.stamina.Configure(cfg.Stamina.Max, cfg.Stamina.DrainRate, cfg.Stamina.RegenRate, cfg.Stamina.RegenDelay)
}

// Update runs one fixed simulation step
func (c *Controller) Update(in InputState, dt float64) {
	in = in.Clamp()
	c.now += dt
	c.jumped = false
	c.intents = c.intents[:0]

	if math.Abs(in.Axis) > c.tuning.Movement.Deadzone && !c.state.IsDashing {
		c.state.Facing = entity.Sign(in.Axis)
	}

	c.handleJumpInput(in, dt)
	c.updateGrounded()
	c.handleBufferedJump()
	c.updateGravity(in)
	c.handleDash(in)

	if !c.state.AbilitiesExclusive() {
		log.Printf("Controller: dash and charge active together at t=%.3f, ending charge", c.now)
		c.endCharging()
	}

	c.applyLocomotion(in, dt)

	v := c.body.Velocity()
	if !c.state.Grounded {
		c.state.FallSpeed = math.Max(0, -v.Y)
	}
	c.state.Velocity = v
}

// FrameTick advances the stamina pool once per rendered frame
func (c *Controller) FrameTick(dt float64) {
	c.stamina.Tick(dt)
}

// handleJumpInput arms, continues and releases charges.
// A press that cannot arm a charge is remembered as a buffered jump.
func (c *Controller) handleJumpInput(in InputState, dt float64) {
	st := &c.state
	canCharge := st.Grounded || c.jump.CanCoyote(c.now, &st.Timers)
	hasStamina := c.stamina.HasFraction(c.tuning.Charge.MinStaminaFraction)

	if in.JumpDown {
		if canCharge && hasStamina && !st.IsDashing {
			st.ChargeArmed = true
			st.Timers.ChargeStart = c.now
		} else {
			st.Timers.LastJumpPressed = c.now
		}
	}

	if st.ChargeArmed && in.JumpHeld && canCharge && hasStamina {
		hold := c.now - st.Timers.ChargeStart
		if hold >= c.tuning.Charge.MinTime && !st.IsChargingJump {
			c.startCharging()
		}
		if st.IsChargingJump {
			c.continueCharging(hold, dt)
		}
	}

	if st.ChargeArmed && (in.JumpUp || !in.JumpHeld) {
		if st.IsChargingJump {
			c.releaseCharge()
		} else {
			// sub-minimum hold: an ordinary buffered jump
			st.Timers.LastJumpPressed = c.now
			st.ChargeArmed = false
		}
	}

	// Running dry or leaving the ground still pays out
	if st.IsChargingJump && (!hasStamina || !canCharge) {
		c.releaseCharge()
	}
}

func (c *Controller) startCharging() {
	st := &c.state
	st.IsChargingJump = true
	st.ChargeFraction = 0

	v := c.body.Velocity()
	c.body.SetVelocity(entity.Vec2{X: v.X * c.tuning.Movement.ChargeSlowdown, Y: v.Y})

	c.emit(ChargeIntent{}, entity.Cue{Kind: entity.CueChargeStart, At: c.body.Position()})
}

func (c *Controller) continueCharging(hold, dt float64) {
	st := &c.state
	st.ChargeFraction = c.jump.ChargeFraction(hold)
	if st.ChargeFraction >= 1 {
		c.stamina.MarkConsuming()
		return
	}
	if !c.stamina.ConsumeContinuous(dt) {
		c.releaseCharge()
	}
}

func (c *Controller) releaseCharge() {
	hold := c.now - c.state.Timers.ChargeStart
	frac := c.jump.ChargeFraction(hold)
	c.performJump(c.jump.ReleaseForce(hold), true, frac)
	c.endCharging()
}

func (c *Controller) endCharging() {
	c.state.IsChargingJump = false
	c.state.ChargeArmed = false
	c.state.ChargeFraction = 0
}

// performJump zeroes vertical velocity before the impulse so the
// height does not depend on prior vertical motion.
func (c *Controller) performJump(force float64, charged bool, frac float64) {
	st := &c.state
	v := c.body.Velocity()
	c.body.SetVelocity(entity.Vec2{X: v.X, Y: 0})
	c.body.ApplyImpulse(entity.Vec2{Y: force})

	st.Timers.LastJumpPressed = entity.Never
	st.Timers.LastGrounded = entity.Never
	if !charged {
		st.ChargeArmed = false
	}
	c.jumped = true

	c.emit(JumpIntent{Force: force, Charged: charged, Fraction: frac},
		entity.Cue{Kind: entity.CueJump, Strength: frac, At: c.body.Position()})
}

func (c *Controller) updateGrounded() {
	st := &c.state
	st.WasGrounded = st.Grounded

	center := c.body.Position().Sub(entity.Vec2{Y: c.tuning.Ground.Offset})
	st.Grounded = c.probe.OverlapCircle(center, c.tuning.Ground.Radius, entity.LayerSolid)

	c.landing.Update(c.now, st)
	if st.Grounded && !st.WasGrounded {
		fall := math.Max(st.FallSpeed, -math.Min(0, c.body.Velocity().Y))
		land := c.landing.Land(c.now, fall, st)
		st.FallSpeed = 0
		c.emit(land, entity.Cue{Kind: entity.CueLand, Strength: land.Squash, At: c.body.Position()})
	}

	// a jump this step already left the ground
	if st.Grounded && !c.jumped {
		st.Timers.LastGrounded = c.now
	}
}

func (c *Controller) handleBufferedJump() {
	st := &c.state
	if st.IsDashing || st.IsChargingJump {
		return
	}
	if c.jump.Buffered(c.now, &st.Timers) && c.jump.CanCoyote(c.now, &st.Timers) {
		c.performJump(c.tuning.Jump.Force, false, 0)
	}
}

func (c *Controller) updateGravity(in InputState) {
	if c.state.IsDashing {
		return
	}
	if !c.state.Grounded && c.body.Velocity().Y > 0 && !in.JumpHeld {
		c.body.SetGravityScale(c.jump.CutGravityScale(c.defaultGravity))
	} else {
		c.body.SetGravityScale(c.defaultGravity)
	}
}

func (c *Controller) handleDash(in InputState) {
	st := &c.state
	if c.dash.Expired(c.now, st) {
		c.dash.End(st)
		c.body.SetGravityScale(c.defaultGravity)
	}

	if in.DashPressed && !st.IsChargingJump && c.dash.Ready(c.now, st) {
		// cost is paid before any state change
		if c.stamina.Consume(c.tuning.Dash.StaminaCost) {
			c.startDash(in.Axis)
		}
	}

	if st.IsDashing {
		c.body.SetVelocity(entity.Vec2{X: st.DashDirection * c.tuning.Dash.Speed})
		c.stamina.MarkConsuming()
	}
}

func (c *Controller) startDash(axis float64) {
	st := &c.state
	dir := c.dash.Direction(axis, st.Facing, c.tuning.Movement.Deadzone)
	c.dash.Begin(c.now, dir, st)
	st.Facing = dir
	st.ChargeArmed = false

	c.body.SetVelocity(entity.Vec2{X: dir * c.tuning.Dash.Speed})
	c.body.SetGravityScale(0)

	c.emit(DashIntent{Direction: dir}, entity.Cue{Kind: entity.CueDash, Strength: dir, At: c.body.Position()})
}

func (c *Controller) applyLocomotion(in InputState, dt float64) {
	st := &c.state
	if st.IsDashing {
		return
	}
	if !st.IsChargingJump && st.IsLandingLocked {
		return
	}
	v := c.body.Velocity()
	vx := c.locomotion.Step(v.X, in.Axis, st.Grounded, st.IsChargingJump, dt)
	c.body.SetVelocity(entity.Vec2{X: vx, Y: v.Y})
}

func (c *Controller) emit(intent Intent, cue entity.Cue) {
	c.intents = append(c.intents, intent)
	c.presenter.Play(cue)
}

// Respawn teleports the character and resets abilities and stamina in place
func (c *Controller) Respawn(at entity.Vec2) {
	c.body.SetPosition(at)
	c.body.SetVelocity(entity.Vec2{})
	c.body.SetGravityScale(c.defaultGravity)
	c.state.Reset()
	c.stamina.Reset()
	c.SyncGround()
}

// IsDashing reports whether a dash is active this step
func (c *Controller) IsDashing() bool { return c.state.IsDashing }

// IsGrounded reports the ground probe result of this step
func (c *Controller) IsGrounded() bool { return c.state.Grounded }

// IsCharging reports whether visible charging is active
func (c *Controller) IsCharging() bool { return c.state.IsChargingJump }

// ChargeFraction returns the current charge progress
func (c *Controller) ChargeFraction() float64 { return c.state.ChargeFraction }

// Stamina exposes the pool for UI mirrors and respawn resets
func (c *Controller) Stamina() *entity.StaminaPool { return c.stamina }

// Snapshot returns a copy of the character state
func (c *Controller) Snapshot() entity.CharacterState { return c.state }

// Intents returns the actions performed by the last Update
func (c *Controller) Intents() []Intent { return c.intents }

// Now returns the simulation clock
func (c *Controller) Now() float64 { return c.now }

// Position returns the body position
func (c *Controller) Position() entity.Vec2 { return c.body.Position() }
