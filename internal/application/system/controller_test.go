package system

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

const step = 1.0 / 64

type fakeBody struct {
	pos      entity.Vec2
	vel      entity.Vec2
	gravity  float64
	impulses []entity.Vec2
}

func (b *fakeBody) Position() entity.Vec2     { return b.pos }
func (b *fakeBody) SetPosition(p entity.Vec2) { b.pos = p }
func (b *fakeBody) Velocity() entity.Vec2     { return b.vel }
func (b *fakeBody) SetVelocity(v entity.Vec2) { b.vel = v }
func (b *fakeBody) GravityScale() float64     { return b.gravity }
func (b *fakeBody) SetGravityScale(s float64) { b.gravity = s }
func (b *fakeBody) ApplyImpulse(j entity.Vec2) {
	b.impulses = append(b.impulses, j)
	b.vel = b.vel.Add(j)
}

type fakeProbe struct {
	grounded   bool
	calls      int
	lastCenter entity.Vec2
	lastRadius float64
	lastMask   entity.LayerMask
}

func (p *fakeProbe) OverlapCircle(center entity.Vec2, radius float64, mask entity.LayerMask) bool {
	p.calls++
	p.lastCenter = center
	p.lastRadius = radius
	p.lastMask = mask
	return p.grounded
}

type recordingPresenter struct {
	cues []entity.Cue
}

func (p *recordingPresenter) Play(cue entity.Cue) { p.cues = append(p.cues, cue) }

func (p *recordingPresenter) count(kind entity.CueKind) int {
	n := 0
	for _, c := range p.cues {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func createTestController() (*Controller, *fakeBody, *fakeProbe, *recordingPresenter) {
	body := &fakeBody{pos: entity.Vec2{X: 2, Y: 1.5}, gravity: 1}
	probe := &fakeProbe{grounded: true}
	pres := &recordingPresenter{}
	c := NewController(config.DefaultTuning(), body, probe, pres)
	// settle grounding
	c.Update(InputState{}, step)
	pres.cues = nil
	return c, body, probe, pres
}

var (
	press   = InputState{JumpDown: true, JumpHeld: true}
	hold    = InputState{JumpHeld: true}
	release = InputState{JumpUp: true}
	tap     = InputState{JumpDown: true, JumpUp: true}
	dash    = InputState{DashPressed: true}
)

func countJumps(intents []Intent) int {
	n := 0
	for _, i := range intents {
		if _, ok := i.(JumpIntent); ok {
			n++
		}
	}
	return n
}

func lastJump(t *testing.T, c *Controller) JumpIntent {
	t.Helper()
	for _, i := range c.Intents() {
		if j, ok := i.(JumpIntent); ok {
			return j
		}
	}
	require.Fail(t, "no jump this step")
	return JumpIntent{}
}

func TestController_GroundProbe(t *testing.T) {
	c, _, probe, _ := createTestController()

	assert.True(t, c.IsGrounded())
	assert.Equal(t, entity.Vec2{X: 2, Y: 1}, probe.lastCenter)
	assert.Equal(t, 0.15, probe.lastRadius)
	assert.Equal(t, entity.LayerSolid, probe.lastMask)
}

func TestController_TapJumpsWithBaseForce(t *testing.T) {
	c, body, _, pres := createTestController()
	body.vel.Y = -3

	c.Update(press, step)
	assert.Empty(t, body.impulses, "press only arms")

	c.Update(release, step)
	j := lastJump(t, c)
	assert.Equal(t, 14.0, j.Force)
	assert.False(t, j.Charged)
	assert.Equal(t, 14.0, body.vel.Y, "vertical velocity zeroed before impulse")
	assert.Equal(t, 1, pres.count(entity.CueJump))
}

func TestController_ChargedRelease(t *testing.T) {
	c, body, _, pres := createTestController()
	body.vel.X = 5

	c.Update(press, step)
	for n := 1; n < 20; n++ {
		c.Update(hold, step)
		assert.False(t, c.IsCharging(), "not visible before the minimum hold")
	}

	c.Update(hold, step) // hold = 20/64 = 0.3125
	require.True(t, c.IsCharging())
	assert.Equal(t, 1, pres.count(entity.CueChargeStart))
	assert.Less(t, body.vel.X, 5.0, "charge start slows horizontal motion")

	for n := 21; n <= 40; n++ {
		c.Update(hold, step)
	}
	assert.Greater(t, c.ChargeFraction(), 0.0)
	assert.Less(t, c.Stamina().Current(), 100.0, "charging drains stamina")

	c.Update(release, step)
	j := lastJump(t, c)
	assert.True(t, j.Charged)
	want := c.jump.ReleaseForce(41 * step)
	assert.InDelta(t, want, j.Force, 1e-9)
	assert.InDelta(t, want, body.vel.Y, 1e-9)
	assert.False(t, c.IsCharging())
	assert.False(t, c.Snapshot().ChargeArmed)
}

func TestController_FullChargeGivesMaxForce(t *testing.T) {
	c, _, _, _ := createTestController()

	c.Update(press, step)
	for n := 1; n <= 80; n++ {
		c.Update(hold, step)
	}
	assert.Equal(t, 1.0, c.ChargeFraction())

	c.Update(release, step)
	assert.Equal(t, 20.0, lastJump(t, c).Force)
}

func TestController_StaminaExhaustionForcesRelease(t *testing.T) {
	c, body, _, _ := createTestController()
	require.True(t, c.Stamina().Consume(88))

	c.Update(press, step)
	jumps := 0
	for n := 1; n < 60 && jumps == 0; n++ {
		c.Update(hold, step)
		jumps += countJumps(c.Intents())
	}

	require.Equal(t, 1, jumps, "charge pays out even without release")
	assert.GreaterOrEqual(t, body.vel.Y, 14.0)
	assert.False(t, c.IsCharging())
	assert.GreaterOrEqual(t, c.Stamina().Current(), 0.0)
}

func TestController_LowStaminaStillJumps(t *testing.T) {
	c, body, _, _ := createTestController()
	require.True(t, c.Stamina().Consume(95))

	c.Update(press, step)
	assert.Equal(t, 14.0, body.vel.Y, "press without charge stamina is a plain jump")
	assert.False(t, c.Snapshot().ChargeArmed)
}

func TestController_CoyoteJump(t *testing.T) {
	c, body, probe, _ := createTestController()

	probe.grounded = false
	c.Update(InputState{}, step)
	c.Update(InputState{}, step)

	c.Update(tap, step)
	assert.Equal(t, 1, countJumps(c.Intents()))
	assert.Equal(t, 14.0, body.vel.Y)
}

func TestController_NoJumpAfterCoyote(t *testing.T) {
	c, body, probe, _ := createTestController()

	probe.grounded = false
	for i := 0; i < 10; i++ { // 0.156s > coyote
		c.Update(InputState{}, step)
	}
	c.Update(tap, step)
	assert.Zero(t, countJumps(c.Intents()))
	assert.Empty(t, body.impulses)
}

func TestController_JumpBuffer(t *testing.T) {
	tests := []struct {
		name      string
		airTicks  int
		wantJumps int
	}{
		{"landing inside buffer", 5, 1}, // 0.078s
		{"landing after buffer", 10, 0}, // 0.156s
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, probe, _ := createTestController()
			probe.grounded = false
			for i := 0; i < 10; i++ {
				c.Update(InputState{}, step)
			}

			c.Update(tap, step)
			for i := 1; i < tt.airTicks; i++ {
				c.Update(InputState{}, step)
			}
			probe.grounded = true

			jumps := 0
			for i := 0; i < 20; i++ {
				c.Update(InputState{}, step)
				jumps += countJumps(c.Intents())
			}
			assert.Equal(t, tt.wantJumps, jumps, "buffer fires at most once")
		})
	}
}

func TestController_HeldPressBufferedBeforeLanding(t *testing.T) {
	c, _, probe, _ := createTestController()
	probe.grounded = false
	for i := 0; i < 10; i++ {
		c.Update(InputState{}, step)
	}

	c.Update(press, step)
	c.Update(hold, step)
	probe.grounded = true
	c.Update(hold, step)
	assert.Equal(t, 1, countJumps(c.Intents()))

	c.Update(release, step)
	assert.Zero(t, countJumps(c.Intents()), "release after a buffered jump does nothing")
}

func TestController_JumpCutGravity(t *testing.T) {
	c, body, probe, _ := createTestController()
	probe.grounded = false

	body.vel.Y = 5
	c.Update(hold, step)
	assert.Equal(t, 1.0, body.gravity)

	c.Update(InputState{}, step)
	assert.Equal(t, 2.0, body.gravity, "released while ascending")

	body.vel.Y = -1
	c.Update(InputState{}, step)
	assert.Equal(t, 1.0, body.gravity, "restored once descending")
}

func TestController_DashDirection(t *testing.T) {
	tests := []struct {
		name   string
		facing float64
		axis   float64
		wantVX float64
	}{
		{"no input facing right", 1, 0, 20},
		{"no input facing left", -1, 0, -20},
		{"input overrides facing", 1, -1, -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, body, _, pres := createTestController()
			c.Update(InputState{Axis: tt.facing}, step)

			c.Update(InputState{Axis: tt.axis, DashPressed: true}, step)
			require.True(t, c.IsDashing())
			assert.Equal(t, tt.wantVX, body.vel.X)
			assert.Equal(t, 0.0, body.vel.Y)
			assert.Equal(t, 0.0, body.gravity)
			assert.Equal(t, 80.0, c.Stamina().Current())
			assert.Equal(t, 1, pres.count(entity.CueDash))
		})
	}
}

func TestController_DashWindow(t *testing.T) {
	c, body, _, _ := createTestController()

	c.Update(dash, step)
	dashing := 1
	for i := 0; i < 20; i++ {
		c.Update(InputState{}, step)
		if !c.IsDashing() {
			assert.Equal(t, 1.0, body.gravity, "gravity restored on the first post-dash step")
			break
		}
		assert.Equal(t, 0.0, body.gravity)
		assert.True(t, c.Stamina().IsConsuming(), "dash blocks regen every step")
		dashing++
	}
	// 0.12s at 1/64 covers steps 0..7
	assert.Equal(t, 8, dashing)
}

func TestController_DashRearmDelay(t *testing.T) {
	c, _, _, _ := createTestController()

	c.Update(dash, step)
	starts := []int{0}
	for n := 1; n < 20; n++ {
		c.Update(dash, step)
		for _, i := range c.Intents() {
			if _, ok := i.(DashIntent); ok {
				starts = append(starts, n)
			}
		}
	}
	require.GreaterOrEqual(t, len(starts), 2)
	// ends at step 8, ready again at 0.17s -> step 11
	assert.Equal(t, 11, starts[1])
}

func TestController_DashUnaffordable(t *testing.T) {
	c, body, _, pres := createTestController()
	require.True(t, c.Stamina().Consume(85))

	c.Update(dash, step)
	assert.False(t, c.IsDashing())
	assert.Equal(t, 15.0, c.Stamina().Current())
	assert.Equal(t, 0, pres.count(entity.CueDash))
	assert.Equal(t, 1.0, body.gravity)
}

func TestController_NoChargeWhileDashing(t *testing.T) {
	c, _, _, _ := createTestController()

	c.Update(dash, step)
	c.Update(press, step)
	assert.False(t, c.Snapshot().ChargeArmed)
	for i := 0; i < 30; i++ {
		c.Update(hold, step)
		assert.True(t, c.Snapshot().AbilitiesExclusive())
	}
	assert.False(t, c.IsCharging())
}

func TestController_NoDashWhileCharging(t *testing.T) {
	c, _, _, _ := createTestController()

	c.Update(press, step)
	for i := 0; i < 25; i++ {
		c.Update(hold, step)
	}
	require.True(t, c.IsCharging())

	c.Update(InputState{JumpHeld: true, DashPressed: true}, step)
	assert.False(t, c.IsDashing())
	assert.True(t, c.IsCharging())
}

func TestController_HardLandingLocksMovement(t *testing.T) {
	c, body, probe, pres := createTestController()
	probe.grounded = false
	body.vel.Y = -12
	c.Update(InputState{}, step)
	body.vel = entity.Vec2{}

	probe.grounded = true
	c.Update(InputState{Axis: 1}, step)
	require.True(t, c.Snapshot().IsLandingLocked)
	land := pres.cues[len(pres.cues)-1]
	assert.Equal(t, entity.CueLand, land.Kind)
	assert.Equal(t, 0.7, land.Strength)
	assert.Equal(t, 0.0, body.vel.X, "locked steps ignore input")

	for i := 0; i < 10; i++ {
		c.Update(InputState{Axis: 1}, step)
	}
	assert.False(t, c.Snapshot().IsLandingLocked)
	assert.Greater(t, body.vel.X, 0.0)
}

func TestController_SoftLandingDoesNotLock(t *testing.T) {
	c, body, probe, pres := createTestController()
	probe.grounded = false
	body.vel.Y = -3
	c.Update(InputState{}, step)

	probe.grounded = true
	c.Update(InputState{Axis: 1}, step)
	assert.False(t, c.Snapshot().IsLandingLocked)
	assert.Equal(t, 1, pres.count(entity.CueLand))
	assert.Greater(t, body.vel.X, 0.0)
}

func TestController_LandingLockRestarts(t *testing.T) {
	c, body, probe, _ := createTestController()

	land := func() {
		probe.grounded = false
		body.vel.Y = -10
		c.Update(InputState{}, step)
		probe.grounded = true
		c.Update(InputState{}, step)
	}

	land()
	first := c.Snapshot().Timers.LandingLockEnd
	land()
	second := c.Snapshot().Timers.LandingLockEnd
	assert.InDelta(t, 2*step, second-first, 1e-9)
}

func TestController_Respawn(t *testing.T) {
	c, body, _, _ := createTestController()
	c.Update(dash, step)
	require.True(t, c.IsDashing())

	c.Respawn(entity.Vec2{X: 7, Y: 3})

	assert.Equal(t, entity.Vec2{X: 7, Y: 3}, body.pos)
	assert.Equal(t, entity.Vec2{}, body.vel)
	assert.Equal(t, 1.0, body.gravity)
	assert.False(t, c.IsDashing())
	assert.Equal(t, 100.0, c.Stamina().Current())
	assert.Equal(t, entity.Never, c.Snapshot().Timers.LastJumpPressed)
}

func TestController_GroundedFromFirstStep(t *testing.T) {
	chargeFromFirstStep := func(t *testing.T, c *Controller, body *fakeBody, pres *recordingPresenter) {
		t.Helper()
		c.Update(press, step)
		assert.True(t, c.Snapshot().ChargeArmed)
		assert.Empty(t, body.impulses)
		assert.Zero(t, pres.count(entity.CueLand))

		for i := 0; i < 40; i++ {
			c.Update(hold, step)
		}
		assert.True(t, c.IsCharging())
		assert.Empty(t, body.impulses)
	}

	t.Run("at spawn", func(t *testing.T) {
		body := &fakeBody{pos: entity.Vec2{X: 2, Y: 1.5}, gravity: 1}
		pres := &recordingPresenter{}
		c := NewController(config.DefaultTuning(), body, &fakeProbe{grounded: true}, pres)

		assert.True(t, c.IsGrounded())
		chargeFromFirstStep(t, c, body, pres)
	})

	t.Run("after respawn", func(t *testing.T) {
		c, body, probe, pres := createTestController()
		probe.grounded = false
		body.vel.Y = -8
		c.Update(InputState{}, step)
		require.False(t, c.IsGrounded())

		probe.grounded = true
		c.Respawn(entity.Vec2{X: 4, Y: 1.5})

		assert.True(t, c.IsGrounded())
		assert.Zero(t, c.Snapshot().FallSpeed)
		chargeFromFirstStep(t, c, body, pres)
	})

	t.Run("respawn in the air", func(t *testing.T) {
		c, _, probe, _ := createTestController()
		probe.grounded = false

		c.Respawn(entity.Vec2{X: 4, Y: 3})

		assert.False(t, c.IsGrounded())
	})
}

func TestController_LandingUsesLastFallSpeed(t *testing.T) {
	c, body, probe, pres := createTestController()
	probe.grounded = false
	body.vel.Y = -12
	c.Update(InputState{}, step)
	assert.Equal(t, 12.0, c.Snapshot().FallSpeed)

	body.vel.Y = -3
	c.Update(InputState{}, step)
	assert.Equal(t, 3.0, c.Snapshot().FallSpeed)

	probe.grounded = true
	c.Update(InputState{}, step)

	var land LandIntent
	for _, i := range c.Intents() {
		if l, ok := i.(LandIntent); ok {
			land = l
		}
	}
	assert.Equal(t, 3.0, land.FallSpeed)
	assert.False(t, land.Locked)
	assert.False(t, c.Snapshot().IsLandingLocked)
	assert.Equal(t, 1, pres.count(entity.CueLand))
}

func TestController_SetTuningKeepsState(t *testing.T) {
	c, body, _, _ := createTestController()
	c.Update(InputState{Axis: 1}, step)
	vx := body.vel.X

	cfg := config.DefaultTuning()
	cfg.Movement.MaxSpeed = 4
	c.SetTuning(cfg)

	assert.Equal(t, vx, body.vel.X)
	for i := 0; i < 60; i++ {
		c.Update(InputState{Axis: 1}, step)
	}
	assert.Equal(t, 4.0, body.vel.X)
}

func TestController_RandomInputKeepsInvariants(t *testing.T) {
	c, body, probe, _ := createTestController()
	rng := rand.New(rand.NewSource(7))
	held := false

	for i := 0; i < 5000; i++ {
		in := InputState{Axis: float64(rng.Intn(3) - 1)}
		switch rng.Intn(6) {
		case 0:
			if !held {
				in.JumpDown = true
				held = true
			}
		case 1:
			if held {
				in.JumpUp = true
				held = false
			}
		case 2:
			in.DashPressed = true
		}
		in.JumpHeld = held
		if rng.Intn(10) == 0 {
			probe.grounded = !probe.grounded
		}
		if !probe.grounded {
			body.vel.Y -= 30 * step
		}

		c.Update(in, step)
		c.FrameTick(step)

		st := c.Snapshot()
		require.True(t, st.AbilitiesExclusive(), "step %d", i)
		require.GreaterOrEqual(t, c.Stamina().Current(), 0.0)
		require.LessOrEqual(t, c.Stamina().Current(), c.Stamina().Max())
		require.GreaterOrEqual(t, st.ChargeFraction, 0.0)
		require.LessOrEqual(t, st.ChargeFraction, 1.0)
	}
}
