package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

func createTestJumpSystem() *JumpSystem {
	cfg := config.DefaultTuning()
	return NewJumpSystem(&cfg.Jump, &cfg.Charge)
}

func TestJumpSystem_ChargeFraction(t *testing.T) {
	s := createTestJumpSystem()

	tests := []struct {
		hold float64
		want float64
	}{
		{0.1, 0},
		{0.3, 0},
		{0.65, 0.5},
		{1, 1},
		{2, 1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, s.ChargeFraction(tt.hold), 1e-9, "hold %v", tt.hold)
	}
}

func TestJumpSystem_ChargeFractionDegenerateSpan(t *testing.T) {
	cfg := config.DefaultTuning()
	cfg.Charge.MaxTime = cfg.Charge.MinTime
	s := NewJumpSystem(&cfg.Jump, &cfg.Charge)

	assert.Equal(t, 0.0, s.ChargeFraction(0.2))
	assert.Equal(t, 1.0, s.ChargeFraction(0.3))
}

func TestJumpSystem_ReleaseForce(t *testing.T) {
	s := createTestJumpSystem()

	assert.Equal(t, 14.0, s.ReleaseForce(0.2), "below minimum is a plain jump")
	assert.InDelta(t, 14.0, s.ReleaseForce(0.3), 1e-9)
	assert.InDelta(t, 17.0, s.ReleaseForce(0.65), 1e-9)
	assert.InDelta(t, 20.0, s.ReleaseForce(1.5), 1e-9)
}

func TestJumpSystem_Windows(t *testing.T) {
	s := createTestJumpSystem()
	timers := entity.NewAbilityTimers()

	assert.False(t, s.CanCoyote(1, &timers))
	assert.False(t, s.Buffered(1, &timers))

	timers.LastGrounded = 1
	timers.LastJumpPressed = 1
	assert.True(t, s.CanCoyote(1.1, &timers))
	assert.True(t, s.Buffered(1.1, &timers))
	assert.False(t, s.CanCoyote(1.2, &timers))
	assert.False(t, s.Buffered(1.2, &timers))
}

func TestJumpSystem_CutGravityScale(t *testing.T) {
	s := createTestJumpSystem()
	assert.InDelta(t, 2.0, s.CutGravityScale(1), 1e-9)

	cfg := config.DefaultTuning()
	cfg.Jump.CutGravityMultiplier = 0
	s = NewJumpSystem(&cfg.Jump, &cfg.Charge)
	assert.InDelta(t, 100.0, s.CutGravityScale(1), 1e-9)
}
