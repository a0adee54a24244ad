package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

func createTestLocomotion() *LocomotionSystem {
	return NewLocomotionSystem(&config.DefaultTuning().Movement)
}

func TestLocomotionSystem_Rate(t *testing.T) {
	s := createTestLocomotion()

	tests := []struct {
		name     string
		target   float64
		grounded bool
		charging bool
		want     float64
	}{
		{"accelerating on ground", 10, true, false, 60},
		{"accelerating in air", -10, false, false, 42},
		{"stopping on ground", 0, true, false, 105},
		{"stopping in air", 0, false, false, 73.5},
		{"target inside deadzone stops", 0.005, true, false, 105},
		{"accelerating while charging", 10, true, true, 42},
		{"stopping while charging", 0, true, true, 73.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Rate(tt.target, tt.grounded, tt.charging), 1e-9)
		})
	}
}

func TestLocomotionSystem_Step(t *testing.T) {
	s := createTestLocomotion()

	tests := []struct {
		name string
		vx   float64
		axis float64
		want float64
	}{
		{"accelerates from rest", 0, 1, 6},
		{"caps at max speed", 9, 1, 10},
		{"half stick targets half speed", 0, 0.5, 5},
		{"decelerates to a stop", 5, 0, 0},
		{"reverses gradually", 10, -1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.Step(tt.vx, tt.axis, true, false, 0.1), 1e-9)
		})
	}
}
