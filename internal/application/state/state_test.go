package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameState_String(t *testing.T) {
	tests := []struct {
		state    GameState
		expected string
	}{
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{StateRespawning, "Respawning"},
		{StateLevelComplete, "LevelComplete"},
		{StateAdvancing, "Advancing"},
		{GameState(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestGameStateConstants(t *testing.T) {
	// Verify the iota ordering
	assert.Equal(t, GameState(0), StatePlaying)
	assert.Equal(t, GameState(1), StatePaused)
	assert.Equal(t, GameState(2), StateRespawning)
	assert.Equal(t, GameState(3), StateLevelComplete)
	assert.Equal(t, GameState(4), StateAdvancing)
}
