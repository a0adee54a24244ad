package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStalker(t *testing.T) {
	s := NewStalker(1, Vec2{2, 1}, Vec2{6, 1}, 2, 1)

	require.NotNil(t, s)
	assert.Equal(t, Vec2{2, 1}, s.Pos)
	assert.True(t, s.Alive)
}

func TestStalker_Patrol(t *testing.T) {
	s := NewStalker(1, Vec2{0, 0}, Vec2{2, 0}, 1, 1)

	s.Update(1)
	assert.Equal(t, Vec2{1, 0}, s.Pos)
	assert.True(t, s.FacingRight)

	s.Update(1)
	assert.Equal(t, Vec2{2, 0}, s.Pos)

	// turned around at B
	s.Update(1)
	assert.Equal(t, Vec2{1, 0}, s.Pos)
	assert.False(t, s.FacingRight)
}

func TestStalker_InRange(t *testing.T) {
	s := NewStalker(1, Vec2{0, 0}, Vec2{0, 0}, 0, 1)

	assert.True(t, s.InRange(Vec2{0.5, 0.5}))
	assert.False(t, s.InRange(Vec2{2, 0}))

	s.Alive = false
	assert.False(t, s.InRange(Vec2{0, 0}), "dead stalkers never kill")
}

func TestStalker_DeadDoesNotMove(t *testing.T) {
	s := NewStalker(1, Vec2{0, 0}, Vec2{5, 0}, 1, 1)
	s.Alive = false
	s.Update(1)
	assert.Equal(t, Vec2{0, 0}, s.Pos)

	s.Reset()
	assert.True(t, s.Alive)
}
