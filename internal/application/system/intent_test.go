package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntents(t *testing.T) {
	intents := []Intent{
		JumpIntent{Force: 14},
		ChargeIntent{},
		DashIntent{Direction: -1},
		LandIntent{FallSpeed: 9, Squash: 0.6, Locked: true},
	}

	var kinds []string
	for _, i := range intents {
		switch v := i.(type) {
		case JumpIntent:
			kinds = append(kinds, "jump")
			assert.Equal(t, 14.0, v.Force)
		case ChargeIntent:
			kinds = append(kinds, "charge")
		case DashIntent:
			kinds = append(kinds, "dash")
			assert.Equal(t, -1.0, v.Direction)
		case LandIntent:
			kinds = append(kinds, "land")
			assert.True(t, v.Locked)
		}
	}
	assert.Equal(t, []string{"jump", "charge", "dash", "land"}, kinds)
}
