package playing

import (
	"math"

	"github.com/younwookim/parallelrun/internal/domain/entity"
)

const (
	deathShake    = 6.0 // pixels
	impactShake   = 3.0
	shakeDecay    = 24.0 // pixels per second
	squashRecover = 5.0  // per second
	flashDuration = 0.3  // seconds
	squashAmount  = 0.35
)

// feedback holds the short-lived screen effects triggered by cues
type feedback struct {
	shake  float64
	squash float64
	flash  float64
}

func (f *feedback) play(cue entity.Cue) {
	switch cue.Kind {
	case entity.CueDeath:
		f.shake = math.Max(f.shake, deathShake)
	case entity.CueWallBreak, entity.CueStalkerDefeated:
		f.shake = math.Max(f.shake, impactShake)
	case entity.CueLand:
		f.squash = math.Max(f.squash, entity.Clamp01(cue.Strength))
	case entity.CueCheckpoint, entity.CueLevelComplete:
		f.flash = flashDuration
	case entity.CueRespawn:
		f.squash = 0
	}
}

func (f *feedback) update(dt float64) {
	f.shake = entity.MoveTowards(f.shake, 0, shakeDecay*dt)
	f.squash = entity.MoveTowards(f.squash, 0, squashRecover*dt)
	f.flash = entity.MoveTowards(f.flash, 0, dt)
}

// scale returns the character's drawn width and height factors
func (f *feedback) scale() (sx, sy float64) {
	s := f.squash * squashAmount
	return 1 + s, 1 - s
}
