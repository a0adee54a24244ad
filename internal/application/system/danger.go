package system

import (
	"math"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// heartbeatStep is the intensity change that re-sends a heartbeat cue
const heartbeatStep = 0.05

// DangerSensor measures how close the character is to the nearest hazard
// and drives the heartbeat warning cue.
type DangerSensor struct {
	config    *config.WarningConfig
	presenter Presenter

	danger  float64
	active  bool
	beating bool
	sent    float64
}

// NewDangerSensor creates an idle sensor
func NewDangerSensor(cfg *config.WarningConfig, presenter Presenter) *DangerSensor {
	if presenter == nil {
		presenter = PresenterFunc(func(entity.Cue) {})
	}
	return &DangerSensor{config: cfg, presenter: presenter}
}

// SetConfig swaps the warning tuning
func (d *DangerSensor) SetConfig(cfg *config.WarningConfig) { d.config = cfg }

// Danger maps a hazard distance onto [0, 1]. It is 1 inside the minimum
// distance and 0 at or beyond the maximum range.
func (d *DangerSensor) Danger(dist float64) float64 {
	span := d.config.MaxRange - d.config.MinDistance
	if span <= 0 {
		if dist <= d.config.MinDistance {
			return 1
		}
		return 0
	}
	return math.Sqrt(entity.Clamp01((d.config.MaxRange - dist) / span))
}

// Update re-evaluates danger from pos against every hazard position
func (d *DangerSensor) Update(pos entity.Vec2, hazards []entity.Vec2) {
	nearest := math.Inf(1)
	for _, h := range hazards {
		nearest = math.Min(nearest, pos.Dist(h))
	}

	d.active = nearest <= d.config.MaxRange
	if d.active {
		d.danger = d.Danger(nearest)
	} else {
		d.danger = 0
	}

	if d.danger >= d.config.AudioThreshold && d.danger > 0 {
		if !d.beating || math.Abs(d.danger-d.sent) >= heartbeatStep {
			d.beating = true
			d.sent = d.danger
			d.presenter.Play(entity.Cue{Kind: entity.CueHeartbeat, Strength: d.danger, At: pos})
		}
		return
	}
	d.stop(pos)
}

func (d *DangerSensor) stop(at entity.Vec2) {
	if !d.beating {
		return
	}
	d.beating = false
	d.sent = 0
	d.presenter.Play(entity.Cue{Kind: entity.CueHeartbeatStop, At: at})
}

// Reset clears the warning, stopping any heartbeat
func (d *DangerSensor) Reset() {
	d.danger = 0
	d.active = false
	d.stop(entity.Vec2{})
}

// Level returns the current danger in [0, 1]
func (d *DangerSensor) Level() float64 { return d.danger }

// Active reports whether any hazard is within range
func (d *DangerSensor) Active() bool { return d.active }

// Beating reports whether the heartbeat cue is running
func (d *DangerSensor) Beating() bool { return d.beating }
