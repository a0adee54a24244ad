// Package audio plays synthesized sounds for presentation cues.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/younwookim/parallelrun/internal/domain/entity"
)

const sampleRate = beep.SampleRate(44100)

// CuePlayer implements the presenter collaborator with beep. One-shot cues
// are mixed in as they arrive; heartbeat cues control a looping pulse.
// Until Init succeeds every call is a no-op.
type CuePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	heart       *heartbeat
	heartCtrl   *beep.Ctrl
	heartVolume *effects.Volume
	initialized bool
	volume      float64
}

// NewCuePlayer creates a player at volume in [0, 1]
func NewCuePlayer(volume float64) *CuePlayer {
	return &CuePlayer{
		mixer:  &beep.Mixer{},
		volume: entity.Clamp01(volume),
	}
}

// Init opens the speaker. Failure leaves the player silent.
func (p *CuePlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play handles one cue
func (p *CuePlayer) Play(cue entity.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	switch cue.Kind {
	case entity.CueHeartbeat:
		p.startHeartbeat(cue.Strength)
	case entity.CueHeartbeatStop, entity.CueDeath, entity.CueLevelComplete:
		p.stopHeartbeat()
	}

	s := CueSound(cue, sampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(newVolume(s, p.volume))
	speaker.Unlock()
}

func (p *CuePlayer) startHeartbeat(intensity float64) {
	speaker.Lock()
	defer speaker.Unlock()

	if p.heartCtrl == nil {
		p.heart = newHeartbeat(sampleRate)
		p.heartVolume = newVolume(p.heart, p.volume)
		p.heartCtrl = &beep.Ctrl{Streamer: p.heartVolume}
		p.mixer.Add(p.heartCtrl)
	}
	p.heart.intensity = entity.Clamp01(intensity)
	vol := p.volume * (0.3 + 0.7*p.heart.intensity)
	*p.heartVolume = *newVolume(p.heart, vol)
	p.heartCtrl.Paused = false
}

func (p *CuePlayer) stopHeartbeat() {
	if p.heartCtrl == nil {
		return
	}
	speaker.Lock()
	p.heartCtrl.Paused = true
	speaker.Unlock()
}

// Close silences everything. The speaker itself stays open.
func (p *CuePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.heartCtrl = nil
	p.initialized = false
}
