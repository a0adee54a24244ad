package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/younwookim/parallelrun/internal/domain/entity"
)

// WaveType selects an oscillator shape
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// sweep is an oscillator whose frequency glides linearly from start to end
type sweep struct {
	start, end float64
	phase      float64
	duration   int
	position   int
	wave       WaveType
	rate       beep.SampleRate
}

// NewSweep creates a tone gliding from start to end Hz over duration
func NewSweep(start, end float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &sweep{
		start:    start,
		end:      end,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

// NewTone creates a fixed-frequency tone
func NewTone(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.duration {
			return i, i > 0
		}

		val := waveValue(s.wave, s.phase)
		samples[i][0] = val
		samples[i][1] = val

		t := float64(s.position) / float64(s.duration)
		freq := s.start + (s.end-s.start)*t
		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

func waveValue(wave WaveType, phase float64) float64 {
	switch wave {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	case WaveNoise:
		return rand.Float64()*2 - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// envelope fades a stream in over attack and out over release
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with a linear attack and release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if releaseStart := e.total - e.release; e.release > 0 && e.position >= releaseStart {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; math.Log2(0) is -Inf so 0 means silent
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func shaped(s beep.Streamer, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(s, d, 5*time.Millisecond, d/2, rate)
}

// CueSound returns the one-shot sound for cue, or nil for cues without one.
// Heartbeat cues drive the looping heartbeat instead.
func CueSound(cue entity.Cue, rate beep.SampleRate) beep.Streamer {
	switch cue.Kind {
	case entity.CueJump:
		// charged jumps start higher
		base := 330 + 220*entity.Clamp01(cue.Strength)
		d := 90 * time.Millisecond
		return newVolume(shaped(NewSweep(base, base*2, d, WaveSquare, rate), d, rate), 0.25)
	case entity.CueChargeStart:
		d := 60 * time.Millisecond
		return newVolume(shaped(NewTone(220, d, WaveSquare, rate), d, rate), 0.2)
	case entity.CueDash:
		d := 120 * time.Millisecond
		return newVolume(shaped(NewTone(0, d, WaveNoise, rate), d, rate), 0.3)
	case entity.CueLand:
		d := time.Duration(40+100*entity.Clamp01(cue.Strength)) * time.Millisecond
		sine, err := generators.SineTone(rate, 110)
		if err != nil {
			return nil
		}
		return newVolume(shaped(beep.Take(rate.N(d), sine), d, rate), 0.4)
	case entity.CueDeath:
		d := 400 * time.Millisecond
		return newVolume(shaped(NewSweep(440, 110, d, WaveSaw, rate), d, rate), 0.35)
	case entity.CueRespawn:
		d := 250 * time.Millisecond
		return newVolume(shaped(NewSweep(220, 880, d, WaveSine, rate), d, rate), 0.3)
	case entity.CueLevelComplete:
		return newVolume(notes(rate, 120*time.Millisecond, 523.25, 659.25, 783.99, 1046.5), 0.3)
	case entity.CueCheckpoint:
		return newVolume(notes(rate, 90*time.Millisecond, 659.25, 987.77), 0.25)
	case entity.CueWallBreak:
		d := 200 * time.Millisecond
		return newVolume(shaped(NewTone(0, d, WaveNoise, rate), d, rate), 0.45)
	case entity.CueStalkerDefeated:
		d := 150 * time.Millisecond
		return newVolume(shaped(NewSweep(880, 440, d, WaveSquare, rate), d, rate), 0.25)
	default:
		return nil
	}
}

func notes(rate beep.SampleRate, each time.Duration, freqs ...float64) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		parts = append(parts, shaped(NewTone(f, each, WaveSine, rate), each, rate))
	}
	return beep.Seq(parts...)
}

// heartbeat is an endless lub-dub pulse. Intensity in [0, 1] shortens the
// period and raises the pitch; it is read on the audio goroutine, so
// writers hold the speaker lock.
type heartbeat struct {
	rate      beep.SampleRate
	intensity float64
	position  int
	phase     float64
}

const (
	heartbeatSlowPeriod = 1.1 // seconds at intensity 0
	heartbeatFastPeriod = 0.45
	heartbeatBeat       = 0.09 // length of one thump
)

func newHeartbeat(rate beep.SampleRate) *heartbeat {
	return &heartbeat{rate: rate}
}

func (h *heartbeat) period() float64 {
	return entity.Lerp(heartbeatSlowPeriod, heartbeatFastPeriod, entity.Clamp01(h.intensity))
}

func (h *heartbeat) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		periodN := h.rate.N(time.Duration(h.period() * float64(time.Second)))
		if periodN <= 0 {
			periodN = 1
		}
		beatN := h.rate.N(time.Duration(heartbeatBeat * float64(time.Second)))
		pos := h.position % periodN

		// second thump follows the first after 1.5 beats
		var local int
		var thump bool
		switch {
		case pos < beatN:
			local, thump = pos, true
		case pos >= beatN*3/2 && pos < beatN*5/2:
			local, thump = pos-beatN*3/2, true
		}

		val := 0.0
		if thump {
			freq := 50 + 30*h.intensity
			env := 1 - float64(local)/float64(beatN)
			val = math.Sin(2*math.Pi*h.phase) * env
			h.phase += freq / float64(h.rate)
			h.phase -= math.Floor(h.phase)
		}
		samples[i][0] = val
		samples[i][1] = val
		h.position++
	}
	return len(samples), true
}

func (h *heartbeat) Err() error { return nil }
