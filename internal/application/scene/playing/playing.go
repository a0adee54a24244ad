// Package playing provides the gameplay scene: one level driven by a
// session, with keyboard input, recording and debug rendering.
package playing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/parallelrun/internal/application/progress"
	"github.com/younwookim/parallelrun/internal/application/scene"
	"github.com/younwookim/parallelrun/internal/application/session"
	"github.com/younwookim/parallelrun/internal/application/system"
	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// ErrNoConfigs is returned by New without a config loader
var ErrNoConfigs = errors.New("playing: config loader is required")

// Options are shared by every level the scene chain loads
type Options struct {
	Configs  *config.Loader
	Tuning   *config.TuningConfig
	Entities *config.EntitiesConfig

	// NewWorld and Backend select the physics backend
	NewWorld session.WorldFactory
	Backend  string

	// Presenter receives cues after the scene's own feedback, e.g. audio
	Presenter system.Presenter
	// Stats stores run events; nil disables tracking
	Stats progress.Recorder

	// Record enables input recording. RecordPath names the file; when
	// empty a name is generated per level.
	Record     bool
	RecordPath string

	// TuningUpdates delivers reloaded tuning from a config watcher
	TuningUpdates <-chan *config.TuningConfig

	// Keys defaults to the live keyboard
	Keys Keys
	// FrameDt is the rendered frame length, 1/60 by default
	FrameDt float64
}

// Playing is the gameplay scene for one level
type Playing struct {
	opts     Options
	stageCfg *config.StageConfig
	session  *session.Session
	tracker  *progress.Tracker
	recorder *Recorder
	keys     Keys

	recordPath string

	// scene requested by the orchestrator, loaded on the next Update
	requested    string
	hasRequested bool
	exited       bool

	feedback feedback
	deaths   int
	debug    bool
}

var _ scene.Scene = (*Playing)(nil)

// New creates the scene for stage
func New(stage string, opts Options) (*Playing, error) {
	if opts.Configs == nil {
		return nil, ErrNoConfigs
	}
	if opts.Tuning == nil {
		opts.Tuning = config.DefaultTuning()
	}
	if opts.Keys == nil {
		opts.Keys = &ebitenKeys{}
	}
	if opts.FrameDt <= 0 {
		opts.FrameDt = 1.0 / 60.0
	}

	stageCfg, err := opts.Configs.LoadStage(stage)
	if err != nil {
		return nil, fmt.Errorf("playing: %w", err)
	}

	p := &Playing{
		opts:     opts,
		stageCfg: stageCfg,
		keys:     opts.Keys,
	}

	p.session, err = session.New(session.Options{
		Tuning:    opts.Tuning,
		Entities:  opts.Entities,
		Stage:     stageCfg,
		NewWorld:  opts.NewWorld,
		Presenter: system.MultiPresenter{p, opts.Presenter},
		Loader:    p,
	})
	if err != nil {
		return nil, fmt.Errorf("playing %s: %w", stage, err)
	}

	p.tracker = progress.NewTracker(opts.Stats, stageCfg.ID)
	p.tracker.Attach(p.session.Orchestrator(), p.session.OnCheckpoint)

	if opts.Record {
		p.recorder = NewRecorder(stageCfg.ID, opts.Backend, opts.FrameDt)
		p.recordPath = opts.RecordPath
		if p.recordPath == "" {
			p.recordPath = GenerateFilename(stageCfg.ID)
		}
		log.Printf("Recording enabled: %s", p.recordPath)
	}

	return p, nil
}

// LoadScene queues a level load for the next Update
func (p *Playing) LoadScene(name string) {
	p.requested = name
	p.hasRequested = true
}

// Play turns cues into screen feedback
func (p *Playing) Play(cue entity.Cue) {
	if cue.Kind == entity.CueDeath {
		p.deaths++
	}
	p.feedback.play(cue)
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	p.applyTuningUpdates()

	if p.keys.JustPressed(keySave) && p.recorder != nil {
		p.saveRecording()
	}
	if p.keys.JustPressed(keyDebug) {
		p.debug = !p.debug
	}
	if p.keys.JustPressed(keyPause) {
		if p.session.Paused() {
			p.session.Resume()
		} else {
			p.session.Pause()
		}
	}
	if p.keys.JustPressed(keyRestart) {
		p.session.Restart()
	}
	if p.keys.JustPressed(keyAdvance) && p.session.Orchestrator().Completed() {
		p.session.AdvanceLevel()
	}

	input := ReadInput(p.keys)
	if p.recorder != nil && !p.session.Paused() {
		p.recorder.RecordFrame(input)
	}
	p.session.Step(input, dt)
	p.feedback.update(dt)

	if !p.hasRequested {
		return nil, nil // nil = stay on this scene
	}
	p.hasRequested = false
	next, err := New(p.requested, p.opts)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// applyTuningUpdates drains the watcher channel and keeps the latest
// tuning for this and later levels
func (p *Playing) applyTuningUpdates() {
	if p.opts.TuningUpdates == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-p.opts.TuningUpdates:
			if !ok {
				p.opts.TuningUpdates = nil
				return
			}
			if cfg == nil {
				continue
			}
			p.opts.Tuning = cfg
			p.session.SetTuning(cfg)
		default:
			return
		}
	}
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	log.Printf("Playing: entered %s (%s)", p.stageCfg.ID, p.stageCfg.Name)
}

// OnExit saves the recording and releases the session
func (p *Playing) OnExit() {
	if p.exited {
		return
	}
	p.exited = true

	if p.recorder != nil {
		p.saveRecording()
		p.recorder.Stop()
	}

	if p.opts.Stats != nil {
		p.logTotals()
	}

	p.tracker.Close()
	p.session.Close()
}

func (p *Playing) logTotals() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sum, err := p.tracker.Summary(ctx)
	if err != nil {
		log.Printf("Playing: stats for %s unavailable: %v", p.stageCfg.ID, err)
		return
	}
	log.Printf("Playing: %s totals: %d deaths, %d checkpoints, %d completions",
		p.stageCfg.ID, sum.Deaths, sum.Checkpoints, sum.Completions)
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	if err := p.recorder.Save(p.recordPath); err != nil {
		log.Printf("Failed to save recording: %v", err)
	} else {
		log.Printf("Recording saved: %s (%d frames)", p.recordPath, p.recorder.FrameCount())
	}
}

// Session returns the level session
func (p *Playing) Session() *session.Session { return p.session }

// Recorder returns the input recorder, nil when recording is off
func (p *Playing) Recorder() *Recorder { return p.recorder }

// Stage returns the loaded stage config
func (p *Playing) Stage() *config.StageConfig { return p.stageCfg }

// Deaths returns the deaths seen in this scene
func (p *Playing) Deaths() int { return p.deaths }

// Draw renders the game screen
func (p *Playing) Draw(screen *ebiten.Image) {
	newRenderer(p).draw(screen)
}
