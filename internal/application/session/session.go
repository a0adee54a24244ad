// Package session wires the character controller, physics backend, level
// collaborators and orchestrator into one fixed-step play session.
package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/younwookim/parallelrun/internal/application/event"
	"github.com/younwookim/parallelrun/internal/application/state"
	"github.com/younwookim/parallelrun/internal/application/system"
	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// ErrNoStage is returned by New when Options.Stage is missing
var ErrNoStage = errors.New("session: stage config is required")

// WorldFactory builds the physics backend for a stage
type WorldFactory func(cfg *config.TuningConfig, stage *entity.Stage) system.World

// Options configures a Session. Only Stage is required.
type Options struct {
	Tuning   *config.TuningConfig
	Entities *config.EntitiesConfig
	Stage    *config.StageConfig

	// NewWorld defaults to the tile physics backend
	NewWorld WorldFactory
	// Presenter receives every cue. It may also implement
	// SetVisible(bool) to follow the character's visibility.
	Presenter system.Presenter
	Loader    state.SceneLoader
}

type visibilitySetter interface {
	SetVisible(visible bool)
}

// Session is one level being played
type Session struct {
	tuning *config.TuningConfig
	stage  *entity.Stage

	world        system.World
	controller   *system.Controller
	level        *system.LevelSystem
	danger       *system.DangerSensor
	orchestrator *state.Orchestrator
	presenter    system.Presenter

	subs        event.Group
	visible     bool
	accumulator float64
	pending     system.InputState
	frames      int
	steps       int

	OnCheckpoint *event.Channel[entity.Vec2]
}

// New builds a session for opts.Stage
func New(opts Options) (*Session, error) {
	if opts.Stage == nil {
		return nil, ErrNoStage
	}
	tuning := opts.Tuning
	if tuning == nil {
		tuning = config.DefaultTuning()
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("session tuning: %w", err)
	}
	newWorld := opts.NewWorld
	if newWorld == nil {
		newWorld = TileWorld
	}

	s := &Session{
		tuning:       tuning,
		presenter:    opts.Presenter,
		visible:      true,
		OnCheckpoint: event.NewChannel[entity.Vec2]("checkpoint"),
	}
	if s.presenter == nil {
		s.presenter = system.PresenterFunc(func(entity.Cue) {})
	}

	s.stage = system.LoadStage(opts.Stage)
	s.world = newWorld(tuning, s.stage)
	s.controller = system.NewController(tuning, s.world, s.world, s.presenter)
	s.level = system.NewLevelSystem(&tuning.Level, s.stage, s.world, s.presenter)
	system.PopulateLevel(s.level, opts.Stage, opts.Entities, tuning)
	// platforms and walls are colliders now
	s.controller.SyncGround()
	s.danger = system.NewDangerSensor(&tuning.Warning, s.presenter)
	s.orchestrator = state.NewOrchestrator(&tuning.Flow, s.stage.Name, s.stage.Spawn, s, opts.Loader)

	s.wire()
	log.Printf("Session: level %s started at (%.2f, %.2f)", s.stage.Name, s.stage.Spawn.X, s.stage.Spawn.Y)
	return s, nil
}

// TileWorld is the default WorldFactory
func TileWorld(cfg *config.TuningConfig, stage *entity.Stage) system.World {
	return system.NewPhysicsSystem(cfg, stage)
}

func (s *Session) wire() {
	s.level.OnCheckpoint = func(spawn entity.Vec2) {
		s.orchestrator.SetRespawnPoint(spawn)
		s.OnCheckpoint.Emit(spawn)
	}
	s.level.OnDeath = func(cause string) {
		s.orchestrator.PlayerKilled(s.controller, cause)
	}
	s.level.OnExit = func(target string) {
		s.orchestrator.LevelComplete(target)
	}
	s.level.OnWallBreak = func(w *entity.BreakableWall) {
		log.Printf("Session: wall %d broken", w.Collider.ID)
	}
	s.level.OnStalkerDefeated = func(st *entity.Stalker) {
		log.Printf("Session: stalker %d defeated", st.ID)
	}

	s.subs.Add(event.Bind(s.orchestrator.OnLevelStatusChanged, s.level.SetFrozen))
	s.subs.Add(event.Bind(s.orchestrator.OnLevelStatusChanged, func(bool) {
		s.danger.Reset()
	}))
	s.subs.Add(event.Bind(s.orchestrator.OnPlayerRespawn, func(entity.Vec2) {
		s.level.Respawn()
		s.danger.Reset()
	}))
}

// Step advances the session by one rendered frame and returns the number
// of fixed steps run. Input edges reach only the first fixed step; frames
// that run no step keep their edges for the next one.
func (s *Session) Step(in system.InputState, frameDt float64) int {
	s.frames++
	ran := 0

	if s.simulating() {
		s.pending = mergeEdges(s.pending, in)
		fixed := s.tuning.Physics.FixedStep
		s.accumulator += frameDt
		for s.accumulator >= fixed && s.simulating() {
			if ran == s.tuning.Physics.MaxSteps {
				s.accumulator = 0
				break
			}
			step := in.Held()
			if ran == 0 {
				step = s.pending
				s.pending = system.InputState{}
			}
			s.fixedStep(step, fixed)
			s.accumulator -= fixed
			ran++
		}
		s.controller.FrameTick(frameDt)
	} else {
		s.pending = system.InputState{}
	}

	s.orchestrator.Update(frameDt)
	if s.simulating() && s.orchestrator.IsPlayerAlive() {
		s.danger.Update(s.world.Position(), s.level.HazardPositions())
	}

	s.steps += ran
	return ran
}

// fixedStep runs platforms, then the character, then physics, then the
// level checks against this step's capability flags
func (s *Session) fixedStep(in system.InputState, dt float64) {
	s.level.PreStep(dt)
	if !s.orchestrator.IsPlayerAlive() {
		return
	}
	s.controller.Update(in, dt)
	s.world.Step(dt)
	s.level.PostStep(s.controller)
}

func (s *Session) simulating() bool {
	return !s.orchestrator.Paused() && !s.orchestrator.Completed()
}

func mergeEdges(pending, in system.InputState) system.InputState {
	return system.InputState{
		Axis:        in.Axis,
		JumpHeld:    in.JumpHeld,
		JumpDown:    pending.JumpDown || in.JumpDown,
		JumpUp:      pending.JumpUp || in.JumpUp,
		DashPressed: pending.DashPressed || in.DashPressed,
	}
}

// Play forwards a cue to the presenter
func (s *Session) Play(cue entity.Cue) { s.presenter.Play(cue) }

// SetVisible records the character visibility and forwards it
func (s *Session) SetVisible(visible bool) {
	s.visible = visible
	if v, ok := s.presenter.(visibilitySetter); ok {
		v.SetVisible(visible)
	}
}

// Pause freezes the simulation
func (s *Session) Pause() {
	s.orchestrator.Pause()
	s.pending = system.InputState{}
}

// Resume continues after Pause
func (s *Session) Resume() { s.orchestrator.Resume() }

// Paused reports whether the session is paused
func (s *Session) Paused() bool { return s.orchestrator.Paused() }

// AdvanceLevel requests the transition to the next level
func (s *Session) AdvanceLevel() bool { return s.orchestrator.AdvanceLevel() }

// Restart reloads the current level through the scene loader
func (s *Session) Restart() { s.orchestrator.RestartLevel() }

type tunable interface {
	SetTuning(cfg *config.TuningConfig)
}

// SetTuning re-applies tuning without resetting any state
func (s *Session) SetTuning(cfg *config.TuningConfig) {
	s.tuning = cfg
	s.controller.SetTuning(cfg)
	if w, ok := s.world.(tunable); ok {
		w.SetTuning(cfg)
	}
	s.danger.SetConfig(&cfg.Warning)
	s.orchestrator.SetConfig(&cfg.Flow)
	log.Printf("Session: tuning applied to level %s", s.stage.Name)
}

// Close releases every subscription and cancels pending flows
func (s *Session) Close() {
	s.subs.Close()
	s.orchestrator.Close()
	s.OnCheckpoint.Clear()
	s.danger.Reset()
}

func (s *Session) Tuning() *config.TuningConfig      { return s.tuning }
func (s *Session) Stage() *entity.Stage              { return s.stage }
func (s *Session) World() system.World               { return s.world }
func (s *Session) Controller() *system.Controller    { return s.controller }
func (s *Session) Level() *system.LevelSystem        { return s.level }
func (s *Session) Danger() *system.DangerSensor      { return s.danger }
func (s *Session) Orchestrator() *state.Orchestrator { return s.orchestrator }
func (s *Session) Visible() bool                     { return s.visible }
func (s *Session) Frames() int                       { return s.frames }
func (s *Session) Steps() int                        { return s.steps }
