package state

import (
	"log"

	"github.com/younwookim/parallelrun/internal/application/event"
	"github.com/younwookim/parallelrun/internal/application/schedule"
	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// Respawnable is the character the respawn flow teleports and resets.
// The orchestrator only holds it while a respawn is in flight.
type Respawnable interface {
	Position() entity.Vec2
	Respawn(at entity.Vec2)
}

// Presentation hides and restores the character and plays flow cues
type Presentation interface {
	SetVisible(visible bool)
	Play(cue entity.Cue)
}

// SceneLoader switches to another level by name
type SceneLoader interface {
	LoadScene(name string)
}

// DeathEvent is broadcast once per death
type DeathEvent struct {
	At    entity.Vec2
	Cause string
}

type nopPresentation struct{}

func (nopPresentation) SetVisible(bool) {}
func (nopPresentation) Play(entity.Cue) {}

type nopLoader struct{}

func (nopLoader) LoadScene(string) {}

// Orchestrator runs the death/respawn and level-complete flows for one
// level session and broadcasts their events.
type Orchestrator struct {
	config       *config.FlowConfig
	presentation Presentation
	loader       SceneLoader

	level        string
	next         string
	defaultSpawn entity.Vec2
	respawnPoint *entity.Vec2

	state     GameState
	resume    GameState
	alive     bool
	completed bool

	pending Respawnable
	respawn schedule.Delay
	advance schedule.Delay

	OnPlayerDeath        *event.Channel[DeathEvent]
	OnPlayerRespawn      *event.Channel[entity.Vec2]
	OnLevelStatusChanged *event.Channel[bool]
	OnLevelCompleted     *event.Channel[string]
}

// NewOrchestrator creates the orchestrator for level. defaultSpawn is
// used until a checkpoint sets a respawn point.
func NewOrchestrator(cfg *config.FlowConfig, level string, defaultSpawn entity.Vec2, presentation Presentation, loader SceneLoader) *Orchestrator {
	if presentation == nil {
		presentation = nopPresentation{}
	}
	if loader == nil {
		loader = nopLoader{}
	}
	return &Orchestrator{
		config:               cfg,
		presentation:         presentation,
		loader:               loader,
		level:                level,
		defaultSpawn:         defaultSpawn,
		state:                StatePlaying,
		alive:                true,
		OnPlayerDeath:        event.NewChannel[DeathEvent]("player_death"),
		OnPlayerRespawn:      event.NewChannel[entity.Vec2]("player_respawn"),
		OnLevelStatusChanged: event.NewChannel[bool]("level_status_changed"),
		OnLevelCompleted:     event.NewChannel[string]("level_completed"),
	}
}

// SetConfig swaps the flow delays. Waits already running keep their length.
func (o *Orchestrator) SetConfig(cfg *config.FlowConfig) { o.config = cfg }

// SetRespawnPoint records the position used by the next respawn
func (o *Orchestrator) SetRespawnPoint(p entity.Vec2) {
	o.respawnPoint = &p
	log.Printf("Orchestrator: respawn point set to (%.2f, %.2f)", p.X, p.Y)
}

// RespawnPoint returns the most recent respawn point, or the default spawn
func (o *Orchestrator) RespawnPoint() entity.Vec2 {
	if o.respawnPoint == nil {
		return o.defaultSpawn
	}
	return *o.respawnPoint
}

// PlayerDied starts the respawn flow for r
func (o *Orchestrator) PlayerDied(r Respawnable) {
	o.PlayerKilled(r, "hazard")
}

// PlayerKilled starts the respawn flow with a cause for the death event.
// A death while a respawn is pending restarts the wait; the death event
// fires only once. Deaths after level completion are ignored.
func (o *Orchestrator) PlayerKilled(r Respawnable, cause string) {
	if o.completed || r == nil {
		return
	}

	o.pending = r
	o.presentation.SetVisible(false)
	if o.alive {
		o.alive = false
		at := r.Position()
		o.presentation.Play(entity.Cue{Kind: entity.CueDeath, At: at})
		o.OnPlayerDeath.Emit(DeathEvent{At: at, Cause: cause})
	}

	o.respawn.Start(o.config.RespawnDelay, o.completeRespawn)
	o.setState(StateRespawning)
}

func (o *Orchestrator) completeRespawn() {
	r := o.pending
	o.pending = nil
	if r == nil {
		return
	}

	at := o.RespawnPoint()
	r.Respawn(at)
	o.alive = true
	o.presentation.SetVisible(true)
	o.presentation.Play(entity.Cue{Kind: entity.CueRespawn, At: at})
	o.setState(StatePlaying)
	o.OnPlayerRespawn.Emit(at)
}

// LevelComplete freezes the level and announces completion. next is the
// level AdvanceLevel loads.
func (o *Orchestrator) LevelComplete(next string) {
	if o.completed {
		return
	}
	o.completed = true
	o.next = next
	o.setState(StateLevelComplete)
	log.Printf("Orchestrator: level %s complete, next %q", o.level, next)

	o.presentation.Play(entity.Cue{Kind: entity.CueLevelComplete})
	o.OnLevelStatusChanged.Emit(true)
	o.OnLevelCompleted.Emit(o.level)
}

// AdvanceLevel schedules the transition to the next level. It reports
// false when the level is not complete, an advance is already pending,
// or there is no next level.
func (o *Orchestrator) AdvanceLevel() bool {
	if !o.completed || o.advance.Active() {
		return false
	}
	if o.next == "" {
		log.Printf("Orchestrator: level %s has no next level", o.level)
		return false
	}

	next := o.next
	o.setState(StateAdvancing)
	o.advance.Start(o.config.AdvanceDelay, func() {
		log.Printf("Orchestrator: loading level %s", next)
		o.loader.LoadScene(next)
	})
	return true
}

// RestartLevel cancels pending flows and reloads the current level
func (o *Orchestrator) RestartLevel() {
	o.respawn.Cancel()
	o.advance.Cancel()
	o.pending = nil
	log.Printf("Orchestrator: restarting level %s", o.level)
	o.loader.LoadScene(o.level)
}

// Pause freezes the respawn flow. The advance flow keeps running.
func (o *Orchestrator) Pause() {
	if o.state == StatePaused {
		return
	}
	o.resume = o.state
	o.state = StatePaused
}

// Resume returns to the phase active before Pause
func (o *Orchestrator) Resume() {
	if o.state != StatePaused {
		return
	}
	o.state = o.resume
}

// Paused reports whether the session is paused
func (o *Orchestrator) Paused() bool { return o.state == StatePaused }

// Update advances the pending waits
func (o *Orchestrator) Update(dt float64) {
	if o.state != StatePaused {
		o.respawn.Advance(dt)
	}
	o.advance.Advance(dt)
}

// setState changes phase, deferring the change until Resume while paused
func (o *Orchestrator) setState(s GameState) {
	if o.state == StatePaused {
		o.resume = s
		return
	}
	o.state = s
}

// Close cancels pending flows and drops every subscriber
func (o *Orchestrator) Close() {
	o.respawn.Cancel()
	o.advance.Cancel()
	o.pending = nil
	o.OnPlayerDeath.Clear()
	o.OnPlayerRespawn.Clear()
	o.OnLevelStatusChanged.Clear()
	o.OnLevelCompleted.Clear()
}

// IsPlayerAlive reports false between a death and its respawn
func (o *Orchestrator) IsPlayerAlive() bool { return o.alive }

// State returns the current phase
func (o *Orchestrator) State() GameState { return o.state }

// Level returns the current level name
func (o *Orchestrator) Level() string { return o.level }

// Next returns the level chosen by LevelComplete
func (o *Orchestrator) Next() string { return o.next }

// Completed reports whether the level has been completed
func (o *Orchestrator) Completed() bool { return o.completed }

// RespawnPending reports whether a respawn wait is running
func (o *Orchestrator) RespawnPending() bool { return o.respawn.Active() }
