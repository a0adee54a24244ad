package system

import (
	"math"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// riderTolerance is how far above a platform top a character box may
// float and still be carried
const riderTolerance = 0.05

// Death causes reported through OnDeath
const (
	CauseSpikes  = "spikes"
	CauseHazard  = "hazard"
	CauseStalker = "stalker"
)

// LevelSystem handles the character's interactions with level objects:
// trigger zones, hazard tiles, moving platforms, breakable walls and
// stalkers. It reports game-flow outcomes through callbacks.
type LevelSystem struct {
	config    *config.LevelConfig
	stage     *entity.Stage
	world     World
	presenter Presenter

	triggers  []*entity.Trigger
	platforms []*entity.MovingPlatform
	walls     []*entity.BreakableWall
	stalkers  []*entity.Stalker
	frozen    bool
	hazards   []entity.Vec2 // hazard tile centers

	// Event callbacks
	OnCheckpoint      func(spawn entity.Vec2)
	OnDeath           func(cause string)
	OnExit            func(target string)
	OnWallBreak       func(w *entity.BreakableWall)
	OnStalkerDefeated func(s *entity.Stalker)
}

// NewLevelSystem creates a level system over stage and world
func NewLevelSystem(cfg *config.LevelConfig, stage *entity.Stage, world World, presenter Presenter) *LevelSystem {
	if presenter == nil {
		presenter = PresenterFunc(func(entity.Cue) {})
	}
	return &LevelSystem{
		config:    cfg,
		stage:     stage,
		world:     world,
		presenter: presenter,
		triggers:  make([]*entity.Trigger, 0, 8),
		platforms: make([]*entity.MovingPlatform, 0, 8),
		walls:     make([]*entity.BreakableWall, 0, 8),
		stalkers:  make([]*entity.Stalker, 0, 8),
		hazards:   stage.HazardCenters(),
	}
}

// AddTrigger registers a trigger zone
func (s *LevelSystem) AddTrigger(t *entity.Trigger) {
	s.triggers = append(s.triggers, t)
}

// AddPlatform registers a moving platform and its collider
func (s *LevelSystem) AddPlatform(p *entity.MovingPlatform) {
	s.platforms = append(s.platforms, p)
	s.world.AddCollider(p.Collider)
}

// AddWall registers a breakable wall and its collider. A wall without
// its own break velocity uses the level default.
func (s *LevelSystem) AddWall(w *entity.BreakableWall) {
	if w.BreakVelocity <= 0 {
		w.BreakVelocity = s.config.BreakVelocity
	}
	s.walls = append(s.walls, w)
	s.world.AddCollider(w.Collider)
}

// AddStalker registers a stalker
func (s *LevelSystem) AddStalker(st *entity.Stalker) {
	if st.KillRange <= 0 {
		st.KillRange = s.config.StalkerKillRange
	}
	s.stalkers = append(s.stalkers, st)
}

// SetFrozen stops or resumes platforms and stalkers
func (s *LevelSystem) SetFrozen(frozen bool) {
	s.frozen = frozen
	for _, p := range s.platforms {
		p.Frozen = frozen
	}
}

// Frozen reports whether level motion is stopped
func (s *LevelSystem) Frozen() bool { return s.frozen }

// PreStep moves platforms and stalkers before the physics step.
// Riders standing on a carrying platform move with it.
func (s *LevelSystem) PreStep(dt float64) {
	if s.frozen {
		return
	}

	for _, p := range s.platforms {
		riding := p.Carry && s.isRiding(p.Collider)
		p.Update(dt)
		if riding {
			delta := p.Collider.Velocity.Scale(dt)
			s.world.SetPosition(s.world.Position().Add(delta))
		}
	}

	for _, st := range s.stalkers {
		st.Update(dt)
	}
}

func (s *LevelSystem) isRiding(c *entity.Collider) bool {
	box := s.world.Bounds()
	if box.Max.X <= c.Box.Min.X || box.Min.X >= c.Box.Max.X {
		return false
	}
	return math.Abs(box.Min.Y-c.Box.Max.Y) <= riderTolerance
}

// PostStep evaluates collisions after the physics step, using the
// capability flags of the same tick.
func (s *LevelSystem) PostStep(caps Capabilities) {
	dashing := caps.IsDashing()

	for _, c := range s.world.Contacts() {
		w := s.wallFor(c.Collider)
		if w == nil || !w.ShouldBreak(dashing, c) {
			continue
		}
		w.Break()
		s.presenter.Play(entity.Cue{Kind: entity.CueWallBreak, Strength: c.Impact(), At: w.Collider.Box.Center()})
		if s.OnWallBreak != nil {
			s.OnWallBreak(w)
		}
	}

	pos := s.world.Position()
	box := s.world.Bounds()

	for _, st := range s.stalkers {
		if !st.InRange(pos) {
			continue
		}
		if !dashing {
			s.die(CauseStalker)
			return
		}
		st.Alive = false
		s.presenter.Play(entity.Cue{Kind: entity.CueStalkerDefeated, At: st.Pos})
		if s.OnStalkerDefeated != nil {
			s.OnStalkerDefeated(st)
		}
	}

	if s.stage.OverlapsBox(shrink(box), entity.LayerHazard) {
		s.die(CauseSpikes)
		return
	}

	for _, t := range s.triggers {
		if !t.Enter(box) {
			continue
		}
		switch t.Kind {
		case entity.TriggerCheckpoint:
			s.presenter.Play(entity.Cue{Kind: entity.CueCheckpoint, At: t.Spawn})
			if s.OnCheckpoint != nil {
				s.OnCheckpoint(t.Spawn)
			}
		case entity.TriggerHazard:
			s.die(CauseHazard)
			return
		case entity.TriggerExit:
			target := t.Target
			if target == "" {
				target = s.stage.Next
			}
			if s.OnExit != nil {
				s.OnExit(target)
			}
		}
	}
}

func (s *LevelSystem) die(cause string) {
	if s.OnDeath != nil {
		s.OnDeath(cause)
	}
}

func (s *LevelSystem) wallFor(c *entity.Collider) *entity.BreakableWall {
	for _, w := range s.walls {
		if w.Collider == c {
			return w
		}
	}
	return nil
}

// Respawn forgets trigger occupancy and sends living stalkers back to
// their patrol start
func (s *LevelSystem) Respawn() {
	for _, t := range s.triggers {
		t.Reset()
	}
	for _, st := range s.stalkers {
		if st.Alive {
			st.Reset()
		}
	}
}

// HazardPositions returns every position the danger sensor measures from
func (s *LevelSystem) HazardPositions() []entity.Vec2 {
	out := make([]entity.Vec2, len(s.hazards), len(s.hazards)+len(s.triggers)+len(s.stalkers))
	copy(out, s.hazards)
	for _, t := range s.triggers {
		if t.Kind == entity.TriggerHazard {
			out = append(out, t.Box.Center())
		}
	}
	for _, st := range s.stalkers {
		if st.Alive {
			out = append(out, st.Pos)
		}
	}
	return out
}

// GetTriggers returns all trigger zones
func (s *LevelSystem) GetTriggers() []*entity.Trigger { return s.triggers }

// GetPlatforms returns all moving platforms
func (s *LevelSystem) GetPlatforms() []*entity.MovingPlatform { return s.platforms }

// GetWalls returns all breakable walls
func (s *LevelSystem) GetWalls() []*entity.BreakableWall { return s.walls }

// GetStalkers returns all stalkers
func (s *LevelSystem) GetStalkers() []*entity.Stalker { return s.stalkers }
