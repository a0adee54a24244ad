package system

import (
	"math"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

const (
	// sweepEpsilon absorbs float error when boxes rest exactly on an edge
	sweepEpsilon = 1e-6
	pushOutStep  = 1.0 / 16
	maxPushOut   = 0.5
)

// PhysicsSystem is the tile backend: one character box swept per axis
// against solid tiles and enabled colliders.
type PhysicsSystem struct {
	physics   *config.PhysicsSettings
	character *config.CharacterConfig
	stage     *entity.Stage
	colliders []*entity.Collider

	pos          entity.Vec2
	vel          entity.Vec2
	gravityScale float64
	contacts     []entity.Contact

	// Collision flags of the last Step
	OnGround    bool
	OnCeiling   bool
	OnWallLeft  bool
	OnWallRight bool
}

type obstacle struct {
	box      entity.AABB
	collider *entity.Collider // nil for tiles
}

// NewPhysicsSystem creates a world with the character at the stage spawn
func NewPhysicsSystem(cfg *config.TuningConfig, stage *entity.Stage) *PhysicsSystem {
	return &PhysicsSystem{
		physics:      &cfg.Physics,
		character:    &cfg.Character,
		stage:        stage,
		pos:          stage.Spawn,
		gravityScale: 1,
	}
}

// SetTuning swaps physics settings in place
func (s *PhysicsSystem) SetTuning(cfg *config.TuningConfig) {
	s.physics = &cfg.Physics
	s.character = &cfg.Character
}

func (s *PhysicsSystem) Position() entity.Vec2     { return s.pos }
func (s *PhysicsSystem) SetPosition(p entity.Vec2) { s.pos = p }
func (s *PhysicsSystem) Velocity() entity.Vec2     { return s.vel }
func (s *PhysicsSystem) SetVelocity(v entity.Vec2) { s.vel = v }
func (s *PhysicsSystem) GravityScale() float64     { return s.gravityScale }
func (s *PhysicsSystem) SetGravityScale(g float64) { s.gravityScale = g }

// ApplyImpulse changes velocity by j / mass
func (s *PhysicsSystem) ApplyImpulse(j entity.Vec2) {
	mass := s.character.Mass
	if mass <= 0 {
		mass = 1
	}
	s.vel = s.vel.Add(j.Scale(1 / mass))
}

// AddCollider registers a level collider
func (s *PhysicsSystem) AddCollider(c *entity.Collider) {
	s.colliders = append(s.colliders, c)
}

// Colliders returns every registered collider, including disabled ones
func (s *PhysicsSystem) Colliders() []*entity.Collider { return s.colliders }

// Contacts returns collider contacts recorded by the last Step
func (s *PhysicsSystem) Contacts() []entity.Contact { return s.contacts }

// Bounds returns the character box
func (s *PhysicsSystem) Bounds() entity.AABB {
	return entity.NewAABB(s.pos, s.character.Width, s.character.Height)
}

// OverlapCircle checks tiles and enabled colliders on mask
func (s *PhysicsSystem) OverlapCircle(center entity.Vec2, radius float64, mask entity.LayerMask) bool {
	if s.stage.OverlapsCircle(center, radius, mask) {
		return true
	}
	for _, c := range s.colliders {
		if !c.Disabled && c.Layer.Has(mask) && c.Box.IntersectsCircle(center, radius) {
			return true
		}
	}
	return false
}

// Step integrates gravity and moves the character with substeps
func (s *PhysicsSystem) Step(dt float64) {
	s.contacts = s.contacts[:0]
	s.OnGround = false
	s.OnCeiling = false
	s.OnWallLeft = false
	s.OnWallRight = false

	// First, resolve any existing overlaps (push-out)
	s.resolveOverlap()

	n := s.physics.Substeps
	if n < 1 {
		n = 1
	}
	h := dt / float64(n)
	for i := 0; i < n; i++ {
		s.applyGravity(h)
		s.moveX(s.vel.X * h)
		s.moveY(s.vel.Y * h)
	}

	s.resolveOverlap()
}

func (s *PhysicsSystem) applyGravity(dt float64) {
	s.vel.Y -= s.physics.Gravity * s.gravityScale * dt
	if s.physics.MaxFallSpeed > 0 && s.vel.Y < -s.physics.MaxFallSpeed {
		s.vel.Y = -s.physics.MaxFallSpeed
	}
}

// moveX moves the character horizontally up to the first obstacle
func (s *PhysicsSystem) moveX(dx float64) {
	if dx == 0 {
		return
	}
	box := s.Bounds()
	region := box
	if dx > 0 {
		region.Max.X += dx
	} else {
		region.Min.X += dx
	}

	limit := dx
	obs := s.obstacles(region)
	gaps := make([]float64, len(obs))
	for i, o := range obs {
		gaps[i] = math.NaN()
		if !overlapSpan(box.Min.Y, box.Max.Y, o.box.Min.Y, o.box.Max.Y) {
			continue
		}
		if dx > 0 && o.box.Min.X >= box.Max.X-sweepEpsilon {
			gaps[i] = math.Max(0, o.box.Min.X-box.Max.X)
			limit = math.Min(limit, gaps[i])
		} else if dx < 0 && o.box.Max.X <= box.Min.X+sweepEpsilon {
			gaps[i] = math.Min(0, o.box.Max.X-box.Min.X)
			limit = math.Max(limit, gaps[i])
		}
	}

	s.pos.X += limit
	if limit == dx {
		return
	}

	// Hit wall
	normal := entity.Vec2{X: -entity.Sign(dx)}
	s.recordContacts(obs, gaps, limit, normal)
	s.vel.X = 0
	if dx > 0 {
		s.OnWallRight = true
	} else {
		s.OnWallLeft = true
	}
}

// moveY moves the character vertically up to the first obstacle
func (s *PhysicsSystem) moveY(dy float64) {
	if dy == 0 {
		return
	}
	box := s.Bounds()
	region := box
	if dy > 0 {
		region.Max.Y += dy
	} else {
		region.Min.Y += dy
	}

	limit := dy
	obs := s.obstacles(region)
	gaps := make([]float64, len(obs))
	for i, o := range obs {
		gaps[i] = math.NaN()
		if !overlapSpan(box.Min.X, box.Max.X, o.box.Min.X, o.box.Max.X) {
			continue
		}
		if dy > 0 && o.box.Min.Y >= box.Max.Y-sweepEpsilon {
			gaps[i] = math.Max(0, o.box.Min.Y-box.Max.Y)
			limit = math.Min(limit, gaps[i])
		} else if dy < 0 && o.box.Max.Y <= box.Min.Y+sweepEpsilon {
			gaps[i] = math.Min(0, o.box.Max.Y-box.Min.Y)
			limit = math.Max(limit, gaps[i])
		}
	}

	s.pos.Y += limit
	if limit == dy {
		return
	}

	normal := entity.Vec2{Y: -entity.Sign(dy)}
	s.recordContacts(obs, gaps, limit, normal)
	s.vel.Y = 0
	if dy < 0 {
		// Hit ground
		s.OnGround = true
	} else {
		s.OnCeiling = true
	}
}

// recordContacts stores a contact for every collider at the blocking
// distance. Velocity is sampled before the blocked axis is zeroed.
func (s *PhysicsSystem) recordContacts(obs []obstacle, gaps []float64, limit float64, normal entity.Vec2) {
	for i, o := range obs {
		if o.collider == nil || math.IsNaN(gaps[i]) || math.Abs(gaps[i]-limit) > sweepEpsilon {
			continue
		}
		s.contacts = append(s.contacts, entity.Contact{
			Collider:         o.collider,
			Normal:           normal,
			RelativeVelocity: s.vel.Sub(o.collider.Velocity),
		})
	}
}

// obstacles collects solid tiles and enabled colliders touching region
func (s *PhysicsSystem) obstacles(region entity.AABB) []obstacle {
	var out []obstacle
	for _, b := range s.stage.TileBoxes(region, entity.LayerSolid) {
		out = append(out, obstacle{box: b})
	}
	for _, c := range s.colliders {
		if c.Disabled || !c.Layer.Has(entity.LayerSolid) {
			continue
		}
		if touches(c.Box, region) {
			out = append(out, obstacle{box: c.Box, collider: c})
		}
	}
	return out
}

// isSolidBox callers pass an already shrunk box
func (s *PhysicsSystem) isSolidBox(b entity.AABB) bool {
	if s.stage.OverlapsBox(b, entity.LayerSolid) {
		return true
	}
	for _, c := range s.colliders {
		if !c.Disabled && c.Layer.Has(entity.LayerSolid) && c.Box.Overlaps(b) {
			return true
		}
	}
	return false
}

// resolveOverlap pushes the character out of solids it is overlapping.
// Returns false when no push-out was found and the character was reset
// to the stage spawn.
func (s *PhysicsSystem) resolveOverlap() bool {
	box := s.Bounds()
	if !s.isSolidBox(shrink(box)) {
		return true
	}

	type pushOption struct {
		d        entity.Vec2
		distance float64
	}
	var options []pushOption
	dirs := []entity.Vec2{{X: -1}, {X: 1}, {Y: 1}, {Y: -1}}
	for _, dir := range dirs {
		for i := pushOutStep; i <= maxPushOut+sweepEpsilon; i += pushOutStep {
			d := dir.Scale(i)
			if !s.isSolidBox(shrink(box.Translate(d))) {
				options = append(options, pushOption{d, i})
				break
			}
		}
	}

	if len(options) == 0 {
		// Can't resolve - reset to spawn
		s.pos = s.stage.Spawn
		s.vel = entity.Vec2{}
		return false
	}

	best := options[0]
	for _, opt := range options[1:] {
		if opt.distance < best.distance {
			best = opt
		}
	}
	s.pos = s.pos.Add(best.d)

	switch {
	case best.d.X > 0:
		s.OnWallLeft = true
		s.vel.X = 0
	case best.d.X < 0:
		s.OnWallRight = true
		s.vel.X = 0
	case best.d.Y > 0:
		s.OnGround = true
		s.vel.Y = math.Max(0, s.vel.Y)
	case best.d.Y < 0:
		s.OnCeiling = true
		s.vel.Y = math.Min(0, s.vel.Y)
	}
	return true
}

// shrink insets a box so boxes resting on an edge do not count as overlap
func shrink(b entity.AABB) entity.AABB {
	return entity.AABB{
		Min: entity.Vec2{X: b.Min.X + sweepEpsilon, Y: b.Min.Y + sweepEpsilon},
		Max: entity.Vec2{X: b.Max.X - sweepEpsilon, Y: b.Max.Y - sweepEpsilon},
	}
}

// overlapSpan reports whether [a0, a1] and [b0, b1] share more than an edge
func overlapSpan(a0, a1, b0, b1 float64) bool {
	return a0 < b1-sweepEpsilon && a1 > b0+sweepEpsilon
}

func touches(a, b entity.AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}
