// Package chipmunk provides a Chipmunk2D physics backend for the character
// controller. It runs in pixel units internally and exposes world units.
package chipmunk

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/younwookim/parallelrun/internal/application/system"
	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// pixelsPerUnit keeps Chipmunk's default collision slop well below a tile
const pixelsPerUnit = 16.0

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeCollider
	collisionTypeCharacter
)

// characterCategory keeps the character out of layer queries
const characterCategory uint = 1 << 16

// World is a system.World backed by a cp.Space. Solid tiles become merged
// static boxes; level colliders become kinematic boxes synced every Step.
type World struct {
	physics   *config.PhysicsSettings
	character *config.CharacterConfig
	stage     *entity.Stage

	space *cp.Space
	body  *cp.Body
	shape *cp.Shape

	gravityScale float64
	colliders    []*colliderBody
	byShape      map[*cp.Shape]*colliderBody
	contacts     []entity.Contact
}

type colliderBody struct {
	collider *entity.Collider
	body     *cp.Body
	shape    *cp.Shape
	added    bool
}

var _ system.World = (*World)(nil)

// New builds a space for stage with the character at the stage spawn
func New(cfg *config.TuningConfig, stage *entity.Stage) *World {
	w := &World{
		physics:      &cfg.Physics,
		character:    &cfg.Character,
		stage:        stage,
		gravityScale: 1,
		byShape:      make(map[*cp.Shape]*colliderBody),
	}

	w.space = cp.NewSpace()
	w.space.Iterations = 20
	w.space.SetGravity(cp.Vector{X: 0, Y: -cfg.Physics.Gravity * pixelsPerUnit})

	w.buildStaticShapes()
	w.buildCharacter()
	return w
}

// NewWorld matches the session's world factory signature
func NewWorld(cfg *config.TuningConfig, stage *entity.Stage) system.World {
	return New(cfg, stage)
}

func (w *World) buildCharacter() {
	mass := w.character.Mass
	if mass <= 0 {
		mass = 1
	}
	width := w.character.Width * pixelsPerUnit
	height := w.character.Height * pixelsPerUnit

	w.body = cp.NewBody(mass, math.Inf(1))
	w.body.SetPosition(toCP(w.stage.Spawn))
	w.body.SetVelocityUpdateFunc(w.updateVelocity)

	w.shape = cp.NewBox(w.body, width, height, 0)
	w.shape.SetFriction(0)
	w.shape.SetElasticity(0)
	w.shape.SetCollisionType(collisionTypeCharacter)
	w.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, characterCategory, cp.ALL_CATEGORIES))

	w.space.AddBody(w.body)
	w.space.AddShape(w.shape)
}

// updateVelocity applies the body's gravity scale and the fall clamp
func (w *World) updateVelocity(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
	cp.BodyUpdateVelocity(body, gravity.Mult(w.gravityScale), damping, dt)
	maxFall := w.physics.MaxFallSpeed * pixelsPerUnit
	if v := body.Velocity(); maxFall > 0 && v.Y < -maxFall {
		body.SetVelocity(v.X, -maxFall)
	}
}

// buildStaticShapes merges solid tiles into boxes and walls off the stage
// edges, since everything outside the stage is solid.
func (w *World) buildStaticShapes() {
	width, height := w.stage.Width, w.stage.Height
	processed := make([]bool, width*height)
	solid := func(x, y int) bool {
		return !processed[y*width+x] && w.stage.GetTile(x, y).Layer().Has(entity.LayerSolid)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !solid(x, y) {
				processed[y*width+x] = true
				continue
			}

			tw := 1
			for x+tw < width && solid(x+tw, y) {
				tw++
			}
			th := 1
		heightLoop:
			for y+th < height {
				for xi := x; xi < x+tw; xi++ {
					if !solid(xi, y+th) {
						break heightLoop
					}
				}
				th++
			}

			w.addStaticBox(float64(x), float64(y), float64(x+tw), float64(y+th))
			for yy := y; yy < y+th; yy++ {
				for xx := x; xx < x+tw; xx++ {
					processed[yy*width+xx] = true
				}
			}
		}
	}

	fw, fh := float64(width), float64(height)
	w.addStaticBox(-1, -1, fw+1, 0)
	w.addStaticBox(-1, fh, fw+1, fh+1)
	w.addStaticBox(-1, 0, 0, fh)
	w.addStaticBox(fw, 0, fw+1, fh)
}

func (w *World) addStaticBox(l, b, r, t float64) {
	bb := cp.BB{L: l * pixelsPerUnit, B: b * pixelsPerUnit, R: r * pixelsPerUnit, T: t * pixelsPerUnit}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(entity.LayerGround), cp.ALL_CATEGORIES))
	w.space.AddShape(shape)
}

// SetTuning swaps physics settings in place. The character's size is
// fixed when the world is built.
func (w *World) SetTuning(cfg *config.TuningConfig) {
	w.physics = &cfg.Physics
	w.space.SetGravity(cp.Vector{X: 0, Y: -cfg.Physics.Gravity * pixelsPerUnit})
	if cfg.Character.Mass > 0 && cfg.Character.Mass != w.character.Mass {
		w.body.SetMass(cfg.Character.Mass)
	}
	w.character = &cfg.Character
}

func (w *World) Position() entity.Vec2 { return fromCP(w.body.Position()) }
func (w *World) Velocity() entity.Vec2 { return fromCP(w.body.Velocity()) }

// SetPosition teleports the character. Shapes follow on the next Step.
func (w *World) SetPosition(p entity.Vec2) { w.body.SetPosition(toCP(p)) }

func (w *World) SetVelocity(v entity.Vec2) { w.body.SetVelocityVector(toCP(v)) }

func (w *World) GravityScale() float64     { return w.gravityScale }
func (w *World) SetGravityScale(g float64) { w.gravityScale = g }

// ApplyImpulse changes velocity by j divided by the character mass
func (w *World) ApplyImpulse(j entity.Vec2) {
	w.body.ApplyImpulseAtLocalPoint(toCP(j), cp.Vector{})
}

// AddCollider registers a level collider as a kinematic box
func (w *World) AddCollider(c *entity.Collider) {
	body := cp.NewKinematicBody()
	body.SetPosition(toCP(c.Box.Center()))
	shape := cp.NewBox(body, c.Box.Width()*pixelsPerUnit, c.Box.Height()*pixelsPerUnit, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypeCollider)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(c.Layer), cp.ALL_CATEGORIES))

	cb := &colliderBody{collider: c, body: body, shape: shape}
	w.space.AddBody(body)
	w.colliders = append(w.colliders, cb)
	w.byShape[shape] = cb
	w.syncCollider(cb)
}

// syncCollider moves the kinematic box to the collider and adds or
// removes its shape to follow Disabled. The space reindexes moved shapes
// when it steps.
func (w *World) syncCollider(cb *colliderBody) {
	c := cb.collider
	if c.Disabled {
		if cb.added {
			w.space.RemoveShape(cb.shape)
			cb.added = false
		}
		return
	}

	cb.body.SetPosition(toCP(c.Box.Center()))
	if !cb.added {
		w.space.AddShape(cb.shape)
		cb.added = true
	}
}

// Contacts returns collider contacts recorded by the last Step
func (w *World) Contacts() []entity.Contact { return w.contacts }

// Bounds returns the character box
func (w *World) Bounds() entity.AABB {
	return entity.NewAABB(w.Position(), w.character.Width, w.character.Height)
}

// OverlapCircle reports whether any shape on mask lies within radius of center
func (w *World) OverlapCircle(center entity.Vec2, radius float64, mask entity.LayerMask) bool {
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
	info := w.space.PointQueryNearest(toCP(center), radius*pixelsPerUnit, filter)
	return info != nil && info.Shape != nil
}

// Step syncs colliders and advances the space in substeps. A contact is
// recorded once per collider, with the velocity the character had before
// the substep that touched it.
func (w *World) Step(dt float64) {
	w.contacts = w.contacts[:0]
	for _, cb := range w.colliders {
		w.syncCollider(cb)
	}

	n := w.physics.Substeps
	if n < 1 {
		n = 1
	}
	h := dt / float64(n)
	seen := make(map[*entity.Collider]bool)
	for i := 0; i < n; i++ {
		before := w.Velocity()
		w.space.Step(h)
		w.body.EachArbiter(func(arb *cp.Arbiter) {
			_, other := arb.Shapes()
			cb, ok := w.byShape[other]
			if !ok || seen[cb.collider] {
				return
			}
			seen[cb.collider] = true
			// the arbiter normal points from the character toward the collider
			normal := arb.Normal().Neg()
			w.contacts = append(w.contacts, entity.Contact{
				Collider:         cb.collider,
				Normal:           entity.Vec2{X: normal.X, Y: normal.Y},
				RelativeVelocity: before.Sub(cb.collider.Velocity),
			})
		})
	}
}

func toCP(v entity.Vec2) cp.Vector {
	return cp.Vector{X: v.X * pixelsPerUnit, Y: v.Y * pixelsPerUnit}
}

func fromCP(v cp.Vector) entity.Vec2 {
	return entity.Vec2{X: v.X / pixelsPerUnit, Y: v.Y / pixelsPerUnit}
}
