package entity

import "math"

// LayerMask selects collision layers for overlap queries.
type LayerMask uint32

const (
	LayerGround LayerMask = 1 << iota
	LayerPlatform
	LayerBreakable
	LayerHazard
)

// LayerSolid is every layer the character can stand on or collide with.
const LayerSolid = LayerGround | LayerPlatform | LayerBreakable

// Has reports whether any bit of o is set in m
func (m LayerMask) Has(o LayerMask) bool {
	return m&o != 0
}

// AABB is an axis-aligned box in world units.
type AABB struct {
	Min, Max Vec2
}

// NewAABB creates a box of size w x h centered at c
func NewAABB(c Vec2, w, h float64) AABB {
	return AABB{
		Min: Vec2{c.X - w/2, c.Y - h/2},
		Max: Vec2{c.X + w/2, c.Y + h/2},
	}
}

// Center returns the box center
func (b AABB) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Width returns the box width
func (b AABB) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the box height
func (b AABB) Height() float64 { return b.Max.Y - b.Min.Y }

// Translate returns the box moved by d
func (b AABB) Translate(d Vec2) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Overlaps reports whether two boxes intersect with positive area.
// Touching edges do not count as overlap.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y
}

// IntersectsCircle reports whether the circle touches the box.
func (b AABB) IntersectsCircle(c Vec2, r float64) bool {
	nx := Clamp(c.X, b.Min.X, b.Max.X)
	ny := Clamp(c.Y, b.Min.Y, b.Max.Y)
	dx := c.X - nx
	dy := c.Y - ny
	return dx*dx+dy*dy <= r*r
}

// Collider is a dynamic box owned by level geometry (moving platforms,
// breakable walls). Physics backends read Box every step.
type Collider struct {
	ID       int
	Box      AABB
	Layer    LayerMask
	Velocity Vec2 // displacement of the last update divided by dt
	Disabled bool
}

// Contact records the character touching a collider during a physics step.
type Contact struct {
	Collider *Collider
	// Normal points from the collider toward the character.
	Normal Vec2
	// RelativeVelocity is the character velocity minus the collider
	// velocity, sampled before the contact was resolved.
	RelativeVelocity Vec2
}

// Impact returns the larger absolute axis of the relative velocity.
func (c Contact) Impact() float64 {
	return math.Max(math.Abs(c.RelativeVelocity.X), math.Abs(c.RelativeVelocity.Y))
}
