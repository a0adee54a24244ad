package system

import "github.com/younwookim/parallelrun/internal/domain/entity"

// Body is the physics body the character controller drives.
// The vertical component is integrated by the physics backend; the
// controller only sets velocities, impulses and the gravity scale.
type Body interface {
	Position() entity.Vec2
	SetPosition(p entity.Vec2)
	Velocity() entity.Vec2
	SetVelocity(v entity.Vec2)
	ApplyImpulse(j entity.Vec2)
	GravityScale() float64
	SetGravityScale(s float64)
}

// GroundProbe answers shape overlap queries against level geometry
type GroundProbe interface {
	OverlapCircle(center entity.Vec2, radius float64, mask entity.LayerMask) bool
}

// World is a physics backend hosting the character body and level colliders
type World interface {
	Body
	GroundProbe
	// Step integrates one fixed step and resolves collisions
	Step(dt float64)
	// Contacts returns collider contacts recorded by the last Step
	Contacts() []entity.Contact
	AddCollider(c *entity.Collider)
	// Bounds returns the character box
	Bounds() entity.AABB
}

// Presenter receives fire-and-forget presentation cues
type Presenter interface {
	Play(cue entity.Cue)
}

// PresenterFunc adapts a function to Presenter
type PresenterFunc func(cue entity.Cue)

// Play calls f(cue)
func (f PresenterFunc) Play(cue entity.Cue) { f(cue) }

// MultiPresenter fans cues out to several presenters
type MultiPresenter []Presenter

// Play forwards the cue to every non-nil presenter
func (m MultiPresenter) Play(cue entity.Cue) {
	for _, p := range m {
		if p != nil {
			p.Play(cue)
		}
	}
}

// Capabilities are the character flags level collaborators query
type Capabilities interface {
	IsDashing() bool
	IsGrounded() bool
}
