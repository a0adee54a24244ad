package entity

// TriggerKind defines what a trigger zone does when the character enters it
type TriggerKind int

const (
	TriggerCheckpoint TriggerKind = iota
	TriggerHazard
	TriggerExit
)

// Trigger is a non-solid zone evaluated against the character box.
type Trigger struct {
	Kind   TriggerKind
	Box    AABB
	Spawn  Vec2   // checkpoint respawn position
	Target string // exit destination; empty means the stage's next level

	inside bool
}

// Enter updates occupancy and reports whether the character just entered.
func (t *Trigger) Enter(character AABB) bool {
	now := t.Box.Overlaps(character)
	entered := now && !t.inside
	t.inside = now
	return entered
}

// Reset forgets occupancy so the trigger fires again on the next overlap
func (t *Trigger) Reset() {
	t.inside = false
}

// MovingPlatform ping-pongs a collider between two centers.
type MovingPlatform struct {
	Collider *Collider
	A, B     Vec2
	Speed    float64
	Wait     float64
	// Carry moves a character standing on top along with the platform.
	Carry bool

	towardB  bool
	waitLeft float64
	Frozen   bool
}

// NewMovingPlatform creates a platform of size w x h starting at a
func NewMovingPlatform(id int, a, b Vec2, w, h, speed, wait float64, carry bool) *MovingPlatform {
	return &MovingPlatform{
		Collider: &Collider{
			ID:    id,
			Box:   NewAABB(a, w, h),
			Layer: LayerPlatform,
		},
		A:       a,
		B:       b,
		Speed:   speed,
		Wait:    wait,
		Carry:   carry,
		towardB: true,
	}
}

// Update advances the platform and records its velocity on the collider
func (p *MovingPlatform) Update(dt float64) {
	p.Collider.Velocity = Vec2{}
	if p.Frozen || dt <= 0 {
		return
	}
	if p.waitLeft > 0 {
		p.waitLeft -= dt
		return
	}

	target := p.A
	if p.towardB {
		target = p.B
	}
	cur := p.Collider.Box.Center()
	next := MoveTowardsVec(cur, target, p.Speed*dt)
	delta := next.Sub(cur)
	p.Collider.Box = p.Collider.Box.Translate(delta)
	p.Collider.Velocity = delta.Scale(1 / dt)

	if next.Dist(target) < 0.01 {
		p.towardB = !p.towardB
		p.waitLeft = p.Wait
	}
}

// BreakableWall is a solid collider that breaks on a dash or a hard hit.
type BreakableWall struct {
	Collider         *Collider
	BreakVelocity    float64
	DashAlwaysBreaks bool
	Broken           bool
}

// NewBreakableWall creates an intact wall
func NewBreakableWall(id int, box AABB, breakVelocity float64, dashAlwaysBreaks bool) *BreakableWall {
	return &BreakableWall{
		Collider: &Collider{
			ID:    id,
			Box:   box,
			Layer: LayerBreakable,
		},
		BreakVelocity:    breakVelocity,
		DashAlwaysBreaks: dashAlwaysBreaks,
	}
}

// ShouldBreak decides the outcome of a contact with the character
func (w *BreakableWall) ShouldBreak(dashing bool, c Contact) bool {
	if w.Broken {
		return false
	}
	if dashing && w.DashAlwaysBreaks {
		return true
	}
	return c.Impact() >= w.BreakVelocity
}

// Break disables the wall's collider
func (w *BreakableWall) Break() {
	w.Broken = true
	w.Collider.Disabled = true
}

// Restore makes the wall solid again
func (w *BreakableWall) Restore() {
	w.Broken = false
	w.Collider.Disabled = false
}
