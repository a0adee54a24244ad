package entity

// Stalker is a patrolling enemy that kills the character on contact
// unless the character is dashing, in which case the stalker dies.
type Stalker struct {
	ID        int
	Pos       Vec2
	A, B      Vec2
	Speed     float64
	KillRange float64
	Alive     bool

	FacingRight bool
	towardB     bool
}

// NewStalker creates a stalker at a patrolling toward b
func NewStalker(id int, a, b Vec2, speed, killRange float64) *Stalker {
	return &Stalker{
		ID:        id,
		Pos:       a,
		A:         a,
		B:         b,
		Speed:     speed,
		KillRange: killRange,
		Alive:     true,
		towardB:   true,
	}
}

// Update moves the stalker along its patrol
func (s *Stalker) Update(dt float64) {
	if !s.Alive {
		return
	}
	target := s.A
	if s.towardB {
		target = s.B
	}
	next := MoveTowardsVec(s.Pos, target, s.Speed*dt)
	if next.X != s.Pos.X {
		s.FacingRight = next.X > s.Pos.X
	}
	s.Pos = next
	if s.Pos.Dist(target) < 0.1 {
		s.towardB = !s.towardB
	}
}

// InRange reports whether p is inside the kill range
func (s *Stalker) InRange(p Vec2) bool {
	return s.Alive && s.Pos.Dist(p) <= s.KillRange
}

// Reset revives the stalker at its patrol start
func (s *Stalker) Reset() {
	s.Pos = s.A
	s.Alive = true
	s.towardB = true
}
