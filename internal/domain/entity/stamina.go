package entity

import "math"

// StaminaPool is a depleting/regenerating resource that gates abilities.
// Time is measured by the pool's own clock, advanced by Tick.
type StaminaPool struct {
	current    float64
	max        float64
	drainRate  float64 // per second, used by ConsumeContinuous
	regenRate  float64 // per second
	regenDelay float64 // seconds after the last consuming tick

	clock           float64
	lastConsumption float64
	consuming       bool
}

// NewStaminaPool creates a full pool
func NewStaminaPool(max, drainRate, regenRate, regenDelay float64) *StaminaPool {
	p := &StaminaPool{}
	p.Configure(max, drainRate, regenRate, regenDelay)
	p.Reset()
	return p
}

// Configure replaces the pool parameters, keeping the current value in range.
func (p *StaminaPool) Configure(max, drainRate, regenRate, regenDelay float64) {
	p.max = math.Max(max, 0)
	p.drainRate = drainRate
	p.regenRate = regenRate
	p.regenDelay = regenDelay
	p.current = Clamp(p.current, 0, p.max)
}

// Reset refills the pool and forgets any consumption history
func (p *StaminaPool) Reset() {
	p.current = p.max
	p.lastConsumption = math.Inf(-1)
	p.consuming = false
}

// Current returns the current stamina
func (p *StaminaPool) Current() float64 { return p.current }

// Max returns the pool capacity
func (p *StaminaPool) Max() float64 { return p.max }

// Fraction returns current/max, or 0 for an empty-capacity pool
func (p *StaminaPool) Fraction() float64 {
	if p.max <= 0 {
		return 0
	}
	return p.current / p.max
}

// CanConsume reports whether amount is affordable
func (p *StaminaPool) CanConsume(amount float64) bool {
	return p.current >= amount
}

// Consume deducts amount if affordable. Nothing is deducted on failure.
func (p *StaminaPool) Consume(amount float64) bool {
	if amount < 0 || !p.CanConsume(amount) {
		return false
	}
	p.current = math.Max(p.current-amount, 0)
	p.consuming = true
	return true
}

// ConsumeContinuous drains drainRate*dt. A false return means the
// drain can no longer be sustained and the caller must stop.
func (p *StaminaPool) ConsumeContinuous(dt float64) bool {
	return p.Consume(p.drainRate * dt)
}

// MarkConsuming suppresses regeneration for this tick without spending anything.
func (p *StaminaPool) MarkConsuming() {
	p.consuming = true
}

// IsConsuming reports whether the current tick is marked consuming
func (p *StaminaPool) IsConsuming() bool { return p.consuming }

// HasFraction reports whether current/max >= f
func (p *StaminaPool) HasFraction(f float64) bool {
	if p.max <= 0 {
		return false
	}
	return p.current/p.max >= f
}

// Tick advances the pool clock and regenerates when allowed.
func (p *StaminaPool) Tick(dt float64) {
	p.clock += dt
	if p.consuming {
		p.lastConsumption = p.clock
		p.consuming = false
		return
	}
	if p.clock-p.lastConsumption < p.regenDelay || p.current >= p.max {
		return
	}
	p.current = math.Min(p.current+p.regenRate*dt, p.max)
}
