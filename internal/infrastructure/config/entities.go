package config

// EntitiesConfig is the root config for entities.json. Stage spawns
// reference these archetypes by name.
type EntitiesConfig struct {
	Platforms map[string]PlatformConfig `json:"platforms" yaml:"platforms"`
	Walls     map[string]WallConfig     `json:"walls" yaml:"walls"`
	Stalkers  map[string]StalkerConfig  `json:"stalkers" yaml:"stalkers"`
}

// PlatformConfig sizes are in tiles
type PlatformConfig struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Speed  float64 `json:"speed" yaml:"speed"`
	Wait   float64 `json:"wait" yaml:"wait"`
	// Carry overrides level.carryRiders when set
	Carry *bool `json:"carry,omitempty" yaml:"carry,omitempty"`
}

type WallConfig struct {
	BreakVelocity    float64 `json:"breakVelocity,omitempty" yaml:"breakVelocity,omitempty"`
	DashAlwaysBreaks *bool   `json:"dashAlwaysBreaks,omitempty" yaml:"dashAlwaysBreaks,omitempty"`
}

type StalkerConfig struct {
	Speed     float64 `json:"speed" yaml:"speed"`
	KillRange float64 `json:"killRange,omitempty" yaml:"killRange,omitempty"`
}

// Platform returns the named archetype or a 3x0.5 default
func (c *EntitiesConfig) Platform(name string) PlatformConfig {
	if c != nil {
		if p, ok := c.Platforms[name]; ok {
			return p
		}
	}
	return PlatformConfig{Width: 3, Height: 0.5, Speed: 2, Wait: 0.5}
}

// Wall returns the named archetype or an empty one that defers to tuning
func (c *EntitiesConfig) Wall(name string) WallConfig {
	if c != nil {
		if w, ok := c.Walls[name]; ok {
			return w
		}
	}
	return WallConfig{}
}

// Stalker returns the named archetype or a slow default
func (c *EntitiesConfig) Stalker(name string) StalkerConfig {
	if c != nil {
		if s, ok := c.Stalkers[name]; ok {
			return s
		}
	}
	return StalkerConfig{Speed: 2}
}
