package config

// TuningConfig is the root config for tuning.json (or tuning.yaml)
type TuningConfig struct {
	Display   DisplayConfig   `json:"display" yaml:"display"`
	Physics   PhysicsSettings `json:"physics" yaml:"physics"`
	Character CharacterConfig `json:"character" yaml:"character"`
	Movement  MovementConfig  `json:"movement" yaml:"movement"`
	Jump      JumpConfig      `json:"jump" yaml:"jump"`
	Charge    ChargeConfig    `json:"charge" yaml:"charge"`
	Dash      DashConfig      `json:"dash" yaml:"dash"`
	Stamina   StaminaConfig   `json:"stamina" yaml:"stamina"`
	Ground    GroundConfig    `json:"ground" yaml:"ground"`
	Landing   LandingConfig   `json:"landing" yaml:"landing"`
	Flow      FlowConfig      `json:"flow" yaml:"flow"`
	Warning   WarningConfig   `json:"warning" yaml:"warning"`
	Level     LevelConfig     `json:"level" yaml:"level"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth" yaml:"screenWidth"`
	ScreenHeight int `json:"screenHeight" yaml:"screenHeight"`
	Scale        int `json:"scale" yaml:"scale"`
	TileSize     int `json:"tileSize" yaml:"tileSize"` // pixels per world unit when drawing
}

type PhysicsSettings struct {
	Backend      string  `json:"backend" yaml:"backend"`     // "tiles" or "chipmunk"
	FixedStep    float64 `json:"fixedStep" yaml:"fixedStep"` // seconds
	MaxSteps     int     `json:"maxSteps" yaml:"maxSteps"`   // per frame, spiral-of-death guard
	Substeps     int     `json:"substeps" yaml:"substeps"`
	Gravity      float64 `json:"gravity" yaml:"gravity"` // magnitude, units/s^2, pulls toward -Y
	MaxFallSpeed float64 `json:"maxFallSpeed" yaml:"maxFallSpeed"`
}

type CharacterConfig struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Mass   float64 `json:"mass" yaml:"mass"`
}

type MovementConfig struct {
	MaxSpeed       float64 `json:"maxSpeed" yaml:"maxSpeed"`
	Acceleration   float64 `json:"acceleration" yaml:"acceleration"`
	Deceleration   float64 `json:"deceleration" yaml:"deceleration"`
	AirControl     float64 `json:"airControl" yaml:"airControl"`
	Deadzone       float64 `json:"deadzone" yaml:"deadzone"`
	StopBoost      float64 `json:"stopBoost" yaml:"stopBoost"`
	ChargeDiscount float64 `json:"chargeDiscount" yaml:"chargeDiscount"`
	ChargeSlowdown float64 `json:"chargeSlowdown" yaml:"chargeSlowdown"`
}

type JumpConfig struct {
	Force                float64 `json:"force" yaml:"force"`
	CoyoteTime           float64 `json:"coyoteTime" yaml:"coyoteTime"`
	JumpBuffer           float64 `json:"jumpBuffer" yaml:"jumpBuffer"`
	CutGravityMultiplier float64 `json:"cutGravityMultiplier" yaml:"cutGravityMultiplier"`
}

type ChargeConfig struct {
	MinTime            float64 `json:"minTime" yaml:"minTime"`
	MaxTime            float64 `json:"maxTime" yaml:"maxTime"`
	MaxForce           float64 `json:"maxForce" yaml:"maxForce"`
	MinStaminaFraction float64 `json:"minStaminaFraction" yaml:"minStaminaFraction"`
}

type DashConfig struct {
	Speed       float64 `json:"speed" yaml:"speed"`
	Duration    float64 `json:"duration" yaml:"duration"`
	MinDelay    float64 `json:"minDelay" yaml:"minDelay"`
	StaminaCost float64 `json:"staminaCost" yaml:"staminaCost"`
}

type StaminaConfig struct {
	Max        float64 `json:"max" yaml:"max"`
	DrainRate  float64 `json:"drainRate" yaml:"drainRate"`
	RegenRate  float64 `json:"regenRate" yaml:"regenRate"`
	RegenDelay float64 `json:"regenDelay" yaml:"regenDelay"`
}

type GroundConfig struct {
	Radius float64 `json:"radius" yaml:"radius"`
	// Offset is the probe distance below the character center.
	Offset float64 `json:"offset" yaml:"offset"`
}

type LandingConfig struct {
	MinVelocity   float64 `json:"minVelocity" yaml:"minVelocity"`
	MaxSquash     float64 `json:"maxSquash" yaml:"maxSquash"`
	SquashDivisor float64 `json:"squashDivisor" yaml:"squashDivisor"`
	LockDuration  float64 `json:"lockDuration" yaml:"lockDuration"`
}

type FlowConfig struct {
	RespawnDelay float64 `json:"respawnDelay" yaml:"respawnDelay"`
	AdvanceDelay float64 `json:"advanceDelay" yaml:"advanceDelay"`
}

type WarningConfig struct {
	MaxRange       float64 `json:"maxRange" yaml:"maxRange"`
	MinDistance    float64 `json:"minDistance" yaml:"minDistance"`
	AudioThreshold float64 `json:"audioThreshold" yaml:"audioThreshold"`
}

type LevelConfig struct {
	CarryRiders      bool    `json:"carryRiders" yaml:"carryRiders"`
	BreakVelocity    float64 `json:"breakVelocity" yaml:"breakVelocity"`
	DashAlwaysBreaks bool    `json:"dashAlwaysBreaks" yaml:"dashAlwaysBreaks"`
	StalkerKillRange float64 `json:"stalkerKillRange" yaml:"stalkerKillRange"`
}
