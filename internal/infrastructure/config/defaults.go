package config

// DefaultTuning returns the stock feel of the game. Loaded files are
// decoded on top of these values, so a file only needs the fields it changes.
func DefaultTuning() *TuningConfig {
	return &TuningConfig{
		Display: DisplayConfig{
			ScreenWidth:  640,
			ScreenHeight: 360,
			Scale:        2,
			TileSize:     16,
		},
		Physics: PhysicsSettings{
			Backend:      BackendTiles,
			FixedStep:    1.0 / 60.0,
			MaxSteps:     5,
			Substeps:     4,
			Gravity:      30,
			MaxFallSpeed: 25,
		},
		Character: CharacterConfig{
			Width:  0.8,
			Height: 1,
			Mass:   1,
		},
		Movement: MovementConfig{
			MaxSpeed:       10,
			Acceleration:   60,
			Deceleration:   70,
			AirControl:     0.7,
			Deadzone:       0.01,
			StopBoost:      1.5,
			ChargeDiscount: 0.7,
			ChargeSlowdown: 0.8,
		},
		Jump: JumpConfig{
			Force:                14,
			CoyoteTime:           0.12,
			JumpBuffer:           0.12,
			CutGravityMultiplier: 0.5,
		},
		Charge: ChargeConfig{
			MinTime:            0.3,
			MaxTime:            1,
			MaxForce:           20,
			MinStaminaFraction: 0.1,
		},
		Dash: DashConfig{
			Speed:       20,
			Duration:    0.12,
			MinDelay:    0.05,
			StaminaCost: 20,
		},
		Stamina: StaminaConfig{
			Max:        100,
			DrainRate:  25,
			RegenRate:  15,
			RegenDelay: 1,
		},
		Ground: GroundConfig{
			Radius: 0.15,
			Offset: 0.5,
		},
		Landing: LandingConfig{
			MinVelocity:   5,
			MaxSquash:     0.7,
			SquashDivisor: 15,
			LockDuration:  0.15,
		},
		Flow: FlowConfig{
			RespawnDelay: 1.5,
			AdvanceDelay: 2,
		},
		Warning: WarningConfig{
			MaxRange:       6,
			MinDistance:    1,
			AudioThreshold: 0.2,
		},
		Level: LevelConfig{
			CarryRiders:      true,
			BreakVelocity:    14,
			DashAlwaysBreaks: true,
			StalkerKillRange: 1,
		},
	}
}
