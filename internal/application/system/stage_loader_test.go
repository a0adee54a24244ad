package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

func boolPtr(b bool) *bool { return &b }

func TestLoadStage(t *testing.T) {
	t.Run("loads basic stage", func(t *testing.T) {
		cfg := &config.StageConfig{
			ID:   "basic",
			Next: "after",
			Size: config.StageSizeConfig{
				Width:    48,
				Height:   48,
				TileSize: 16,
			},
			PlayerSpawn: config.PositionConfig{
				X: 24,
				Y: 24,
			},
			Layers: config.LayersConfig{
				Collision: []string{
					"###",
					"#.#",
					"###",
				},
			},
			TileMapping: map[string]config.TileMappingConfig{
				"#": {Type: "wall", Solid: true},
				".": {Type: "empty", Solid: false},
			},
		}

		stage := LoadStage(cfg)

		require.NotNil(t, stage)
		assert.Equal(t, "basic", stage.Name)
		assert.Equal(t, "after", stage.Next)
		assert.Equal(t, 3, stage.Width)
		assert.Equal(t, 3, stage.Height)
		assert.Equal(t, entity.Vec2{X: 1.5, Y: 1.5}, stage.Spawn)
	})

	t.Run("flips rows so the last row is the bottom", func(t *testing.T) {
		cfg := &config.StageConfig{
			Size: config.StageSizeConfig{Width: 32, Height: 32, TileSize: 16},
			Layers: config.LayersConfig{
				Collision: []string{
					"..",
					"#^",
				},
			},
			TileMapping: map[string]config.TileMappingConfig{
				"#": {Type: "wall", Solid: true},
				"^": {Type: "spike", Solid: false},
			},
		}

		stage := LoadStage(cfg)

		assert.Equal(t, entity.TileWall, stage.GetTile(0, 0).Type)
		assert.True(t, stage.GetTile(0, 0).Solid)
		assert.Equal(t, entity.TileSpike, stage.GetTile(1, 0).Type)
		assert.False(t, stage.GetTile(1, 0).Solid)
		assert.Equal(t, entity.TileEmpty, stage.GetTile(0, 1).Type)
	})

	t.Run("handles unknown tile mapping", func(t *testing.T) {
		cfg := &config.StageConfig{
			Size: config.StageSizeConfig{Width: 16, Height: 16, TileSize: 16},
			Layers: config.LayersConfig{
				Collision: []string{"?"},
			},
			TileMapping: map[string]config.TileMappingConfig{},
		}

		stage := LoadStage(cfg)

		tile := stage.GetTile(0, 0)
		assert.Equal(t, entity.TileEmpty, tile.Type)
		assert.False(t, tile.Solid)
	})

	t.Run("handles unknown tile type", func(t *testing.T) {
		cfg := &config.StageConfig{
			Size: config.StageSizeConfig{Width: 16, Height: 16, TileSize: 16},
			Layers: config.LayersConfig{
				Collision: []string{"X"},
			},
			TileMapping: map[string]config.TileMappingConfig{
				"X": {Type: "unknown_type", Solid: false},
			},
		}

		stage := LoadStage(cfg)

		assert.Equal(t, entity.TileEmpty, stage.GetTile(0, 0).Type)
	})

	t.Run("handles row longer than width", func(t *testing.T) {
		cfg := &config.StageConfig{
			Size: config.StageSizeConfig{
				Width:    32, // 2 tiles
				Height:   16,
				TileSize: 16,
			},
			Layers: config.LayersConfig{
				Collision: []string{
					"####", // 4 characters, but only 2 tiles should be used
				},
			},
			TileMapping: map[string]config.TileMappingConfig{
				"#": {Type: "wall", Solid: true},
			},
		}

		stage := LoadStage(cfg)

		assert.Equal(t, 2, stage.Width)
		assert.Equal(t, 1, stage.Height)
	})

	t.Run("defaults tile size", func(t *testing.T) {
		cfg := &config.StageConfig{
			Size:        config.StageSizeConfig{Width: 32, Height: 16},
			PlayerSpawn: config.PositionConfig{X: 16, Y: 8},
			Layers:      config.LayersConfig{Collision: []string{".."}},
		}

		stage := LoadStage(cfg)

		assert.Equal(t, 2, stage.Width)
		assert.Equal(t, entity.Vec2{X: 1, Y: 0.5}, stage.Spawn)
	})
}

func createTestStageConfig() *config.StageConfig {
	return &config.StageConfig{
		ID:   "room",
		Next: "hall",
		Size: config.StageSizeConfig{Width: 128, Height: 64, TileSize: 16},
		Layers: config.LayersConfig{
			Collision: []string{
				"........",
				"........",
				"........",
				"########",
			},
		},
		TileMapping: map[string]config.TileMappingConfig{
			"#": {Type: "wall", Solid: true},
		},
		PlayerSpawn: config.PositionConfig{X: 16, Y: 40},
		Triggers: []config.TriggerConfig{
			{Type: "checkpoint", Rect: config.RectConfig{X: 32, Y: 16, W: 16, H: 32}},
			{Type: "checkpoint", Rect: config.RectConfig{X: 48, Y: 16, W: 16, H: 32}, Spawn: &config.PositionConfig{X: 56, Y: 40}},
			{Type: "exit", Rect: config.RectConfig{X: 112, Y: 16, W: 16, H: 32}, Target: "bonus"},
			{Type: "hazard", Rect: config.RectConfig{X: 80, Y: 40, W: 16, H: 8}},
			{Type: "mystery", Rect: config.RectConfig{X: 0, Y: 0, W: 16, H: 16}},
		},
		Platforms: []config.PlatformSpawnConfig{
			{Type: "lift", From: config.PositionConfig{X: 32, Y: 8}, To: config.PositionConfig{X: 96, Y: 8}},
		},
		Walls: []config.WallSpawnConfig{
			{Type: "crate", Rect: config.RectConfig{X: 64, Y: 16, W: 16, H: 32}},
			{Type: "plain", Rect: config.RectConfig{X: 96, Y: 16, W: 16, H: 32}},
		},
		Stalkers: []config.StalkerSpawnConfig{
			{Type: "shade", From: config.PositionConfig{X: 80, Y: 40}, To: config.PositionConfig{X: 112, Y: 40}},
		},
	}
}

func TestPopulateLevel(t *testing.T) {
	tuning := config.DefaultTuning()
	stageCfg := createTestStageConfig()
	stage := LoadStage(stageCfg)
	world := NewPhysicsSystem(tuning, stage)
	level := NewLevelSystem(&tuning.Level, stage, world, nil)
	ents := &config.EntitiesConfig{
		Platforms: map[string]config.PlatformConfig{
			"lift": {Width: 2, Height: 0.5, Speed: 1, Carry: boolPtr(false)},
		},
		Walls: map[string]config.WallConfig{
			"crate": {BreakVelocity: 10, DashAlwaysBreaks: boolPtr(false)},
		},
		Stalkers: map[string]config.StalkerConfig{
			"shade": {Speed: 1.5},
		},
	}

	PopulateLevel(level, stageCfg, ents, tuning)

	t.Run("triggers", func(t *testing.T) {
		triggers := level.GetTriggers()
		require.Len(t, triggers, 4)

		assert.Equal(t, entity.TriggerCheckpoint, triggers[0].Kind)
		assert.Equal(t, entity.AABB{Min: entity.Vec2{X: 2, Y: 1}, Max: entity.Vec2{X: 3, Y: 3}}, triggers[0].Box)
		assert.Equal(t, entity.Vec2{X: 2.5, Y: 1.5}, triggers[0].Spawn, "defaults to the bottom center")
		assert.Equal(t, entity.Vec2{X: 3.5, Y: 1.5}, triggers[1].Spawn)
		assert.Equal(t, entity.TriggerExit, triggers[2].Kind)
		assert.Equal(t, "bonus", triggers[2].Target)
		assert.Equal(t, entity.TriggerHazard, triggers[3].Kind)
	})

	t.Run("platforms", func(t *testing.T) {
		platforms := level.GetPlatforms()
		require.Len(t, platforms, 1)
		p := platforms[0]
		assert.Equal(t, entity.Vec2{X: 2, Y: 3.5}, p.A)
		assert.Equal(t, entity.Vec2{X: 6, Y: 3.5}, p.B)
		assert.False(t, p.Carry, "archetype overrides level default")
		assert.Equal(t, 2.0, p.Collider.Box.Width())
	})

	t.Run("walls", func(t *testing.T) {
		walls := level.GetWalls()
		require.Len(t, walls, 2)
		assert.Equal(t, 10.0, walls[0].BreakVelocity)
		assert.False(t, walls[0].DashAlwaysBreaks)
		assert.Equal(t, tuning.Level.BreakVelocity, walls[1].BreakVelocity, "unknown archetype uses level default")
		assert.True(t, walls[1].DashAlwaysBreaks)
	})

	t.Run("stalkers", func(t *testing.T) {
		stalkers := level.GetStalkers()
		require.Len(t, stalkers, 1)
		assert.Equal(t, entity.Vec2{X: 5, Y: 1.5}, stalkers[0].Pos)
		assert.Equal(t, tuning.Level.StalkerKillRange, stalkers[0].KillRange)
		assert.Equal(t, 1.5, stalkers[0].Speed)
	})

	t.Run("colliders registered with the world", func(t *testing.T) {
		assert.Len(t, world.Colliders(), 3)
	})
}

func TestLoadStage_Demo(t *testing.T) {
	loader := config.NewLoader("../../../cmd/game/configs")
	stageCfg, err := loader.LoadStage("demo")
	require.NoError(t, err)

	stage := LoadStage(stageCfg)

	assert.Equal(t, 40, stage.Width)
	assert.Equal(t, 15, stage.Height)
	assert.Equal(t, entity.Vec2{X: 3, Y: 2.5}, stage.Spawn)
	// spawn stands on the floor
	assert.True(t, stage.IsSolidAt(entity.Vec2{X: 3, Y: 1.5}))
	assert.False(t, stage.IsSolidAt(stage.Spawn))
	assert.NotEmpty(t, stage.HazardCenters())
}
