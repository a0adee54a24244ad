package system

import (
	"log"

	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

const defaultTileSize = 16

// stageSpace converts stage pixels (top-left origin) into world units
// (one unit per tile, y up)
type stageSpace struct {
	tileSize float64
	height   float64 // in tiles
}

func newStageSpace(cfg *config.StageConfig) stageSpace {
	ts := cfg.Size.TileSize
	if ts <= 0 {
		ts = defaultTileSize
	}
	return stageSpace{tileSize: float64(ts), height: float64(len(cfg.Layers.Collision))}
}

func (s stageSpace) point(p config.PositionConfig) entity.Vec2 {
	return entity.Vec2{
		X: float64(p.X) / s.tileSize,
		Y: s.height - float64(p.Y)/s.tileSize,
	}
}

func (s stageSpace) rect(r config.RectConfig) entity.AABB {
	return entity.AABB{
		Min: entity.Vec2{X: float64(r.X) / s.tileSize, Y: s.height - float64(r.Y+r.H)/s.tileSize},
		Max: entity.Vec2{X: float64(r.X+r.W) / s.tileSize, Y: s.height - float64(r.Y)/s.tileSize},
	}
}

// LoadStage converts a StageConfig into a Stage entity
func LoadStage(cfg *config.StageConfig) *entity.Stage {
	space := newStageSpace(cfg)
	tileWidth := cfg.Size.Width / int(space.tileSize)
	tileHeight := len(cfg.Layers.Collision)

	tiles := make([][]entity.Tile, tileHeight)
	for y, row := range cfg.Layers.Collision {
		// first row in the file is the top of the stage
		ty := tileHeight - 1 - y
		tiles[ty] = make([]entity.Tile, tileWidth)
		for x, char := range row {
			if x >= tileWidth {
				break
			}
			mapping, ok := cfg.TileMapping[string(char)]
			if !ok {
				continue
			}

			var tileType entity.TileType
			switch mapping.Type {
			case "wall":
				tileType = entity.TileWall
			case "spike":
				tileType = entity.TileSpike
			default:
				tileType = entity.TileEmpty
			}

			tiles[ty][x] = entity.Tile{
				Type:  tileType,
				Solid: mapping.Solid,
			}
		}
	}

	return &entity.Stage{
		Name:   cfg.ID,
		Next:   cfg.Next,
		Width:  tileWidth,
		Height: tileHeight,
		Tiles:  tiles,
		Spawn:  space.point(cfg.PlayerSpawn),
	}
}

// PopulateLevel adds the stage's triggers, platforms, walls and stalkers
// to level. Archetypes come from ents; unknown trigger types are skipped.
func PopulateLevel(level *LevelSystem, cfg *config.StageConfig, ents *config.EntitiesConfig, tuning *config.TuningConfig) {
	space := newStageSpace(cfg)
	nextID := 1

	for _, tc := range cfg.Triggers {
		box := space.rect(tc.Rect)
		t := &entity.Trigger{Box: box, Target: tc.Target}
		switch tc.Type {
		case "checkpoint":
			t.Kind = entity.TriggerCheckpoint
			if tc.Spawn != nil {
				t.Spawn = space.point(*tc.Spawn)
			} else {
				t.Spawn = entity.Vec2{X: box.Center().X, Y: box.Min.Y + tuning.Character.Height/2}
			}
		case "hazard":
			t.Kind = entity.TriggerHazard
		case "exit":
			t.Kind = entity.TriggerExit
		default:
			log.Printf("Stage %s: unknown trigger type %q", cfg.ID, tc.Type)
			continue
		}
		level.AddTrigger(t)
	}

	for _, pc := range cfg.Platforms {
		arch := ents.Platform(pc.Type)
		carry := tuning.Level.CarryRiders
		if arch.Carry != nil {
			carry = *arch.Carry
		}
		level.AddPlatform(entity.NewMovingPlatform(nextID, space.point(pc.From), space.point(pc.To),
			arch.Width, arch.Height, arch.Speed, arch.Wait, carry))
		nextID++
	}

	for _, wc := range cfg.Walls {
		arch := ents.Wall(wc.Type)
		dashBreaks := tuning.Level.DashAlwaysBreaks
		if arch.DashAlwaysBreaks != nil {
			dashBreaks = *arch.DashAlwaysBreaks
		}
		level.AddWall(entity.NewBreakableWall(nextID, space.rect(wc.Rect), arch.BreakVelocity, dashBreaks))
		nextID++
	}

	for _, sc := range cfg.Stalkers {
		arch := ents.Stalker(sc.Type)
		level.AddStalker(entity.NewStalker(nextID, space.point(sc.From), space.point(sc.To), arch.Speed, arch.KillRange))
		nextID++
	}
}
