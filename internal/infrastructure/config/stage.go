package config

// StageConfig is the root config for stage JSON files.
// Positions are pixels from the top-left corner, like the drawn tile map.
type StageConfig struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Next        string                       `json:"next"`
	Size        StageSizeConfig              `json:"size"`
	Background  BackgroundConfig             `json:"background"`
	PlayerSpawn PositionConfig               `json:"playerSpawn"`
	Layers      LayersConfig                 `json:"layers"`
	TileMapping map[string]TileMappingConfig `json:"tileMapping"`
	Triggers    []TriggerConfig              `json:"triggers"`
	Platforms   []PlatformSpawnConfig        `json:"platforms"`
	Walls       []WallSpawnConfig            `json:"walls"`
	Stalkers    []StalkerSpawnConfig         `json:"stalkers"`
}

type StageSizeConfig struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	TileSize int `json:"tileSize"`
}

type BackgroundConfig struct {
	Color string `json:"color"`
}

type PositionConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type LayersConfig struct {
	Collision []string `json:"collision"`
}

type TileMappingConfig struct {
	Type  string `json:"type"`
	Solid bool   `json:"solid"`
}

// TriggerConfig describes a checkpoint, hazard or exit zone
type TriggerConfig struct {
	Type   string          `json:"type"`
	Rect   RectConfig      `json:"rect"`
	Target string          `json:"target"`
	Spawn  *PositionConfig `json:"spawn,omitempty"` // checkpoints; defaults to the bottom center of rect
}

type RectConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// PlatformSpawnConfig places a moving platform; From/To are platform centers
type PlatformSpawnConfig struct {
	Type string         `json:"type"`
	From PositionConfig `json:"from"`
	To   PositionConfig `json:"to"`
}

// WallSpawnConfig places a breakable wall
type WallSpawnConfig struct {
	Type string     `json:"type"`
	Rect RectConfig `json:"rect"`
}

// StalkerSpawnConfig places a patrolling stalker
type StalkerSpawnConfig struct {
	Type string         `json:"type"`
	From PositionConfig `json:"from"`
	To   PositionConfig `json:"to"`
}
