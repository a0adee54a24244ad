package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Tuning   *TuningConfig
	Entities *EntitiesConfig
}

// Loader loads game configuration from JSON or YAML files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the directory the loader was created for
func (l *Loader) BasePath() string { return l.basePath }

// LoadTuning loads tuning.json, falling back to tuning.yaml / tuning.yml.
// Values are decoded over DefaultTuning and validated.
func (l *Loader) LoadTuning() (*TuningConfig, error) {
	cfg := DefaultTuning()

	name, data, err := l.readFirst("tuning.json", "tuning.yaml", "tuning.yml")
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning: %w", err)
	}
	if err := decode(name, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", name, err)
	}

	return cfg, nil
}

// LoadEntities loads entities.json. A missing file yields an empty config.
func (l *Loader) LoadEntities() (*EntitiesConfig, error) {
	name, data, err := l.readFirst("entities.json", "entities.yaml", "entities.yml")
	if errors.Is(err, fs.ErrNotExist) {
		return &EntitiesConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entities: %w", err)
	}

	var cfg EntitiesConfig
	if err := decode(name, data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return &cfg, nil
}

// LoadStage loads a stage JSON file
func (l *Loader) LoadStage(name string) (*StageConfig, error) {
	path := "stages/" + name + ".json"
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage %s: %w", name, err)
	}

	var cfg StageConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse stage %s: %w", name, err)
	}
	if cfg.ID == "" {
		cfg.ID = name
	}

	return &cfg, nil
}

// LoadAll loads all base configurations (tuning, entities)
func (l *Loader) LoadAll() (*GameConfig, error) {
	tuning, err := l.LoadTuning()
	if err != nil {
		return nil, err
	}

	entities, err := l.LoadEntities()
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Tuning:   tuning,
		Entities: entities,
	}, nil
}

// readFirst returns the first file among names that exists
func (l *Loader) readFirst(names ...string) (string, []byte, error) {
	var lastErr error
	for _, name := range names {
		data, err := fs.ReadFile(l.fsys, name)
		if err == nil {
			return name, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return name, nil, err
		}
		lastErr = err
	}
	return "", nil, lastErr
}

func decode(name string, data []byte, v any) error {
	if isYAML(name) {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func isYAML(name string) bool {
	ext := path.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}
