package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/parallelrun/internal/application/game"
	"github.com/younwookim/parallelrun/internal/application/replay"
	"github.com/younwookim/parallelrun/internal/application/scene/playing"
	"github.com/younwookim/parallelrun/internal/application/session"
	"github.com/younwookim/parallelrun/internal/infrastructure/audio"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
	"github.com/younwookim/parallelrun/internal/infrastructure/physics/chipmunk"
	"github.com/younwookim/parallelrun/internal/infrastructure/storage/sqlite"
)

// newConfigLoader reads configs from dir, or from the embedded configs
// when dir is empty
func newConfigLoader(dir string) (*config.Loader, error) {
	if dir != "" {
		return config.NewLoader(dir), nil
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, fmt.Errorf("config subfs: %w", err)
	}
	return config.NewFSLoader(fsys, "configs"), nil
}

// worldFactory selects the physics backend by name
func worldFactory(backend string) (session.WorldFactory, error) {
	switch backend {
	case "", config.BackendTiles:
		return session.TileWorld, nil
	case config.BackendChipmunk:
		return chipmunk.NewWorld, nil
	default:
		return nil, fmt.Errorf("unknown physics backend %q", backend)
	}
}

// watchTuning forwards every valid tuning reload to updates until the
// watcher closes
func watchTuning(w *config.Watcher, loader *config.Loader, updates chan<- *config.TuningConfig) {
	defer close(updates)
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			if !config.IsTuningFile(path) {
				continue
			}
			cfg, err := loader.LoadTuning()
			if err != nil {
				log.Printf("Config: keeping current tuning: %v", err)
				continue
			}
			select {
			case updates <- cfg:
				log.Printf("Config: reloaded %s", path)
			default:
				log.Printf("Config: dropped reload of %s, game is busy", path)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("Config: watch error: %v", err)
		}
	}
}

func main() {
	envCfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	stageFlag := flag.String("stage", envCfg.Stage, "Stage to start on")
	configFlag := flag.String("config", envCfg.ConfigDir, "Config directory (default: embedded configs)")
	backendFlag := flag.String("backend", "", "Physics backend: tiles or chipmunk (default: from tuning)")
	statsFlag := flag.String("stats", envCfg.StatsDB, "SQLite file for run stats (empty disables)")
	muteFlag := flag.Bool("mute", envCfg.Mute, "Disable audio")
	volumeFlag := flag.Float64("volume", 0.6, "Audio volume in [0, 1]")
	watchFlag := flag.Bool("watch", envCfg.Watch, "Reload tuning when files under -config change")
	recordFlag := flag.Bool("record", envCfg.Record, "Record input for replay")
	recordFile := flag.String("record-file", "", "Recording file (default: replay_<stage>_<time>.json)")
	replayFlag := flag.String("replay", "", "Run a recording headless and print a summary")
	flag.Parse()

	loader, err := newConfigLoader(*configFlag)
	if err != nil {
		log.Fatalf("Failed to open configs: %v", err)
	}
	cfg, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *replayFlag != "" {
		data, err := replay.LoadReplay(*replayFlag)
		if err != nil {
			log.Fatalf("Failed to load replay: %v", err)
		}
		backend := *backendFlag
		if backend == "" {
			backend = data.Backend
		}
		summary, err := runReplay(data, cfg, loader, backend)
		if err != nil {
			log.Fatalf("Replay failed: %v", err)
		}
		fmt.Println(summary)
		return
	}

	backend := *backendFlag
	if backend == "" {
		backend = cfg.Tuning.Physics.Backend
	}
	newWorld, err := worldFactory(backend)
	if err != nil {
		log.Fatalf("Failed to select physics: %v", err)
	}

	opts := playing.Options{
		Configs:    loader,
		Tuning:     cfg.Tuning,
		Entities:   cfg.Entities,
		NewWorld:   newWorld,
		Backend:    backend,
		Record:     *recordFlag,
		RecordPath: *recordFile,
	}

	if !*muteFlag {
		player := audio.NewCuePlayer(*volumeFlag)
		if err := player.Init(); err != nil {
			log.Printf("Audio: disabled: %v", err)
		} else {
			defer player.Close()
			opts.Presenter = player
		}
	}

	if *statsFlag != "" {
		store, err := sqlite.Open(*statsFlag)
		if err != nil {
			log.Printf("Stats: disabled: %v", err)
		} else {
			defer func() {
				if err := store.Close(); err != nil {
					log.Printf("Stats: close: %v", err)
				}
			}()
			opts.Stats = store
		}
	}

	if *watchFlag {
		if *configFlag == "" {
			log.Printf("Config: -watch needs -config, embedded configs cannot change")
		} else if w, err := config.NewWatcher(*configFlag); err != nil {
			log.Printf("Config: watch disabled: %v", err)
		} else {
			defer w.Close()
			updates := make(chan *config.TuningConfig, 4)
			go watchTuning(w, loader, updates)
			opts.TuningUpdates = updates
		}
	}

	first, err := playing.New(*stageFlag, opts)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	display := cfg.Tuning.Display
	g := game.New(first, display.ScreenWidth, display.ScreenHeight)
	defer g.Close()

	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Parallel Run")
	ebiten.SetTPS(ebiten.DefaultTPS)

	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		log.Printf("Game ended: %v", err)
	}
}
