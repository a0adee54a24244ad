package main

import (
	"fmt"
	"strings"

	"github.com/younwookim/parallelrun/internal/application/event"
	"github.com/younwookim/parallelrun/internal/application/replay"
	"github.com/younwookim/parallelrun/internal/application/session"
	"github.com/younwookim/parallelrun/internal/application/state"
	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

// ReplaySummary describes how a headless replay ended
type ReplaySummary struct {
	Stage       string
	Backend     string
	Frames      int
	Steps       int
	Deaths      int
	Respawns    int
	Checkpoints int
	Completed   bool
	State       state.GameState
	Final       entity.Vec2
	Causes      []string
}

func (s ReplaySummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "stage %s (%s): %d frames, %d steps\n", s.Stage, s.Backend, s.Frames, s.Steps)
	fmt.Fprintf(&b, "deaths %d respawns %d checkpoints %d\n", s.Deaths, s.Respawns, s.Checkpoints)
	if len(s.Causes) > 0 {
		fmt.Fprintf(&b, "causes %s\n", strings.Join(s.Causes, ", "))
	}
	fmt.Fprintf(&b, "completed %t, state %s, final (%.3f, %.3f)", s.Completed, s.State, s.Final.X, s.Final.Y)
	return b.String()
}

// runReplay plays data through a fresh session without rendering. Frames
// are fed at the recorded frame length, so the fixed-step schedule matches
// the live run.
func runReplay(data *replay.ReplayData, cfg *config.GameConfig, loader *config.Loader, backend string) (ReplaySummary, error) {
	if backend == "" {
		backend = config.BackendTiles
	}
	newWorld, err := worldFactory(backend)
	if err != nil {
		return ReplaySummary{}, err
	}
	stageCfg, err := loader.LoadStage(data.Stage)
	if err != nil {
		return ReplaySummary{}, err
	}

	s, err := session.New(session.Options{
		Tuning:   cfg.Tuning,
		Entities: cfg.Entities,
		Stage:    stageCfg,
		NewWorld: newWorld,
	})
	if err != nil {
		return ReplaySummary{}, err
	}
	defer s.Close()

	summary := ReplaySummary{Stage: data.Stage, Backend: backend}

	var subs event.Group
	defer subs.Close()
	subs.Add(event.Bind(s.Orchestrator().OnPlayerDeath, func(e state.DeathEvent) {
		summary.Deaths++
		summary.Causes = append(summary.Causes, e.Cause)
	}))
	subs.Add(event.Bind(s.Orchestrator().OnPlayerRespawn, func(entity.Vec2) {
		summary.Respawns++
	}))
	subs.Add(event.Bind(s.OnCheckpoint, func(entity.Vec2) {
		summary.Checkpoints++
	}))

	r := replay.NewReplayer(*data)
	dt := r.FrameDt()
	for {
		in, ok := r.GetInput()
		if !ok {
			break
		}
		s.Step(in, dt)
	}

	summary.Frames = s.Frames()
	summary.Steps = s.Steps()
	summary.Completed = s.Orchestrator().Completed()
	summary.State = s.Orchestrator().State()
	summary.Final = s.World().Position()
	return summary, nil
}
