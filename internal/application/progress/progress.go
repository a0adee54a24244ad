// Package progress records run statistics from the orchestrator's event
// channels.
package progress

import (
	"context"
	"log"
	"time"

	"github.com/younwookim/parallelrun/internal/application/event"
	"github.com/younwookim/parallelrun/internal/application/state"
	"github.com/younwookim/parallelrun/internal/domain/entity"
)

// recordTimeout bounds a single store write from the game loop
const recordTimeout = 2 * time.Second

// Kind names a recorded run event
type Kind string

const (
	KindDeath         Kind = "death"
	KindRespawn       Kind = "respawn"
	KindCheckpoint    Kind = "checkpoint"
	KindLevelComplete Kind = "level_complete"
)

// Event is one recorded run event
type Event struct {
	Level string
	Kind  Kind
	X, Y  float64
	Cause string
	At    time.Time
}

// Summary counts the events recorded for one level
type Summary struct {
	Deaths      int
	Respawns    int
	Checkpoints int
	Completions int
}

// Add counts one event of kind
func (s *Summary) Add(kind Kind, n int) {
	switch kind {
	case KindDeath:
		s.Deaths += n
	case KindRespawn:
		s.Respawns += n
	case KindCheckpoint:
		s.Checkpoints += n
	case KindLevelComplete:
		s.Completions += n
	}
}

// Recorder persists run events
type Recorder interface {
	Record(ctx context.Context, e Event) error
	Summary(ctx context.Context, level string) (Summary, error)
}

// Tracker forwards the orchestrator's events for one level to a Recorder.
// Store failures are logged and counted, never returned to the game loop.
type Tracker struct {
	recorder Recorder
	level    string
	now      func() time.Time
	subs     event.Group
	failures int
}

// NewTracker creates a tracker for level
func NewTracker(recorder Recorder, level string) *Tracker {
	return &Tracker{
		recorder: recorder,
		level:    level,
		now:      time.Now,
	}
}

// Attach subscribes to o's channels and, when non-nil, to checkpoints
func (t *Tracker) Attach(o *state.Orchestrator, checkpoints *event.Channel[entity.Vec2]) {
	t.subs.Add(event.Bind(o.OnPlayerDeath, func(e state.DeathEvent) {
		t.record(Event{Kind: KindDeath, X: e.At.X, Y: e.At.Y, Cause: e.Cause})
	}))
	t.subs.Add(event.Bind(o.OnPlayerRespawn, func(p entity.Vec2) {
		t.record(Event{Kind: KindRespawn, X: p.X, Y: p.Y})
	}))
	t.subs.Add(event.Bind(o.OnLevelCompleted, func(level string) {
		t.record(Event{Kind: KindLevelComplete})
	}))
	if checkpoints != nil {
		t.subs.Add(event.Bind(checkpoints, func(p entity.Vec2) {
			t.record(Event{Kind: KindCheckpoint, X: p.X, Y: p.Y})
		}))
	}
}

func (t *Tracker) record(e Event) {
	if t.recorder == nil {
		return
	}
	e.Level = t.level
	e.At = t.now()

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := t.recorder.Record(ctx, e); err != nil {
		t.failures++
		log.Printf("Progress: record %s for %s: %v", e.Kind, e.Level, err)
	}
}

// Summary returns the recorded counts for the tracked level
func (t *Tracker) Summary(ctx context.Context) (Summary, error) {
	if t.recorder == nil {
		return Summary{}, nil
	}
	return t.recorder.Summary(ctx, t.level)
}

// Failures returns how many writes failed
func (t *Tracker) Failures() int { return t.failures }

// Close drops every subscription
func (t *Tracker) Close() { t.subs.Close() }
