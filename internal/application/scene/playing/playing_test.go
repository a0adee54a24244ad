package playing

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/parallelrun/internal/application/progress"
	"github.com/younwookim/parallelrun/internal/application/replay"
	"github.com/younwookim/parallelrun/internal/application/scene"
	"github.com/younwookim/parallelrun/internal/application/state"
	"github.com/younwookim/parallelrun/internal/application/system"
	"github.com/younwookim/parallelrun/internal/domain/entity"
	"github.com/younwookim/parallelrun/internal/infrastructure/config"
)

const frame = 1.0 / 60.0

// 16x6 tiles: checkpoint at x=6, spike at x=12, exit at x=14
const testStage = `{
  "id": "test",
  "name": "Test",
  "next": "second",
  "size": {"width": 256, "height": 96, "tileSize": 16},
  "background": {"color": "#102030"},
  "playerSpawn": {"x": 40, "y": 72},
  "layers": {"collision": [
    "################",
    "#..............#",
    "#..............#",
    "#..............#",
    "#...........^..#",
    "################"
  ]},
  "tileMapping": {"#": {"type": "wall", "solid": true}, "^": {"type": "spike"}},
  "triggers": [
    {"type": "checkpoint", "rect": {"x": 96, "y": 48, "w": 16, "h": 32}},
    {"type": "exit", "rect": {"x": 224, "y": 48, "w": 16, "h": 32}}
  ]
}`

const secondStage = `{
  "id": "second",
  "name": "Second",
  "size": {"width": 128, "height": 48, "tileSize": 16},
  "playerSpawn": {"x": 24, "y": 24},
  "layers": {"collision": ["########", "#......#", "########"]},
  "tileMapping": {"#": {"type": "wall", "solid": true}}
}`

type fakeKeys struct {
	pressed      map[ebiten.Key]bool
	justPressed  map[ebiten.Key]bool
	justReleased map[ebiten.Key]bool
	stick        float64
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{
		pressed:      make(map[ebiten.Key]bool),
		justPressed:  make(map[ebiten.Key]bool),
		justReleased: make(map[ebiten.Key]bool),
	}
}

func (k *fakeKeys) Pressed(key ebiten.Key) bool      { return k.pressed[key] }
func (k *fakeKeys) JustPressed(key ebiten.Key) bool  { return k.justPressed[key] }
func (k *fakeKeys) JustReleased(key ebiten.Key) bool { return k.justReleased[key] }
func (k *fakeKeys) Stick() float64                   { return k.stick }

func (k *fakeKeys) press(key ebiten.Key) {
	k.pressed[key] = true
	k.justPressed[key] = true
}

func (k *fakeKeys) release(key ebiten.Key) {
	delete(k.pressed, key)
	k.justReleased[key] = true
}

// endFrame clears the edge states, as a new ebiten tick would
func (k *fakeKeys) endFrame() {
	k.justPressed = make(map[ebiten.Key]bool)
	k.justReleased = make(map[ebiten.Key]bool)
}

type fakeStats struct {
	events []progress.Event
}

func (f *fakeStats) Record(_ context.Context, e progress.Event) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeStats) Summary(_ context.Context, level string) (progress.Summary, error) {
	var s progress.Summary
	for _, e := range f.events {
		if e.Level == level {
			s.Add(e.Kind, 1)
		}
	}
	return s, nil
}

func createTestOptions(keys *fakeKeys) Options {
	fsys := fstest.MapFS{
		"configs/stages/test.json":   {Data: []byte(testStage)},
		"configs/stages/second.json": {Data: []byte(secondStage)},
	}
	return Options{
		Configs: config.NewFSLoader(fsys, "configs"),
		Keys:    keys,
	}
}

func createTestPlaying(t *testing.T, opts Options) *Playing {
	t.Helper()
	p, err := New("test", opts)
	require.NoError(t, err)
	t.Cleanup(p.OnExit)
	return p
}

func update(t *testing.T, p *Playing, keys *fakeKeys) scene.Scene {
	t.Helper()
	next, err := p.Update(frame)
	require.NoError(t, err)
	keys.endFrame()
	return next
}

func TestPlaying_ImplementsScene(t *testing.T) {
	var _ scene.Scene = (*Playing)(nil)
}

func TestNew(t *testing.T) {
	t.Run("requires a config loader", func(t *testing.T) {
		_, err := New("test", Options{})
		assert.ErrorIs(t, err, ErrNoConfigs)
	})

	t.Run("reports unknown stages", func(t *testing.T) {
		_, err := New("missing", createTestOptions(newFakeKeys()))
		assert.Error(t, err)
	})

	t.Run("builds the session at the stage spawn", func(t *testing.T) {
		p := createTestPlaying(t, createTestOptions(newFakeKeys()))

		assert.Equal(t, "Test", p.Stage().Name)
		assert.Equal(t, entity.Vec2{X: 2.5, Y: 1.5}, p.Session().World().Position())
		assert.Nil(t, p.Recorder())
	})
}

func TestReadInput(t *testing.T) {
	tests := []struct {
		name  string
		setup func(k *fakeKeys)
		want  system.InputState
	}{
		{"idle", func(k *fakeKeys) {}, system.InputState{}},
		{"left", func(k *fakeKeys) { k.pressed[ebiten.KeyA] = true }, system.InputState{Axis: -1}},
		{"right arrow", func(k *fakeKeys) { k.pressed[ebiten.KeyArrowRight] = true }, system.InputState{Axis: 1}},
		{"opposing keys cancel", func(k *fakeKeys) {
			k.pressed[ebiten.KeyA] = true
			k.pressed[ebiten.KeyD] = true
			k.stick = 0.5
		}, system.InputState{}},
		{"stick without keys", func(k *fakeKeys) { k.stick = -0.4 }, system.InputState{Axis: -0.4}},
		{"stick is clamped", func(k *fakeKeys) { k.stick = 1.5 }, system.InputState{Axis: 1}},
		{"jump press", func(k *fakeKeys) { k.press(ebiten.KeySpace) }, system.InputState{JumpDown: true, JumpHeld: true}},
		{"jump release", func(k *fakeKeys) { k.justReleased[ebiten.KeyZ] = true }, system.InputState{JumpUp: true}},
		{"switching jump keys is not a release", func(k *fakeKeys) {
			k.justReleased[ebiten.KeyZ] = true
			k.pressed[ebiten.KeySpace] = true
		}, system.InputState{JumpHeld: true}},
		{"dash", func(k *fakeKeys) { k.press(ebiten.KeyShiftLeft) }, system.InputState{DashPressed: true}},
		{"held dash is not a new press", func(k *fakeKeys) { k.pressed[ebiten.KeyX] = true }, system.InputState{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := newFakeKeys()
			tt.setup(k)
			assert.Equal(t, tt.want, ReadInput(k))
		})
	}
}

func TestPlaying_Update(t *testing.T) {
	t.Run("stays on the scene while playing", func(t *testing.T) {
		keys := newFakeKeys()
		p := createTestPlaying(t, createTestOptions(keys))

		for i := 0; i < 30; i++ {
			assert.Nil(t, update(t, p, keys))
		}
		assert.True(t, p.Session().Controller().IsGrounded())
	})

	t.Run("moves with the keyboard", func(t *testing.T) {
		keys := newFakeKeys()
		p := createTestPlaying(t, createTestOptions(keys))
		start := p.Session().World().Position()

		keys.pressed[ebiten.KeyD] = true
		for i := 0; i < 20; i++ {
			update(t, p, keys)
		}

		assert.Greater(t, p.Session().World().Position().X, start.X)
	})

	t.Run("escape toggles pause", func(t *testing.T) {
		keys := newFakeKeys()
		p := createTestPlaying(t, createTestOptions(keys))

		keys.press(ebiten.KeyEscape)
		update(t, p, keys)
		assert.True(t, p.Session().Paused())

		keys.release(ebiten.KeyEscape)
		update(t, p, keys)
		keys.press(ebiten.KeyEscape)
		update(t, p, keys)
		assert.False(t, p.Session().Paused())
	})

	t.Run("restart reloads the same stage", func(t *testing.T) {
		keys := newFakeKeys()
		p := createTestPlaying(t, createTestOptions(keys))

		keys.press(ebiten.KeyR)
		next := update(t, p, keys)

		require.IsType(t, &Playing{}, next)
		n := next.(*Playing)
		t.Cleanup(n.OnExit)
		assert.Equal(t, "test", n.Stage().ID)
	})

	t.Run("enter advances after completion", func(t *testing.T) {
		keys := newFakeKeys()
		p := createTestPlaying(t, createTestOptions(keys))

		keys.press(ebiten.KeyEnter)
		update(t, p, keys)
		assert.Equal(t, state.StatePlaying, p.Session().Orchestrator().State(), "ignored before completion")

		p.Session().World().SetPosition(entity.Vec2{X: 14.5, Y: 1.5})
		update(t, p, keys)
		require.True(t, p.Session().Orchestrator().Completed())

		keys.press(ebiten.KeyEnter)
		var next scene.Scene
		for i := 0; i < 200 && next == nil; i++ {
			next = update(t, p, keys)
		}

		require.IsType(t, &Playing{}, next)
		n := next.(*Playing)
		t.Cleanup(n.OnExit)
		assert.Equal(t, "second", n.Stage().ID)
	})
}

func TestPlaying_Recording(t *testing.T) {
	keys := newFakeKeys()
	opts := createTestOptions(keys)
	opts.Record = true
	opts.RecordPath = filepath.Join(t.TempDir(), "run.json")
	opts.Backend = config.BackendTiles
	p := createTestPlaying(t, opts)

	keys.pressed[ebiten.KeyD] = true
	for i := 0; i < 10; i++ {
		update(t, p, keys)
	}
	keys.press(ebiten.KeyEscape)
	update(t, p, keys)
	for i := 0; i < 5; i++ {
		update(t, p, keys)
	}

	assert.Equal(t, 10, p.Recorder().FrameCount(), "paused frames are not recorded")

	p.OnExit()
	p.OnExit()

	data, err := replay.LoadReplay(opts.RecordPath)
	require.NoError(t, err)
	assert.Equal(t, "test", data.Stage)
	assert.Equal(t, config.BackendTiles, data.Backend)
	require.Len(t, data.Frames, 10)
	assert.Equal(t, 1.0, data.Frames[0].Ax)
	assert.False(t, p.Recorder().IsRecording())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder("test", "", frame)

	r.RecordFrame(system.InputState{Axis: 1, DashPressed: true})
	r.Stop()
	r.RecordFrame(system.InputState{Axis: -1})

	assert.Equal(t, 1, r.FrameCount())
	assert.False(t, r.IsRecording())
	assert.Equal(t, replay.FrameInput{F: 0, Ax: 1, Dsh: true}, r.GetData().Frames[0])
	assert.Contains(t, GenerateFilename("test"), "replay_test_")
}

func TestPlaying_TuningUpdates(t *testing.T) {
	keys := newFakeKeys()
	updates := make(chan *config.TuningConfig, 2)
	opts := createTestOptions(keys)
	opts.TuningUpdates = updates
	p := createTestPlaying(t, opts)

	cfg := config.DefaultTuning()
	cfg.Movement.MaxSpeed = 2
	updates <- nil
	updates <- cfg
	update(t, p, keys)

	assert.Same(t, cfg, p.Session().Tuning())

	close(updates)
	update(t, p, keys)
	assert.Nil(t, p.opts.TuningUpdates)
}

func TestPlaying_TracksStats(t *testing.T) {
	keys := newFakeKeys()
	stats := &fakeStats{}
	opts := createTestOptions(keys)
	opts.Stats = stats
	p := createTestPlaying(t, opts)

	p.Session().World().SetPosition(entity.Vec2{X: 12.5, Y: 1.5})
	update(t, p, keys)

	require.NotEmpty(t, stats.events)
	assert.Equal(t, progress.KindDeath, stats.events[0].Kind)
	assert.Equal(t, "test", stats.events[0].Level)
	assert.Equal(t, 1, p.Deaths())
	assert.Greater(t, p.feedback.shake, 0.0)
}

func TestFeedback(t *testing.T) {
	var f feedback

	f.play(entity.Cue{Kind: entity.CueLand, Strength: 2})
	sx, sy := f.scale()
	assert.InDelta(t, 1+squashAmount, sx, 1e-9)
	assert.InDelta(t, 1-squashAmount, sy, 1e-9)

	f.play(entity.Cue{Kind: entity.CueCheckpoint})
	assert.Equal(t, flashDuration, f.flash)

	f.update(1)
	assert.Zero(t, f.squash)
	assert.Zero(t, f.flash)

	f.play(entity.Cue{Kind: entity.CueWallBreak})
	f.play(entity.Cue{Kind: entity.CueDeath})
	f.play(entity.Cue{Kind: entity.CueWallBreak})
	assert.Equal(t, deathShake, f.shake)
}

func TestBackgroundColor(t *testing.T) {
	tests := []struct {
		in   string
		want [3]uint8
	}{
		{"#1a1c2c", [3]uint8{0x1a, 0x1c, 0x2c}},
		{"ffffff", [3]uint8{255, 255, 255}},
		{"", [3]uint8{colorBG.R, colorBG.G, colorBG.B}},
		{"#xyzxyz", [3]uint8{colorBG.R, colorBG.G, colorBG.B}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := backgroundColor(tt.in)
			assert.Equal(t, tt.want, [3]uint8{c.R, c.G, c.B})
			assert.Equal(t, uint8(255), c.A)
		})
	}
}
