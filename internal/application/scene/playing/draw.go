package playing

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/younwookim/parallelrun/internal/application/state"
	"github.com/younwookim/parallelrun/internal/domain/entity"
)

// Colors for rendering
var (
	colorBG         = color.RGBA{26, 26, 46, 255}
	colorWall       = color.RGBA{80, 80, 100, 255}
	colorSpike      = color.RGBA{200, 50, 50, 255}
	colorPlayer     = color.RGBA{100, 200, 100, 255}
	colorDashing    = color.RGBA{120, 220, 255, 255}
	colorCharging   = color.RGBA{255, 220, 120, 255}
	colorFacing     = color.RGBA{240, 240, 240, 255}
	colorPlatform   = color.RGBA{140, 120, 90, 255}
	colorBreakable  = color.RGBA{170, 110, 70, 255}
	colorStalker    = color.RGBA{200, 100, 100, 255}
	colorCheckpoint = color.RGBA{60, 160, 90, 90}
	colorExit       = color.RGBA{200, 170, 0, 90}
	colorHazard     = color.RGBA{160, 40, 40, 90}
	colorBarBG      = color.RGBA{60, 60, 60, 255}
	colorStamina    = color.RGBA{100, 200, 100, 255}
	colorCharge     = color.RGBA{255, 200, 80, 255}
	colorDanger     = color.RGBA{220, 60, 60, 255}
	colorOverlay    = color.RGBA{0, 0, 0, 150}
	colorFlash      = color.RGBA{255, 255, 255, 60}
)

const (
	barWidth  = 80.0
	barHeight = 5.0
)

// renderer draws one frame. World y points up; the screen's points down.
type renderer struct {
	p          *Playing
	ts         float64 // pixels per world unit
	height     float64 // stage height in world units
	camX, camY float64
	screenW    int
	screenH    int
}

func newRenderer(p *Playing) *renderer {
	display := p.opts.Tuning.Display
	r := &renderer{
		p:       p,
		ts:      float64(display.TileSize),
		height:  float64(p.session.Stage().Height),
		screenW: display.ScreenWidth,
		screenH: display.ScreenHeight,
	}
	if r.ts <= 0 {
		r.ts = 16
	}
	r.placeCamera()
	return r
}

// placeCamera centers the character, clamped to the stage
func (r *renderer) placeCamera() {
	stage := r.p.session.Stage()
	x, y := r.pixel(r.p.session.World().Position())

	r.camX = clampCamera(x-float64(r.screenW)/2, float64(stage.Width)*r.ts-float64(r.screenW))
	r.camY = clampCamera(y-float64(r.screenH)/2, float64(stage.Height)*r.ts-float64(r.screenH))

	if shake := r.p.feedback.shake; shake > 0 {
		r.camX += math.Round(shake * (2*rand.Float64() - 1))
		r.camY += math.Round(shake * (2*rand.Float64() - 1))
	}
}

func clampCamera(v, limit float64) float64 {
	if limit <= 0 {
		return limit / 2
	}
	return entity.Clamp(v, 0, limit)
}

// pixel converts a world point to stage pixels
func (r *renderer) pixel(v entity.Vec2) (float64, float64) {
	return v.X * r.ts, (r.height - v.Y) * r.ts
}

func (r *renderer) toScreen(v entity.Vec2) (float64, float64) {
	x, y := r.pixel(v)
	return x - r.camX, y - r.camY
}

func (r *renderer) drawBox(screen *ebiten.Image, b entity.AABB, c color.Color) {
	x, y := r.toScreen(entity.Vec2{X: b.Min.X, Y: b.Max.Y})
	ebitenutil.DrawRect(screen, x, y, b.Width()*r.ts, b.Height()*r.ts, c)
}

func (r *renderer) draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor(r.p.stageCfg.Background.Color))

	r.drawTriggers(screen)
	r.drawTiles(screen)
	r.drawLevel(screen)
	r.drawCharacter(screen)

	if r.p.feedback.flash > 0 {
		ebitenutil.DrawRect(screen, 0, 0, float64(r.screenW), float64(r.screenH), colorFlash)
	}

	r.drawHUD(screen)
	if r.p.debug {
		r.drawDebug(screen)
	}
	r.drawOverlay(screen)
}

func (r *renderer) drawTiles(screen *ebiten.Image) {
	stage := r.p.session.Stage()
	for ty := 0; ty < stage.Height; ty++ {
		for tx := 0; tx < stage.Width; tx++ {
			tile := stage.GetTile(tx, ty)
			var c color.Color
			switch tile.Type {
			case entity.TileWall:
				c = colorWall
			case entity.TileSpike:
				c = colorSpike
			default:
				continue
			}

			x, y := r.toScreen(entity.Vec2{X: float64(tx), Y: float64(ty + 1)})
			if x+r.ts < 0 || y+r.ts < 0 || x > float64(r.screenW) || y > float64(r.screenH) {
				continue
			}
			if tile.Type == entity.TileSpike {
				// spikes sit in the lower half of their tile
				ebitenutil.DrawRect(screen, x, y+r.ts/2, r.ts, r.ts/2, c)
				continue
			}
			ebitenutil.DrawRect(screen, x, y, r.ts, r.ts, c)
		}
	}
}

func (r *renderer) drawTriggers(screen *ebiten.Image) {
	for _, t := range r.p.session.Level().GetTriggers() {
		switch t.Kind {
		case entity.TriggerCheckpoint:
			r.drawBox(screen, t.Box, colorCheckpoint)
		case entity.TriggerExit:
			r.drawBox(screen, t.Box, colorExit)
		case entity.TriggerHazard:
			r.drawBox(screen, t.Box, colorHazard)
		}
	}
}

func (r *renderer) drawLevel(screen *ebiten.Image) {
	level := r.p.session.Level()
	for _, p := range level.GetPlatforms() {
		r.drawBox(screen, p.Collider.Box, colorPlatform)
	}
	for _, w := range level.GetWalls() {
		if !w.Broken {
			r.drawBox(screen, w.Collider.Box, colorBreakable)
		}
	}
	for _, s := range level.GetStalkers() {
		if !s.Alive {
			continue
		}
		r.drawBox(screen, entity.NewAABB(s.Pos, 0.8, 0.8), colorStalker)
		// eye on the facing side
		eye := entity.Vec2{X: s.Pos.X - 0.2, Y: s.Pos.Y + 0.15}
		if s.FacingRight {
			eye.X = s.Pos.X + 0.2
		}
		r.drawBox(screen, entity.NewAABB(eye, 0.15, 0.15), colorFacing)
	}
}

func (r *renderer) drawCharacter(screen *ebiten.Image) {
	if !r.p.session.Visible() {
		return
	}

	snap := r.p.session.Controller().Snapshot()
	c := colorPlayer
	switch {
	case snap.IsDashing:
		c = colorDashing
	case snap.IsChargingJump:
		c = colorCharging
	}

	b := r.p.session.World().Bounds()
	sx, sy := r.p.feedback.scale()
	w, h := b.Width()*sx, b.Height()*sy
	feet := entity.Vec2{X: b.Center().X, Y: b.Min.Y}
	body := entity.AABB{
		Min: entity.Vec2{X: feet.X - w/2, Y: feet.Y},
		Max: entity.Vec2{X: feet.X + w/2, Y: feet.Y + h},
	}
	r.drawBox(screen, body, c)

	eye := entity.Vec2{X: feet.X + snap.Facing*w/4, Y: feet.Y + h*0.7}
	r.drawBox(screen, entity.NewAABB(eye, 0.15, 0.15), colorFacing)
}

func (r *renderer) drawBar(screen *ebiten.Image, x, y, frac float64, c color.Color) {
	ebitenutil.DrawRect(screen, x, y, barWidth, barHeight, colorBarBG)
	ebitenutil.DrawRect(screen, x, y, barWidth*entity.Clamp01(frac), barHeight, c)
}

func (r *renderer) drawHUD(screen *ebiten.Image) {
	s := r.p.session
	r.drawBar(screen, 8, 8, s.Controller().Stamina().Fraction(), colorStamina)
	if s.Controller().IsCharging() {
		r.drawBar(screen, 8, 16, s.Controller().ChargeFraction(), colorCharge)
	}
	if s.Danger().Active() {
		r.drawBar(screen, float64(r.screenW)-barWidth-8, 8, s.Danger().Level(), colorDanger)
	}

	label := fmt.Sprintf("%s  deaths %d", r.p.stageCfg.Name, r.p.deaths)
	if r.p.recorder != nil {
		label += "  REC"
	}
	ebitenutil.DebugPrintAt(screen, label, 8, 22)
}

func (r *renderer) drawDebug(screen *ebiten.Image) {
	s := r.p.session
	snap := s.Controller().Snapshot()
	pos := s.World().Position()
	lines := []string{
		fmt.Sprintf("pos %.2f,%.2f vel %.2f,%.2f", pos.X, pos.Y, snap.Velocity.X, snap.Velocity.Y),
		fmt.Sprintf("grounded %t dash %t charge %.2f", snap.Grounded, snap.IsDashing, snap.ChargeFraction),
		fmt.Sprintf("stamina %.1f/%.1f", s.Controller().Stamina().Current(), s.Controller().Stamina().Max()),
		fmt.Sprintf("state %s steps %d", s.Orchestrator().State(), s.Steps()),
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 8, 40)
}

func (r *renderer) drawOverlay(screen *ebiten.Image) {
	o := r.p.session.Orchestrator()
	var msg string
	switch o.State() {
	case state.StatePaused:
		msg = "PAUSED\nEsc to resume, R to restart"
	case state.StateLevelComplete:
		if o.Next() == "" {
			msg = "ALL LEVELS COMPLETE\nR to play again"
		} else {
			msg = "LEVEL COMPLETE\nEnter to continue"
		}
	case state.StateAdvancing:
		msg = "Loading " + o.Next() + "..."
	default:
		return
	}

	ebitenutil.DrawRect(screen, 0, 0, float64(r.screenW), float64(r.screenH), colorOverlay)
	ebitenutil.DebugPrintAt(screen, msg, r.screenW/2-64, r.screenH/2-8)
}

// backgroundColor parses "#rrggbb", falling back to the default background
func backgroundColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return colorBG
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return colorBG
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
