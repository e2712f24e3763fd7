// Package desktop runs rounds in an ebiten window.
package desktop

import (
	"aimtrainer/internal/events"
	"aimtrainer/internal/gamedata"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	pad     = 8
	hudH    = 36
	footerH = 44
	buttonW = 110
	buttonH = 28
)

var (
	colBg       = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colBoard    = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colText     = color.RGBA{0x10, 0x10, 0x10, 0xff}
	colButton   = color.RGBA{0x4a, 0x90, 0xd9, 0xff}
	colDisabled = color.RGBA{0xaa, 0xaa, 0xaa, 0xff}
	colShade    = color.RGBA{0x00, 0x00, 0x00, 0x80}
)

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type modal struct {
	title   string
	message string
}

// Game is the ebiten window. It is the controller's surface, display and
// notifier, and drives ticks from its own update loop.
type Game struct {
	cfg    gamedata.Config
	sched  *gamedata.FrameScheduler
	driver *gamedata.Driver

	shapes    map[gamedata.ShapeID]gamedata.Circle
	nextShape gamedata.ShapeID

	timeLeft     int
	score        int
	accuracy     int
	best         int
	startEnabled bool
	modal        *modal
}

func New(cfg gamedata.Config, best gamedata.BestStore, bus *events.Bus) *Game {
	g := &Game{
		cfg:    cfg,
		sched:  gamedata.NewFrameScheduler(ebiten.DefaultTPS),
		shapes: make(map[gamedata.ShapeID]gamedata.Circle),
	}
	ui := gamedata.UI{Surface: g, Display: g, Notifier: g}
	g.driver = gamedata.NewDriver(gamedata.NewController(cfg, ui, best, bus), g.sched)
	return g
}

// Close abandons a round still running when the window goes away. Call it
// after ebiten.RunGame returns.
func (g *Game) Close() {
	g.driver.Abandon()
}

func (g *Game) Size() (int, int) {
	return g.cfg.Width + 2*pad, hudH + g.cfg.Height + footerH
}

func (g *Game) board() rect {
	return rect{x: pad, y: hudH, w: g.cfg.Width, h: g.cfg.Height}
}

func (g *Game) startButton() rect {
	return rect{x: pad, y: hudH + g.cfg.Height + (footerH-buttonH)/2, w: buttonW, h: buttonH}
}

func (g *Game) DrawCircle(c gamedata.Circle) gamedata.ShapeID {
	g.nextShape++
	g.shapes[g.nextShape] = c
	return g.nextShape
}

func (g *Game) Remove(id gamedata.ShapeID) { delete(g.shapes, id) }

func (g *Game) SetTime(seconds int)          { g.timeLeft = seconds }
func (g *Game) SetScore(hits int)            { g.score = hits }
func (g *Game) SetAccuracy(percent int)      { g.accuracy = percent }
func (g *Game) SetBest(best int)             { g.best = best }
func (g *Game) SetStartEnabled(enabled bool) { g.startEnabled = enabled }

func (g *Game) Notify(title, message string) {
	g.modal = &modal{title: title, message: message}
}

func (g *Game) Update() error {
	g.sched.Advance()

	clicked := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	if g.modal != nil {
		if clicked || inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.modal = nil
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.start()
	}
	if clicked {
		x, y := ebiten.CursorPosition()
		b := g.board()
		switch {
		case g.startButton().contains(x, y):
			g.start()
		case b.contains(x, y):
			g.driver.Click(x-b.x, y-b.y)
		}
	}
	return nil
}

func (g *Game) start() {
	if g.startEnabled {
		g.driver.Start()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBg)
	face := basicfont.Face7x13
	w, _ := g.Size()

	text.Draw(screen, fmt.Sprintf("Time: %d", g.timeLeft), face, pad, 24, colText)
	text.Draw(screen, fmt.Sprintf("Score: %d", g.score), face, pad+120, 24, colText)
	text.Draw(screen, fmt.Sprintf("Accuracy: %d%%", g.accuracy), face, pad+240, 24, colText)
	best := fmt.Sprintf("Best: %d", g.best)
	text.Draw(screen, best, face, w-pad-len(best)*7, 24, colText)

	b := g.board()
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), colBoard, false)
	for _, c := range g.shapes {
		cx, cy := float32(b.x+c.X), float32(b.y+c.Y)
		vector.DrawFilledCircle(screen, cx, cy, float32(c.R), parseHex(c.Fill), true)
		vector.StrokeCircle(screen, cx, cy, float32(c.R), float32(c.Width), parseHex(c.Outline), true)
	}

	btn := g.startButton()
	btnCol := colButton
	if !g.startEnabled {
		btnCol = colDisabled
	}
	vector.DrawFilledRect(screen, float32(btn.x), float32(btn.y), float32(btn.w), float32(btn.h), btnCol, false)
	text.Draw(screen, "Start", face, btn.x+btn.w/2-17, btn.y+19, color.White)
	text.Draw(screen, "Click the red target! (Space starts a round)", face, btn.x+btn.w+16, btn.y+19, colText)

	if g.modal != nil {
		g.drawModal(screen)
	}
}

func (g *Game) drawModal(screen *ebiten.Image) {
	sw, sh := g.Size()
	vector.DrawFilledRect(screen, 0, 0, float32(sw), float32(sh), colShade, false)

	lines := strings.Split(g.modal.message, "\n")
	bw, bh := 300, 80+len(lines)*18
	bx, by := (sw-bw)/2, (sh-bh)/2
	vector.DrawFilledRect(screen, float32(bx), float32(by), float32(bw), float32(bh), colBoard, false)
	vector.StrokeRect(screen, float32(bx), float32(by), float32(bw), float32(bh), 2, colText, false)

	face := basicfont.Face7x13
	text.Draw(screen, g.modal.title, face, bx+16, by+24, colText)
	for i, line := range lines {
		text.Draw(screen, line, face, bx+16, by+50+i*18, colText)
	}
	text.Draw(screen, "Click or press Enter to continue", face, bx+16, by+bh-14, colDisabled)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Size()
}

// parseHex reads a #rrggbb color, falling back to black.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{A: 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
