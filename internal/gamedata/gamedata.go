package gamedata

import (
	"aimtrainer/internal/config"
	"aimtrainer/internal/events"
	"aimtrainer/internal/targets"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
)

// Scene tells whether a round is in progress.
type Scene string

const (
	SceneIdle    = Scene("idle")
	SceneRunning = Scene("running")
)

// Target appearance.
const (
	TargetFill    = "#ff0000"
	TargetOutline = "#000000"
	OutlineWidth  = 2
)

// Config holds the board size in pixels, the target radius and the round length.
type Config struct {
	Width         int
	Height        int
	Radius        int
	RoundDuration int // seconds
}

// DefaultConfig is an 800x600 board, 30px targets and 30 second rounds.
func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		Radius:        30,
		RoundDuration: 30,
	}
}

// FromAppConfig builds the round configuration from the environment
// settings, falling back to the defaults when the board cannot hold a target.
func FromAppConfig(appCfg config.Config) Config {
	cfg := Config{
		Width:         appCfg.BoardWidth,
		Height:        appCfg.BoardHeight,
		Radius:        appCfg.TargetRadius,
		RoundDuration: appCfg.RoundDuration,
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[Config] %v, using defaults\n", err)
		return DefaultConfig()
	}
	return cfg
}

// Validate reports whether a target fits on the board with room to move.
func (c Config) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("target radius must be positive, got %d", c.Radius)
	}
	if c.RoundDuration <= 0 {
		return fmt.Errorf("round duration must be positive, got %d", c.RoundDuration)
	}
	minSide := 2*c.Radius + 2*targets.Margin
	if c.Width <= minSide || c.Height <= minSide {
		return fmt.Errorf("board %dx%d too small for radius %d", c.Width, c.Height, c.Radius)
	}
	return nil
}

// ShapeID identifies a shape drawn on a Surface.
type ShapeID int

// Circle is a filled, outlined circle centred on (X, Y).
type Circle struct {
	X, Y, R int
	Fill    string
	Outline string
	Width   int
}

// Surface draws and removes shapes on the board.
type Surface interface {
	DrawCircle(c Circle) ShapeID
	Remove(id ShapeID)
}

// Display shows the round's labels and toggles the start button.
type Display interface {
	SetTime(seconds int)
	SetScore(hits int)
	SetAccuracy(percent int)
	SetBest(best int)
	SetStartEnabled(enabled bool)
}

// Notifier shows a modal message.
type Notifier interface {
	Notify(title, message string)
}

// UI bundles everything the controller draws to.
type UI struct {
	Surface  Surface
	Display  Display
	Notifier Notifier
}

// BestStore persists the best score. Controllers sharing a store must see one
// best score, so SaveIfHigher compares and writes as a single step and
// returns the score on record afterwards.
type BestStore interface {
	Load() (int, error)
	SaveIfHigher(n int) (best int, saved bool, err error)
}

// State is a snapshot of the round.
type State struct {
	Scene       Scene
	Running     bool
	TimeLeft    int
	Hits        int
	TotalClicks int
	Accuracy    int
	Best        int
	Target      *targets.Target
	RoundID     string
}

// Controller owns one player's round state. It is not safe for concurrent
// use; callers dispatch every event from a single goroutine.
type Controller struct {
	cfg     Config
	bounds  targets.Bounds
	ui      UI
	best    BestStore
	bus     *events.Bus
	spawner targets.Spawner
	now     func() time.Time

	running   bool
	timeLeft  int
	hits      int
	clicks    int
	target    *targets.Target
	shape     ShapeID
	bestScore int
	roundID   string
	startedAt time.Time
}

// NewController loads the best score and shows the idle board.
func NewController(cfg Config, ui UI, best BestStore, bus *events.Bus) *Controller {
	c := &Controller{
		cfg:     cfg,
		bounds:  targets.BoundsFor(cfg.Width, cfg.Height, cfg.Radius),
		ui:      ui,
		best:    best,
		bus:     bus,
		spawner: targets.NewRandomSpawner(time.Now().UnixNano()),
		now:     time.Now,
	}
	c.bestScore = c.loadBest()
	c.ui.Display.SetTime(cfg.RoundDuration)
	c.ui.Display.SetBest(c.bestScore)
	c.ui.Display.SetStartEnabled(true)
	c.refreshScore()
	return c
}

func (c *Controller) SetSpawner(s targets.Spawner) {
	c.spawner = s
}

func (c *Controller) Best() int {
	return c.bestScore
}

func (c *Controller) State() State {
	s := State{
		Scene:       SceneIdle,
		Running:     c.running,
		TimeLeft:    c.timeLeft,
		Hits:        c.hits,
		TotalClicks: c.clicks,
		Accuracy:    Accuracy(c.hits, c.clicks),
		Best:        c.bestScore,
		RoundID:     c.roundID,
	}
	if c.running {
		s.Scene = SceneRunning
	}
	if c.target != nil {
		t := *c.target
		s.Target = &t
	}
	return s
}

// Start begins a round and asks for the first tick. A start request while a
// round is running is ignored and returns nil.
func (c *Controller) Start() *TickRequest {
	if c.running {
		return nil
	}
	c.timeLeft = c.cfg.RoundDuration
	c.hits = 0
	c.clicks = 0
	c.running = true
	c.roundID = uuid.NewString()
	c.startedAt = c.now()

	c.ui.Display.SetTime(c.timeLeft)
	c.refreshScore()
	c.ui.Display.SetStartEnabled(false)
	c.spawnTarget()

	c.bus.PublishRoundStarted(events.RoundStartedEvent{
		RoundID:   c.roundID,
		StartedAt: c.startedAt,
		Duration:  c.cfg.RoundDuration,
	})
	log.Printf("[Round] %s started (%ds)\n", c.roundID, c.cfg.RoundDuration)
	return &TickRequest{Delay: 0}
}

// Abandon stops a running round without scoring it, for a player who left
// before time ran out. The best score is not touched and no message is shown.
func (c *Controller) Abandon() {
	if !c.running {
		return
	}
	c.running = false
	c.removeTarget()

	c.bus.PublishRoundAbandoned(events.RoundAbandonedEvent{
		RoundID:     c.roundID,
		StartedAt:   c.startedAt,
		AbandonedAt: c.now(),
		Hits:        c.hits,
		Clicks:      c.clicks,
	})
	log.Printf("[Round] %s abandoned with %ds left\n", c.roundID, c.timeLeft)
}

func (c *Controller) OnClick(px, py int) {
	if !c.running {
		return
	}
	c.clicks++

	t := *c.target
	hit := t.Contains(px, py)
	if hit {
		c.hits++
		c.spawnTarget()
	}

	c.bus.PublishClick(events.ClickEvent{
		RoundID:   c.roundID,
		X:         px,
		Y:         py,
		TargetX:   t.X,
		TargetY:   t.Y,
		Radius:    t.Radius,
		Hit:       hit,
		SpawnedAt: t.SpawnedAt,
		ClickedAt: c.now(),
	})
	c.refreshScore()
}

// Tick shows the remaining time, then either ends the round or counts down
// and requests the next tick one second later.
func (c *Controller) Tick() *TickRequest {
	if !c.running {
		return nil
	}
	c.ui.Display.SetTime(c.timeLeft)
	if c.timeLeft <= 0 {
		c.endRound()
		return nil
	}
	c.timeLeft--
	return &TickRequest{Delay: time.Second}
}

func (c *Controller) spawnTarget() {
	c.removeTarget()
	t := c.spawner.Spawn(c.bounds)
	c.target = &t
	c.shape = c.ui.Surface.DrawCircle(Circle{
		X:       t.X,
		Y:       t.Y,
		R:       t.Radius,
		Fill:    TargetFill,
		Outline: TargetOutline,
		Width:   OutlineWidth,
	})
}

func (c *Controller) removeTarget() {
	if c.target == nil {
		return
	}
	c.ui.Surface.Remove(c.shape)
	c.target = nil
}

func (c *Controller) endRound() {
	c.running = false
	c.removeTarget()

	newRecord := c.recordBest()
	msg := fmt.Sprintf("Time's up!\nYour score: %d", c.hits)
	if newRecord {
		msg += "\nNew record!"
	}
	c.ui.Display.SetBest(c.bestScore)
	c.ui.Display.SetStartEnabled(true)
	c.refreshScore()

	c.bus.PublishRoundEnded(events.RoundEndedEvent{
		RoundID:   c.roundID,
		StartedAt: c.startedAt,
		EndedAt:   c.now(),
		Duration:  c.cfg.RoundDuration,
		Hits:      c.hits,
		Clicks:    c.clicks,
		Accuracy:  Accuracy(c.hits, c.clicks),
		Best:      c.bestScore,
		NewRecord: newRecord,
	})
	log.Printf("[Round] %s ended: %d hits / %d clicks (record: %t)\n", c.roundID, c.hits, c.clicks, newRecord)

	c.ui.Notifier.Notify("Round over", msg)
}

func (c *Controller) refreshScore() {
	c.ui.Display.SetScore(c.hits)
	c.ui.Display.SetAccuracy(Accuracy(c.hits, c.clicks))
}

func (c *Controller) loadBest() int {
	if c.best == nil {
		return 0
	}
	n, err := c.best.Load()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[Best] %v (starting from 0)\n", err)
		}
		return 0
	}
	return n
}

// recordBest offers the round's hits to the store and adopts the best score
// it reports, which may come from another controller. When the store fails
// the comparison falls back to the score held in memory.
func (c *Controller) recordBest() bool {
	if c.best != nil {
		best, saved, err := c.best.SaveIfHigher(c.hits)
		if err == nil {
			newRecord := saved && c.hits > c.bestScore
			c.bestScore = max(c.bestScore, best)
			return newRecord
		}
		log.Printf("[Best] %v\n", err)
	}
	if c.hits > c.bestScore {
		c.bestScore = c.hits
		return true
	}
	return false
}

// Accuracy is hits/clicks as a whole percentage, rounded half away from zero.
func Accuracy(hits, clicks int) int {
	if clicks <= 0 {
		return 0
	}
	return int(math.Round(float64(hits) / float64(clicks) * 100))
}
