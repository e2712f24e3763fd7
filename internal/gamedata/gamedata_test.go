package gamedata

import (
	"aimtrainer/internal/bestscore"
	"aimtrainer/internal/config"
	"aimtrainer/internal/events"
	"aimtrainer/internal/targets"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func testConfig(duration int) Config {
	cfg := DefaultConfig()
	cfg.RoundDuration = duration
	return cfg
}

func newTestController(t *testing.T, duration int, store BestStore) (*Controller, *fakeUI) {
	t.Helper()
	ui := newFakeUI()
	c := NewController(testConfig(duration), ui.UI(), store, nil)
	c.SetSpawner(&targets.FixedSpawner{Points: [][2]int{{400, 300}, {100, 100}, {700, 500}}})
	return c, ui
}

// playRound ticks until the round ends.
func playRound(c *Controller) {
	for c.Tick() != nil {
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	bad := []Config{
		{Width: 800, Height: 600, Radius: 0, RoundDuration: 30},
		{Width: 800, Height: 600, Radius: 30, RoundDuration: 0},
		{Width: 70, Height: 600, Radius: 30, RoundDuration: 30},
		{Width: 800, Height: 70, Radius: 30, RoundDuration: 30},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate(%+v) should fail", cfg)
		}
	}

	if err := (Config{Width: 71, Height: 71, Radius: 30, RoundDuration: 1}).Validate(); err != nil {
		t.Errorf("71x71 r=30 should fit: %v", err)
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.Config{BoardWidth: 50, BoardHeight: 50, TargetRadius: 30, RoundDuration: 30})
	if cfg != DefaultConfig() {
		t.Errorf("FromAppConfig() = %+v, want defaults", cfg)
	}

	cfg = FromAppConfig(config.Config{BoardWidth: 400, BoardHeight: 300, TargetRadius: 20, RoundDuration: 10})
	want := Config{Width: 400, Height: 300, Radius: 20, RoundDuration: 10}
	if cfg != want {
		t.Errorf("FromAppConfig() = %+v, want %+v", cfg, want)
	}
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		hits, clicks, want int
	}{
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
		{0, 5, 0},
		{5, 5, 100},
		{1, 8, 13}, // 12.5 rounds away from zero
	}
	for _, tc := range cases {
		if got := Accuracy(tc.hits, tc.clicks); got != tc.want {
			t.Errorf("Accuracy(%d, %d) = %d, want %d", tc.hits, tc.clicks, got, tc.want)
		}
	}
}

func TestNewController_LoadsBest(t *testing.T) {
	c, ui := newTestController(t, 30, &fakeStore{best: 12})

	if c.Best() != 12 {
		t.Errorf("Best() = %d, want 12", c.Best())
	}
	if ui.best != 12 {
		t.Errorf("displayed best = %d, want 12", ui.best)
	}
	if !ui.startEnabled {
		t.Error("start should be enabled while idle")
	}
	if c.State().Scene != SceneIdle {
		t.Errorf("Scene = %q, want %q", c.State().Scene, SceneIdle)
	}
}

func TestNewController_LoadFailureDefaultsToZero(t *testing.T) {
	c, ui := newTestController(t, 30, &fakeStore{best: 50, loadErr: errDisk})

	if c.Best() != 0 {
		t.Errorf("Best() = %d, want 0", c.Best())
	}
	if ui.best != 0 {
		t.Errorf("displayed best = %d, want 0", ui.best)
	}
}

func TestStart(t *testing.T) {
	c, ui := newTestController(t, 30, nil)

	req := c.Start()
	if req == nil {
		t.Fatal("Start() should request the first tick")
	}

	s := c.State()
	if !s.Running || s.Scene != SceneRunning {
		t.Error("round should be running")
	}
	if s.TimeLeft != 30 {
		t.Errorf("TimeLeft = %d, want 30", s.TimeLeft)
	}
	if s.Hits != 0 || s.TotalClicks != 0 {
		t.Errorf("Hits/TotalClicks = %d/%d, want 0/0", s.Hits, s.TotalClicks)
	}
	if s.Target == nil {
		t.Fatal("a target should exist while running")
	}
	if s.RoundID == "" {
		t.Error("RoundID should be set")
	}
	if len(ui.shapes) != 1 {
		t.Errorf("drawn shapes = %d, want 1", len(ui.shapes))
	}
	for _, circle := range ui.shapes {
		want := Circle{X: 400, Y: 300, R: 30, Fill: TargetFill, Outline: TargetOutline, Width: OutlineWidth}
		if circle != want {
			t.Errorf("circle = %+v, want %+v", circle, want)
		}
	}
	if ui.startEnabled {
		t.Error("start should be disabled while running")
	}
}

func TestStart_IdempotentWhileRunning(t *testing.T) {
	c, ui := newTestController(t, 30, nil)
	c.Start()
	c.Tick()
	c.OnClick(400, 300)
	c.OnClick(0, 0)

	before := c.State()
	shapes := len(ui.shapes)

	if req := c.Start(); req != nil {
		t.Error("Start() while running should not request a tick")
	}

	after := c.State()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("state changed on second Start:\nbefore %+v\nafter  %+v", before, after)
	}
	if len(ui.shapes) != shapes {
		t.Errorf("shapes = %d, want %d", len(ui.shapes), shapes)
	}
}

func TestOnClick_HitBoundary(t *testing.T) {
	c, ui := newTestController(t, 30, nil)
	c.Start()

	c.OnClick(431, 300)
	if s := c.State(); s.Hits != 0 || s.TotalClicks != 1 {
		t.Fatalf("after miss: Hits/TotalClicks = %d/%d, want 0/1", s.Hits, s.TotalClicks)
	}
	if s := c.State(); s.Target.X != 400 || s.Target.Y != 300 {
		t.Error("a miss should not move the target")
	}

	c.OnClick(430, 300)
	s := c.State()
	if s.Hits != 1 || s.TotalClicks != 2 {
		t.Fatalf("after hit: Hits/TotalClicks = %d/%d, want 1/2", s.Hits, s.TotalClicks)
	}
	if s.Target.X != 100 || s.Target.Y != 100 {
		t.Errorf("target = (%d,%d), want respawn at (100,100)", s.Target.X, s.Target.Y)
	}
	if len(ui.shapes) != 1 {
		t.Errorf("drawn shapes = %d, want exactly 1 after respawn", len(ui.shapes))
	}
	if ui.score != 1 || ui.accuracy != 50 {
		t.Errorf("display score/accuracy = %d/%d, want 1/50", ui.score, ui.accuracy)
	}
}

func TestOnClick_AccuracyDisplay(t *testing.T) {
	c, ui := newTestController(t, 30, nil)
	c.Start()

	c.OnClick(400, 300) // hit, target moves to (100,100)
	c.OnClick(0, 0)
	c.OnClick(1, 1)
	if ui.accuracy != 33 {
		t.Errorf("accuracy = %d, want 33", ui.accuracy)
	}

	c.OnClick(100, 100)
	if ui.accuracy != 50 {
		t.Errorf("accuracy = %d, want 50", ui.accuracy)
	}
}

func TestOnClick_IdleIsNoop(t *testing.T) {
	c, ui := newTestController(t, 1, nil)

	c.OnClick(400, 300)
	s := c.State()
	if s.Hits != 0 || s.TotalClicks != 0 || s.Target != nil {
		t.Errorf("click before first round changed state: %+v", s)
	}

	c.Start()
	c.OnClick(400, 300)
	playRound(c)

	ended := c.State()
	c.OnClick(100, 100)
	c.OnClick(5, 5)
	after := c.State()
	if !reflect.DeepEqual(ended, after) {
		t.Errorf("click after round end changed state:\nbefore %+v\nafter  %+v", ended, after)
	}
	if after.Target != nil || len(ui.shapes) != 0 {
		t.Error("no target should exist after the round ends")
	}
}

func TestTick_CountdownToEnd(t *testing.T) {
	c, ui := newTestController(t, 2, nil)
	c.Start()
	ui.times = nil

	var requests []*TickRequest
	for i := 0; i < 3; i++ {
		requests = append(requests, c.Tick())
	}

	if !reflect.DeepEqual(ui.times, []int{2, 1, 0}) {
		t.Errorf("displayed times = %v, want [2 1 0]", ui.times)
	}
	if requests[0] == nil || requests[1] == nil {
		t.Fatal("first two ticks should request another tick")
	}
	if requests[0].Delay != time.Second {
		t.Errorf("tick delay = %v, want 1s", requests[0].Delay)
	}
	if requests[2] != nil {
		t.Error("the tick that shows 0 should end the round without re-arming")
	}
	if c.State().Running {
		t.Error("round should have ended on the third tick")
	}
	if len(ui.notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(ui.notes))
	}

	if c.Tick() != nil {
		t.Error("tick after end should be a no-op")
	}
	if len(ui.notes) != 1 || len(ui.times) != 3 {
		t.Error("tick after end should not notify or update the time")
	}
	if c.State().TimeLeft != 0 {
		t.Errorf("TimeLeft = %d, want 0", c.State().TimeLeft)
	}
	if !ui.startEnabled {
		t.Error("start should be re-enabled after the round")
	}
}

func TestEndRound_BestScore(t *testing.T) {
	store := &fakeStore{best: 5}
	c, ui := newTestController(t, 1, store)
	c.SetSpawner(&targets.FixedSpawner{Points: [][2]int{{400, 300}}})

	c.Start()
	for i := 0; i < 7; i++ {
		c.OnClick(400, 300)
	}
	playRound(c)

	if c.Best() != 7 {
		t.Errorf("Best() = %d, want 7", c.Best())
	}
	if ui.best != 7 {
		t.Errorf("displayed best = %d, want 7", ui.best)
	}
	if !reflect.DeepEqual(store.saves, []int{7}) {
		t.Errorf("saves = %v, want [7]", store.saves)
	}
	if !strings.Contains(ui.notes[0], "Your score: 7") || !strings.Contains(ui.notes[0], "New record!") {
		t.Errorf("message = %q, want score 7 with record notice", ui.notes[0])
	}

	c.Start()
	for i := 0; i < 6; i++ {
		c.OnClick(400, 300)
	}
	playRound(c)

	if c.Best() != 7 {
		t.Errorf("Best() = %d, want 7", c.Best())
	}
	if len(store.saves) != 1 {
		t.Errorf("saves = %v, want no new save", store.saves)
	}
	if strings.Contains(ui.notes[1], "New record!") {
		t.Errorf("message = %q, should not announce a record", ui.notes[1])
	}
	if !strings.Contains(ui.notes[1], "Your score: 6") {
		t.Errorf("message = %q, want score 6", ui.notes[1])
	}
}

func TestEndRound_SaveFailureKeepsBestInMemory(t *testing.T) {
	store := &fakeStore{saveErr: errDisk}
	c, ui := newTestController(t, 1, store)

	c.Start()
	c.OnClick(400, 300)
	playRound(c)

	if c.Best() != 1 || ui.best != 1 {
		t.Errorf("best = %d (display %d), want 1", c.Best(), ui.best)
	}
	if !strings.Contains(ui.notes[0], "New record!") {
		t.Errorf("message = %q, want record notice", ui.notes[0])
	}
}

func TestEndRound_TieIsNotARecord(t *testing.T) {
	store := &fakeStore{best: 1}
	c, ui := newTestController(t, 1, store)

	c.Start()
	c.OnClick(400, 300)
	playRound(c)

	if strings.Contains(ui.notes[0], "New record!") {
		t.Errorf("equal score should not be a record: %q", ui.notes[0])
	}
	if len(store.saves) != 0 {
		t.Errorf("saves = %v, want none", store.saves)
	}
}

func TestController_PublishesEvents(t *testing.T) {
	bus := events.NewBus()
	ui := newFakeUI()
	c := NewController(testConfig(1), ui.UI(), nil, bus)
	c.SetSpawner(&targets.FixedSpawner{Points: [][2]int{{400, 300}}})

	c.Start()
	c.OnClick(400, 300)
	c.OnClick(10, 10)
	playRound(c)

	started := <-bus.RoundStarts
	if started.RoundID == "" || started.Duration != 1 {
		t.Errorf("RoundStarted = %+v", started)
	}

	hit := <-bus.Clicks
	miss := <-bus.Clicks
	if !hit.Hit || miss.Hit {
		t.Errorf("click hit flags = %t, %t; want true, false", hit.Hit, miss.Hit)
	}
	if hit.TargetX != 400 || hit.TargetY != 300 || hit.Radius != 30 {
		t.Errorf("hit target = (%d,%d) r=%d", hit.TargetX, hit.TargetY, hit.Radius)
	}
	if hit.RoundID != started.RoundID {
		t.Error("click should carry the round id")
	}

	ended := <-bus.RoundEnds
	if ended.Hits != 1 || ended.Clicks != 2 || ended.Accuracy != 50 || !ended.NewRecord {
		t.Errorf("RoundEnded = %+v", ended)
	}
}

func TestEndRound_SharedStoreNeverRegresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best.txt")
	if err := os.WriteFile(path, []byte("5"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := bestscore.NewFileStore(path)

	// Both controllers load 5 before either round is played.
	a, uiA := newTestController(t, 1, store)
	b, uiB := newTestController(t, 1, store)
	for _, c := range []*Controller{a, b} {
		c.SetSpawner(&targets.FixedSpawner{Points: [][2]int{{400, 300}}})
	}

	a.Start()
	for i := 0; i < 10; i++ {
		a.OnClick(400, 300)
	}
	playRound(a)

	b.Start()
	for i := 0; i < 7; i++ {
		b.OnClick(400, 300)
	}
	playRound(b)

	if n, err := store.Load(); err != nil || n != 10 {
		t.Errorf("stored best = %d, %v; want 10", n, err)
	}
	if !strings.Contains(uiA.notes[0], "New record!") {
		t.Errorf("first controller message = %q, want record notice", uiA.notes[0])
	}
	if strings.Contains(uiB.notes[0], "New record!") {
		t.Errorf("7 hits after a 10 should not be a record: %q", uiB.notes[0])
	}
	if b.Best() != 10 || uiB.best != 10 {
		t.Errorf("second controller best = %d (display %d), want 10", b.Best(), uiB.best)
	}
}

func TestAbandon(t *testing.T) {
	bus := events.NewBus()
	store := &fakeStore{best: 0}
	ui := newFakeUI()
	c := NewController(testConfig(30), ui.UI(), store, bus)
	c.SetSpawner(&targets.FixedSpawner{Points: [][2]int{{400, 300}}})

	c.Start()
	c.Tick()
	c.OnClick(400, 300)
	c.OnClick(400, 300)
	c.Abandon()

	if c.State().Running || c.State().Target != nil {
		t.Errorf("state after Abandon = %+v, want stopped without a target", c.State())
	}
	if c.Tick() != nil {
		t.Error("a queued tick after Abandon should not re-arm")
	}
	if len(store.saves) != 0 || c.Best() != 0 {
		t.Errorf("abandoned round touched the best score: saves %v, best %d", store.saves, c.Best())
	}
	if len(ui.notes) != 0 {
		t.Errorf("abandoned round should not notify, got %v", ui.notes)
	}
	if len(ui.shapes) != 0 {
		t.Errorf("shapes left on the board = %d, want 0", len(ui.shapes))
	}

	started := <-bus.RoundStarts
	select {
	case ev := <-bus.RoundAbandons:
		if ev.RoundID != started.RoundID || ev.Hits != 2 || ev.Clicks != 2 {
			t.Errorf("RoundAbandoned = %+v", ev)
		}
	default:
		t.Fatal("Abandon should publish RoundAbandoned")
	}
	if len(bus.RoundEnds) != 0 {
		t.Error("Abandon should not publish RoundEnded")
	}

	c.Abandon()
	if len(bus.RoundAbandons) != 0 {
		t.Error("Abandon while idle should do nothing")
	}
	if c.Start() == nil {
		t.Error("a new round should start after Abandon")
	}
}
