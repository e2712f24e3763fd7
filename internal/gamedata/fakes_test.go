package gamedata

import (
	"errors"
	"time"
)

type fakeUI struct {
	shapes       map[ShapeID]Circle
	nextShape    ShapeID
	times        []int
	score        int
	accuracy     int
	best         int
	startEnabled bool
	notes        []string
}

func newFakeUI() *fakeUI {
	return &fakeUI{shapes: make(map[ShapeID]Circle)}
}

func (f *fakeUI) UI() UI {
	return UI{Surface: f, Display: f, Notifier: f}
}

func (f *fakeUI) DrawCircle(c Circle) ShapeID {
	f.nextShape++
	f.shapes[f.nextShape] = c
	return f.nextShape
}

func (f *fakeUI) Remove(id ShapeID)            { delete(f.shapes, id) }
func (f *fakeUI) SetTime(seconds int)          { f.times = append(f.times, seconds) }
func (f *fakeUI) SetScore(hits int)            { f.score = hits }
func (f *fakeUI) SetAccuracy(percent int)      { f.accuracy = percent }
func (f *fakeUI) SetBest(best int)             { f.best = best }
func (f *fakeUI) SetStartEnabled(enabled bool) { f.startEnabled = enabled }
func (f *fakeUI) Notify(title, message string) { f.notes = append(f.notes, message) }

type fakeStore struct {
	best    int
	loadErr error
	saveErr error
	saves   []int
}

func (s *fakeStore) Load() (int, error) {
	if s.loadErr != nil {
		return 0, s.loadErr
	}
	return s.best, nil
}

func (s *fakeStore) SaveIfHigher(n int) (int, bool, error) {
	if n <= s.best {
		return s.best, false, nil
	}
	s.saves = append(s.saves, n)
	if s.saveErr != nil {
		return s.best, false, s.saveErr
	}
	s.best = n
	return n, true, nil
}

var errDisk = errors.New("disk full")

type fakeScheduler struct {
	delays []time.Duration
	queue  []func()
}

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.queue = append(s.queue, fn)
}

// runNext pops and runs the oldest callback. It reports false if none was queued.
func (s *fakeScheduler) runNext() bool {
	if len(s.queue) == 0 {
		return false
	}
	fn := s.queue[0]
	s.queue = s.queue[1:]
	fn()
	return true
}
