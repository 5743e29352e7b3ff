// Package testutil holds recording fakes shared by package tests.
package testutil

import (
	"sync"
	"time"

	"github.com/frudas24/deskpad/internal/control"
)

// FakeSink implements control.Sink and records commands for tests.
type FakeSink struct {
	mu       sync.Mutex
	Commands []control.Command
}

// Ensure FakeSink implements the interface.
var _ control.Sink = (*FakeSink)(nil)

// Send records cmd.
func (f *FakeSink) Send(cmd control.Command) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Commands = append(f.Commands, cmd)
}

// Types returns the recorded command types in order.
func (f *FakeSink) Types() []control.CommandType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]control.CommandType, 0, len(f.Commands))
	for _, cmd := range f.Commands {
		out = append(out, cmd.Type)
	}
	return out
}

// Take returns the recorded commands and forgets them.
func (f *FakeSink) Take() []control.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.Commands
	f.Commands = nil
	return out
}

// FakeTicker is a Ticker driven by FakeScheduler.Tick.
type FakeTicker struct {
	Interval time.Duration
	Stopped  bool
	fn       func()
}

// Stop marks the ticker stopped.
func (t *FakeTicker) Stop() {
	t.Stopped = true
}

// FakeScheduler implements control.Scheduler with manually fired ticks.
type FakeScheduler struct {
	Tickers []*FakeTicker
}

// Ensure FakeScheduler implements the interface.
var _ control.Scheduler = (*FakeScheduler)(nil)

// Every records a ticker without starting any goroutine.
func (s *FakeScheduler) Every(d time.Duration, fn func()) control.Ticker {
	t := &FakeTicker{Interval: d, fn: fn}
	s.Tickers = append(s.Tickers, t)
	return t
}

// Tick fires every running ticker once.
func (s *FakeScheduler) Tick() {
	for _, t := range s.Tickers {
		if !t.Stopped {
			t.fn()
		}
	}
}

// Running counts tickers that have not been stopped.
func (s *FakeScheduler) Running() int {
	n := 0
	for _, t := range s.Tickers {
		if !t.Stopped {
			n++
		}
	}
	return n
}

// FakeJoystick implements control.JoystickObserver.
type FakeJoystick struct {
	Views   []control.JoystickView
	Cleared int
}

// Ensure FakeJoystick implements the interface.
var _ control.JoystickObserver = (*FakeJoystick)(nil)

// JoystickChanged records the view.
func (f *FakeJoystick) JoystickChanged(view control.JoystickView) {
	f.Views = append(f.Views, view)
}

// JoystickCleared counts a clear.
func (f *FakeJoystick) JoystickCleared() {
	f.Cleared++
}
