package control

import (
	"sync"
	"time"
)

// Ticker is a running periodic task.
type Ticker interface {
	// Stop cancels the task. After Stop returns no further callback starts.
	Stop()
}

// Scheduler starts periodic tasks.
type Scheduler interface {
	Every(d time.Duration, fn func()) Ticker
}

// TimeScheduler runs tasks on time.Ticker goroutines. When Locker is set every callback runs
// with it held, which serializes ticks with event processing guarded by the same lock.
type TimeScheduler struct {
	Locker sync.Locker
}

// Every starts fn every d until the returned Ticker is stopped.
func (s TimeScheduler) Every(d time.Duration, fn func()) Ticker {
	t := &timeTicker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
		locker: s.Locker,
	}
	go t.run(fn)
	return t
}

// timeTicker is the Ticker returned by TimeScheduler.
type timeTicker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
	locker sync.Locker

	mu      sync.Mutex
	stopped bool
}

// run invokes fn per tick until stopped.
func (t *timeTicker) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			t.fire(fn)
		}
	}
}

// fire runs fn unless Stop was called, holding the locker if present.
func (t *timeTicker) fire(fn func()) {
	if t.locker != nil {
		t.locker.Lock()
		defer t.locker.Unlock()
	}
	if t.isStopped() {
		return
	}
	fn()
}

// isStopped reports whether Stop was called.
func (t *timeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Stop halts the ticker. It is safe to call more than once and from inside fn.
func (t *timeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
