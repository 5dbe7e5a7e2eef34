package executor

import (
	"sync"
	"time"
)

// Progress is one update emitted while a plan runs.
type Progress struct {
	Done    int
	Total   int
	Percent float64
	Message string
}

// ProgressObserver receives throttled progress updates. Implementations are
// called synchronously from whichever worker finished an item and must not
// block; wrap slow sinks with Buffered.
type ProgressObserver interface {
	OnProgress(Progress)
}

// LogObserver receives per-item log lines (conflict decisions, item errors).
type LogObserver interface {
	OnLog(level, message string)
}

// ProgressFunc adapts a function to ProgressObserver.
type ProgressFunc func(Progress)

func (f ProgressFunc) OnProgress(p Progress) { f(p) }

// LogFunc adapts a function to LogObserver.
type LogFunc func(level, message string)

func (f LogFunc) OnLog(level, message string) { f(level, message) }

// throttle gates intermediate progress updates: 0% and 100% always pass,
// everything else only when the percentage advanced by at least step points
// or at least interval elapsed since the last sent update. A suppressed
// update is held and flushed before completion so the final state is never
// dropped.
type throttle struct {
	mu       sync.Mutex
	observer ProgressObserver
	step     float64
	interval time.Duration
	now      func() time.Time

	lastPct float64
	lastAt  time.Time
	sent    bool
	pending *Progress
}

func newThrottle(observer ProgressObserver, step float64, interval time.Duration) *throttle {
	if step <= 0 {
		step = 5
	}
	if interval <= 0 {
		interval = 150 * time.Millisecond
	}
	return &throttle{observer: observer, step: step, interval: interval, now: time.Now}
}

func (t *throttle) publish(p Progress) {
	if t == nil || t.observer == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if p.Percent <= 0 || p.Percent >= 100 {
		t.sendLocked(p)
		return
	}
	if !t.sent || p.Percent-t.lastPct >= t.step || t.now().Sub(t.lastAt) >= t.interval {
		t.sendLocked(p)
		return
	}
	copied := p
	t.pending = &copied
}

// flush emits any held update. Called once before the run reports completion.
func (t *throttle) flush() {
	if t == nil || t.observer == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending != nil {
		t.sendLocked(*t.pending)
	}
}

func (t *throttle) sendLocked(p Progress) {
	t.observer.OnProgress(p)
	t.lastPct = p.Percent
	t.lastAt = t.now()
	t.sent = true
	t.pending = nil
}

// Buffered decouples a slow observer from the worker pool: updates are
// queued on a channel and delivered from a dedicated goroutine. When the
// queue fills, the oldest unsent update is dropped in favor of the newest.
type Buffered struct {
	ch   chan Progress
	done chan struct{}
}

// NewBuffered wraps observer with a queue of the given size (minimum 1).
// Close must be called to drain and stop the delivery goroutine.
func NewBuffered(observer ProgressObserver, size int) *Buffered {
	if size < 1 {
		size = 1
	}
	b := &Buffered{ch: make(chan Progress, size), done: make(chan struct{})}
	go func() {
		defer close(b.done)
		for p := range b.ch {
			observer.OnProgress(p)
		}
	}()
	return b
}

// OnProgress queues an update without blocking the caller.
func (b *Buffered) OnProgress(p Progress) {
	for {
		select {
		case b.ch <- p:
			return
		default:
			select {
			case <-b.ch:
			default:
			}
		}
	}
}

// Close drains pending updates and waits for delivery to finish.
func (b *Buffered) Close() {
	close(b.ch)
	<-b.done
}
