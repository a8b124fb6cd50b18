package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

// fakeClock fires scheduled functions only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every timer that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

func newFake(window time.Duration) (*Debouncer, *fakeClock) {
	clock := &fakeClock{}
	return New(window, WithAfterFunc(clock.AfterFunc)), clock
}

func TestBurstCollapsesToLastCall(t *testing.T) {
	d, clock := newFake(500 * time.Millisecond)

	var calls []int
	for i := 1; i <= 10; i++ {
		v := i
		d.Trigger(func() { calls = append(calls, v) })
		clock.Advance(100 * time.Millisecond)
	}

	if len(calls) != 0 {
		t.Fatalf("No call expected inside the window, got %v", calls)
	}

	clock.Advance(400 * time.Millisecond)
	if len(calls) != 1 || calls[0] != 10 {
		t.Errorf("calls = %v, want [10]", calls)
	}

	clock.Advance(time.Second)
	if len(calls) != 1 {
		t.Errorf("Extra calls after the window: %v", calls)
	}
}

func TestSeparateBurstsFireSeparately(t *testing.T) {
	d, clock := newFake(500 * time.Millisecond)

	var calls []string
	d.Trigger(func() { calls = append(calls, "a") })
	clock.Advance(500 * time.Millisecond)
	d.Trigger(func() { calls = append(calls, "b") })
	clock.Advance(499 * time.Millisecond)
	if len(calls) != 1 {
		t.Fatalf("calls = %v, want [a]", calls)
	}
	clock.Advance(time.Millisecond)

	if len(calls) != 2 || calls[1] != "b" {
		t.Errorf("calls = %v, want [a b]", calls)
	}
}

func TestLateTimerCallbackIsIgnored(t *testing.T) {
	// A timer whose Stop lost the race still runs its callback; the
	// generation check must drop it.
	var scheduled []func()
	d := New(time.Second, WithAfterFunc(func(_ time.Duration, f func()) Timer {
		scheduled = append(scheduled, f)
		return stopNoop{}
	}))

	var got []int
	d.Trigger(func() { got = append(got, 1) })
	d.Trigger(func() { got = append(got, 2) })

	scheduled[0]()
	if len(got) != 0 {
		t.Fatalf("Stale callback ran: %v", got)
	}
	scheduled[1]()
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("got %v, want [2]", got)
	}
}

type stopNoop struct{}

func (stopNoop) Stop() bool { return false }

func TestFlush(t *testing.T) {
	d, clock := newFake(time.Second)

	if d.Flush() {
		t.Error("Flush with nothing pending should report false")
	}

	var n int
	d.Trigger(func() { n++ })
	if !d.Pending() {
		t.Fatal("Pending() should be true after Trigger")
	}
	if !d.Flush() {
		t.Fatal("Flush should report true")
	}
	if n != 1 || d.Pending() {
		t.Errorf("n = %d, pending = %v", n, d.Pending())
	}

	clock.Advance(2 * time.Second)
	if n != 1 {
		t.Errorf("Flushed call ran again, n = %d", n)
	}
}

func TestStop(t *testing.T) {
	d, clock := newFake(time.Second)

	var n int
	d.Trigger(func() { n++ })
	d.Stop()
	clock.Advance(2 * time.Second)

	d.Trigger(func() { n++ })
	clock.Advance(2 * time.Second)

	if n != 0 {
		t.Errorf("n = %d, want 0 after Stop", n)
	}
}

func TestZeroWindowRunsSynchronously(t *testing.T) {
	d := New(0)

	var n int
	d.Trigger(func() { n++ })
	d.Trigger(func() { n++ })
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}

	d.Stop()
	d.Trigger(func() { n++ })
	if n != 2 {
		t.Errorf("Trigger after Stop ran, n = %d", n)
	}
}

func TestRealTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := New(50 * time.Millisecond)
	defer d.Stop()

	var last atomic.Int64
	var count atomic.Int32
	var once sync.Once
	done := make(chan struct{})

	for i := int64(1); i <= 5; i++ {
		v := i
		d.Trigger(func() {
			last.Store(v)
			count.Add(1)
			once.Do(func() { close(done) })
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}

	if count.Load() != 1 || last.Load() != 5 {
		t.Errorf("count = %d, last = %d; want 1, 5", count.Load(), last.Load())
	}
}

func TestCallsNeverOverlap(t *testing.T) {
	d, clock := newFake(500 * time.Millisecond)

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	started := make(chan struct{})
	release := make(chan struct{})
	d.Trigger(func() {
		close(started)
		<-release
		record("old")
	})

	fired := make(chan struct{})
	go func() {
		clock.Advance(500 * time.Millisecond)
		close(fired)
	}()
	<-started

	d.Trigger(func() { record("new") })

	flushed := make(chan bool)
	go func() { flushed <- d.Flush() }()

	select {
	case <-flushed:
		t.Fatal("Flush ran while an earlier call was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	if !<-flushed {
		t.Error("Flush() = false, want true")
	}
	<-fired

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "old" || order[1] != "new" {
		t.Errorf("order = %v, want [old new]", order)
	}
}

func TestTimerQueuedBehindRunningCallIsDropped(t *testing.T) {
	d, clock := newFake(500 * time.Millisecond)

	started := make(chan struct{})
	release := make(chan struct{})
	d.Trigger(func() {
		close(started)
		<-release
	})

	firstDone := make(chan struct{})
	go func() {
		clock.Advance(500 * time.Millisecond)
		close(firstDone)
	}()
	<-started

	var ran atomic.Int32
	d.Trigger(func() { ran.Add(1) })

	flushed := make(chan struct{})
	go func() {
		d.Flush()
		close(flushed)
	}()
	close(release)
	<-flushed
	<-firstDone

	// The second call already ran through Flush; its timer must not run it again.
	clock.Advance(time.Second)
	if n := ran.Load(); n != 1 {
		t.Errorf("second call ran %d times, want 1", n)
	}
}
