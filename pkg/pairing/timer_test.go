package pairing

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuki-esphome/nuki-go/pkg/event"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Kind
}

func (r *recorder) Publish(ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev.Kind)
}

func (r *recorder) count(k event.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == k {
			n++
		}
	}
	return n
}

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(s float64) time.Time {
	return t0.Add(time.Duration(s * float64(time.Second)))
}

func newTimer(t *testing.T, rec *recorder) *Timer {
	t.Helper()
	tm, err := New(Config{Timeout: 300 * time.Second, Publisher: rec})
	require.NoError(t, err)
	return tm
}

func TestTimer_TimeoutAtFirstPollAfterDeadline(t *testing.T) {
	rec := &recorder{}
	tm := newTimer(t, rec)

	require.True(t, tm.Enable(at(0)))
	assert.Equal(t, Pairing, tm.Mode())
	assert.Equal(t, at(300), tm.State().Deadline)

	for s := 0.5; s < 300; s += 0.5 {
		tm.Poll(at(s))
		require.Equal(t, Pairing, tm.Mode(), "t=%v", s)
	}
	assert.Equal(t, 0, rec.count(event.PairingModeOff))

	assert.True(t, tm.Poll(at(300)))
	assert.Equal(t, Normal, tm.Mode())
	assert.True(t, tm.State().Deadline.IsZero())

	tm.Poll(at(300.5))
	tm.Poll(at(600))
	assert.Equal(t, 1, rec.count(event.PairingModeOn))
	assert.Equal(t, 1, rec.count(event.PairingModeOff))
}

// A poll tick that lands late still fires exactly once.
func TestTimer_LateTick(t *testing.T) {
	rec := &recorder{}
	tm := newTimer(t, rec)

	tm.Enable(at(0))
	tm.Poll(at(299.9))
	assert.Equal(t, Pairing, tm.Mode())
	tm.Poll(at(300.4))
	assert.Equal(t, Normal, tm.Mode())
	assert.Equal(t, 1, rec.count(event.PairingModeOff))
}

func TestTimer_ExplicitDisable(t *testing.T) {
	rec := &recorder{}
	tm := newTimer(t, rec)

	tm.Enable(at(0))
	require.True(t, tm.Disable(at(50)))
	assert.Equal(t, Normal, tm.Mode())
	assert.Equal(t, 1, rec.count(event.PairingModeOff))

	assert.False(t, tm.Poll(at(300)))
	assert.False(t, tm.Poll(at(301)))
	assert.Equal(t, Normal, tm.Mode())
	assert.Equal(t, 1, rec.count(event.PairingModeOff))
}

func TestTimer_DisableInNormalIsNoop(t *testing.T) {
	rec := &recorder{}
	tm := newTimer(t, rec)

	assert.False(t, tm.Disable(at(0)))
	assert.Empty(t, rec.events)
}

func TestTimer_EnableWhilePairingKeepsDeadline(t *testing.T) {
	rec := &recorder{}
	tm := newTimer(t, rec)

	tm.Enable(at(0))
	assert.False(t, tm.Enable(at(100)))
	assert.Equal(t, at(300), tm.State().Deadline)
	assert.Equal(t, 1, rec.count(event.PairingModeOn))
	assert.Equal(t, 200*time.Second, tm.Remaining(at(100)))
}

func TestTimer_PairedDoesNotTransition(t *testing.T) {
	rec := &recorder{}
	tm := newTimer(t, rec)

	tm.Enable(at(0))
	tm.Paired(at(10))
	assert.Equal(t, Pairing, tm.Mode())
	assert.Equal(t, []event.Kind{event.PairingModeOn, event.Paired}, rec.events)
}

func TestTimer_Set(t *testing.T) {
	var modes []Mode
	tm, err := New(Config{OnChange: func(m Mode) { modes = append(modes, m) }})
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeout, tm.Timeout())
	tm.Set(at(0), true)
	tm.Set(at(1), false)
	tm.Set(at(2), false)
	assert.Equal(t, []Mode{Pairing, Normal}, modes)
	assert.Equal(t, time.Duration(0), tm.Remaining(at(3)))
}

func TestNew_InvalidTimeout(t *testing.T) {
	_, err := New(Config{Timeout: -time.Second})
	assert.ErrorIs(t, err, ErrInvalidTimeout)
}

// Concurrent disable and expiry never produce two Off events.
func TestTimer_ConcurrentDisableAndPoll(t *testing.T) {
	for i := 0; i < 50; i++ {
		rec := &recorder{}
		tm := newTimer(t, rec)
		tm.Enable(at(0))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			tm.Poll(at(300))
		}()
		go func() {
			defer wg.Done()
			tm.Disable(at(300))
		}()
		wg.Wait()

		require.Equal(t, 1, rec.count(event.PairingModeOff))
	}
}

// hookHandler runs fn for every log record, inside the logging call.
type hookHandler struct{ fn func(msg string) }

func (h hookHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h hookHandler) Handle(_ context.Context, r slog.Record) error {
	h.fn(r.Message)
	return nil
}
func (h hookHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h hookHandler) WithGroup(string) slog.Handler      { return h }

// A Disable racing an Enable between its transition and its events still
// publishes in transition order.
func TestTimer_EventsFollowTransitionOrder(t *testing.T) {
	rec := &recorder{}
	var (
		mu      sync.Mutex
		changes []Mode
		wg      sync.WaitGroup
		tm      *Timer
	)

	logger := slog.New(hookHandler{fn: func(msg string) {
		if msg != "pairing mode on" {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Disable(at(1))
		}()
		// Give the concurrent Disable time to run inside the window.
		time.Sleep(20 * time.Millisecond)
	}})

	tm, err := New(Config{
		Timeout:   300 * time.Second,
		Publisher: rec,
		Logger:    logger,
		OnChange: func(m Mode) {
			mu.Lock()
			changes = append(changes, m)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	require.True(t, tm.Enable(at(0)))
	wg.Wait()

	assert.Equal(t, Normal, tm.Mode())
	rec.mu.Lock()
	assert.Equal(t, []event.Kind{event.PairingModeOn, event.PairingModeOff}, rec.events)
	rec.mu.Unlock()
	mu.Lock()
	assert.Equal(t, []Mode{Pairing, Normal}, changes)
	mu.Unlock()
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestTimer_RunPollsUntilCancelled(t *testing.T) {
	bus := event.NewBus(4)
	defer bus.Close()
	sub, err := bus.Subscribe(event.PairingModeOff)
	require.NoError(t, err)

	tm, err := New(Config{
		Timeout:      time.Second,
		PollInterval: 5 * time.Millisecond,
		Clock:        fixedClock{now: at(10)},
		Publisher:    bus,
	})
	require.NoError(t, err)
	tm.Enable(at(0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tm.Run(ctx) }()

	select {
	case ev := <-sub.C():
		assert.Equal(t, event.PairingModeOff, ev.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no PairingModeOff from Run")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, Normal, tm.Mode())
}
