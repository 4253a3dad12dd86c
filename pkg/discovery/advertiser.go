package discovery

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/event"
)

// Advertiser registers and withdraws the pairing service.
type Advertiser interface {
	// Advertise starts advertising, replacing a running advertisement.
	Advertise(ctx context.Context, info *PairingInfo) error

	// Stop withdraws the advertisement. It is a no-op when none runs.
	Stop() error
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{TTL: 120 * time.Second}
}

// PairingWindow couples an Advertiser to the pairing events of a bus.
type PairingWindow struct {
	advertiser Advertiser
	info       PairingInfo
	timeout    time.Duration
	logger     *slog.Logger

	mu     sync.Mutex
	active bool
}

// NewPairingWindow creates a window advertising info for timeout after
// each PairingModeOn.
func NewPairingWindow(advertiser Advertiser, info PairingInfo, timeout time.Duration, logger *slog.Logger) *PairingWindow {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PairingWindow{
		advertiser: advertiser,
		info:       info,
		timeout:    timeout,
		logger:     logger,
	}
}

// Active reports whether the advertisement is registered.
func (w *PairingWindow) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Handle applies one event.
func (w *PairingWindow) Handle(ctx context.Context, ev event.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch ev.Kind {
	case event.PairingModeOn:
		info := w.info
		if w.timeout > 0 {
			info.Deadline = ev.Time.Add(w.timeout)
		}
		if err := w.advertiser.Advertise(ctx, &info); err != nil {
			return err
		}
		w.active = true
		w.logger.Info("advertising pairing service", "instance", info.InstanceName())

	case event.PairingModeOff, event.Paired:
		if !w.active {
			return nil
		}
		if err := w.advertiser.Stop(); err != nil {
			return err
		}
		w.active = false
		w.logger.Info("pairing service withdrawn", "reason", ev.Kind.String())
	}
	return nil
}

// Run handles events from sub until it closes or ctx is done. The
// advertisement is withdrawn on return.
func (w *PairingWindow) Run(ctx context.Context, sub *event.Subscription) error {
	defer func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.active {
			_ = w.advertiser.Stop()
			w.active = false
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			if err := w.Handle(ctx, ev); err != nil {
				w.logger.Error("pairing advertisement", "event", ev.Kind.String(), "error", err)
			}
		}
	}
}

// Subscribe returns a subscription for the events a PairingWindow handles.
func Subscribe(bus *event.Bus) (*event.Subscription, error) {
	return bus.Subscribe(event.PairingModeOn, event.PairingModeOff, event.Paired)
}
