package lock

import (
	"context"
	"log/slog"

	"github.com/nuki-esphome/nuki-go/pkg/entity"
	"github.com/nuki-esphome/nuki-go/pkg/event"
)

// ActionRunner executes the automation actions bound to a trigger.
type ActionRunner interface {
	RunActions(ctx context.Context, trigger entity.Trigger, ev event.Event) error
}

// LogRunner logs the actions instead of executing them.
type LogRunner struct {
	Logger *slog.Logger
}

var _ ActionRunner = (*LogRunner)(nil)

// RunActions logs each action of the trigger.
func (r *LogRunner) RunActions(_ context.Context, trigger entity.Trigger, ev event.Event) error {
	for _, a := range trigger.Actions {
		r.Logger.Info("trigger action", "trigger", trigger.Key, "event", ev.Kind.String(), "action", a)
	}
	return nil
}

// dispatch runs the bound triggers for every event received on sub until
// the subscription closes or ctx is done.
func (c *Component) dispatch(ctx context.Context, sub *event.Subscription) error {
	byEvent := make(map[string][]entity.Trigger)
	for _, t := range c.device.Triggers() {
		byEvent[t.Event] = append(byEvent[t.Event], t)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			for _, t := range byEvent[ev.Kind.String()] {
				if err := c.runner.RunActions(ctx, t, ev); err != nil {
					c.logger.Error("trigger failed", "trigger", t.Key, "error", err)
				}
			}
		}
	}
}
