package eventlog

import (
	"context"
	"log/slog"
)

// SlogAdapter writes records to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the record.
func (a *SlogAdapter) Log(rec Record) {
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "lock", Attrs(rec)...)
}

// Attrs flattens a record into slog attributes.
func Attrs(rec Record) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("session", rec.SessionID),
		slog.String("category", rec.Category.String()),
	}

	switch {
	case rec.Transition != nil:
		attrs = append(attrs, slog.String("event", rec.Transition.Event))
	case rec.Entry != nil:
		attrs = append(attrs,
			slog.Uint64("index", uint64(rec.Entry.Index)),
			slog.String("type", rec.Entry.Type),
		)
		if rec.Entry.Name != "" {
			attrs = append(attrs, slog.String("name", rec.Entry.Name))
		}
	case rec.Action != nil:
		attrs = append(attrs,
			slog.String("action", rec.Action.Name),
			slog.Int("attempts", rec.Action.Attempts),
			slog.Duration("duration", rec.Action.Duration),
		)
		if rec.Action.Error != "" {
			attrs = append(attrs, slog.String("error", rec.Action.Error))
		}
	case rec.State != nil:
		attrs = append(attrs,
			slog.String("lock_state", rec.State.LockState),
			slog.String("door_state", rec.State.DoorState),
			slog.Bool("battery_critical", rec.State.BatteryCritical),
			slog.Uint64("battery_level", uint64(rec.State.BatteryLevel)),
		)
	}
	return attrs
}

var _ Logger = (*SlogAdapter)(nil)
