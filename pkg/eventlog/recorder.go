package eventlog

import (
	"context"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/event"
)

// Recorder turns bus events into records for one session.
type Recorder struct {
	Logger    Logger
	SessionID string
	DeviceID  uint32
}

// Convert builds the record for ev.
func (r *Recorder) Convert(ev event.Event) Record {
	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	rec := Record{
		Timestamp: ts,
		SessionID: r.SessionID,
		DeviceID:  r.DeviceID,
	}
	if ev.Kind == event.EventLogReceived && ev.Entry != nil {
		rec.Category = CategoryEntry
		rec.Entry = &Entry{
			Index:     ev.Entry.Index,
			Timestamp: ev.Entry.Timestamp,
			AuthID:    ev.Entry.AuthID,
			Name:      ev.Entry.Name,
			Type:      ev.Entry.Type,
			Data:      ev.Entry.Data,
		}
		return rec
	}
	rec.Category = CategoryTransition
	rec.Transition = &Transition{Event: ev.Kind.String()}
	return rec
}

// Run records every event from sub until ctx is done or the subscription
// is closed.
func (r *Recorder) Run(ctx context.Context, sub *event.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.C():
			if !ok {
				return nil
			}
			r.Logger.Log(r.Convert(ev))
		}
	}
}
