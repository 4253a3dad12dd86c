// Package commands implements the nuki-log CLI commands.
package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/eventlog"
)

// ViewFilter specifies criteria for filtering records in the view command.
type ViewFilter struct {
	Category *eventlog.Category
	Event    string
	Session  string
}

func (f ViewFilter) reader(path string) (*eventlog.Reader, error) {
	return eventlog.NewFilteredReader(path, eventlog.Filter{
		SessionID: f.Session,
		Category:  f.Category,
		Event:     f.Event,
	})
}

// formatRecord writes a human-readable representation of the record to w.
func formatRecord(w io.Writer, rec eventlog.Record) {
	// Header line: timestamp [sess:id] CATEGORY summary
	ts := rec.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [sess:%s] %-10s %s\n", ts, shortenID(rec.SessionID), rec.Category, summary(rec))

	switch {
	case rec.Entry != nil:
		formatEntryDetails(w, rec.Entry)
	case rec.Action != nil:
		formatActionDetails(w, rec.Action)
	case rec.State != nil:
		formatStateDetails(w, rec.State)
	}

	fmt.Fprintln(w)
}

// summary is the one-line description of a record.
func summary(rec eventlog.Record) string {
	switch {
	case rec.Transition != nil:
		return rec.Transition.Event
	case rec.Entry != nil:
		return fmt.Sprintf("#%d %s", rec.Entry.Index, rec.Entry.Type)
	case rec.Action != nil:
		if rec.Action.Error != "" {
			return rec.Action.Name + " FAILED"
		}
		return rec.Action.Name + " OK"
	case rec.State != nil:
		return rec.State.LockState
	}
	return "Unknown"
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatEntryDetails(w io.Writer, e *eventlog.Entry) {
	if !e.Timestamp.IsZero() {
		fmt.Fprintf(w, "  Lock time: %s\n", e.Timestamp.UTC().Format(time.RFC3339))
	}
	if e.Name != "" {
		fmt.Fprintf(w, "  By: %s (auth %d)\n", e.Name, e.AuthID)
	} else if e.AuthID != 0 {
		fmt.Fprintf(w, "  Auth: %d\n", e.AuthID)
	}
	if len(e.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s\n", hex.EncodeToString(e.Data))
	}
}

func formatActionDetails(w io.Writer, a *eventlog.Action) {
	fmt.Fprintf(w, "  Attempts: %d\n", a.Attempts)
	fmt.Fprintf(w, "  Duration: %s\n", formatDuration(a.Duration))
	if a.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", a.Error)
	}
}

func formatStateDetails(w io.Writer, s *eventlog.State) {
	if s.DoorState != "" {
		fmt.Fprintf(w, "  Door: %s\n", s.DoorState)
	}
	fmt.Fprintf(w, "  Battery: %d%%", s.BatteryLevel)
	if s.BatteryCritical {
		fmt.Fprint(w, " (critical)")
	}
	fmt.Fprintln(w)
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (eventlog.Category, error) {
	c, ok := eventlog.ParseCategory(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be transition, entry, action, or state)", s)
	}
	return c, nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := filter.reader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		formatRecord(output, rec)
	}
}
