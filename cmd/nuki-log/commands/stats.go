package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/eventlog"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalRecords      int
	RecordsByCategory map[eventlog.Category]int
	Sessions          map[string]*SessionStats
	Transitions       map[string]int
	EntryTypes        map[string]int
	Actions           map[string]*ActionStats
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single runtime session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Records   int
}

// ActionStats aggregates the invocations of one action.
type ActionStats struct {
	Calls    int
	Failures int
	Attempts int
	Total    time.Duration
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := eventlog.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		RecordsByCategory: make(map[eventlog.Category]int),
		Sessions:          make(map[string]*SessionStats),
		Transitions:       make(map[string]int),
		EntryTypes:        make(map[string]int),
		Actions:           make(map[string]*ActionStats),
	}

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		stats.add(rec)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(rec eventlog.Record) {
	s.TotalRecords++
	s.RecordsByCategory[rec.Category]++

	if s.TimeRange.Start.IsZero() || rec.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = rec.Timestamp
	}
	if rec.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = rec.Timestamp
	}

	sess, ok := s.Sessions[rec.SessionID]
	if !ok {
		sess = &SessionStats{FirstSeen: rec.Timestamp, LastSeen: rec.Timestamp}
		s.Sessions[rec.SessionID] = sess
	}
	sess.Records++
	if rec.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = rec.Timestamp
	}

	switch {
	case rec.Transition != nil:
		s.Transitions[rec.Transition.Event]++
	case rec.Entry != nil:
		s.EntryTypes[rec.Entry.Type]++
	case rec.Action != nil:
		a, ok := s.Actions[rec.Action.Name]
		if !ok {
			a = &ActionStats{}
			s.Actions[rec.Action.Name] = a
		}
		a.Calls++
		a.Attempts += rec.Action.Attempts
		a.Total += rec.Action.Duration
		if rec.Action.Error != "" {
			a.Failures++
		}
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Lock Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalRecords > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Records: %d\n", stats.TotalRecords)
	fmt.Fprintf(w, "Sessions:      %d\n", len(stats.Sessions))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Records by Category:")
	for _, cat := range []eventlog.Category{eventlog.CategoryTransition, eventlog.CategoryEntry, eventlog.CategoryAction, eventlog.CategoryState} {
		if count := stats.RecordsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}

	printCounts(w, "Transitions:", stats.Transitions)
	printCounts(w, "Lock Log Entries:", stats.EntryTypes)

	if len(stats.Actions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Actions:")
		for _, name := range sortedKeys(stats.Actions) {
			a := stats.Actions[name]
			avg := a.Total / time.Duration(a.Calls)
			fmt.Fprintf(w, "  %-20s calls=%d failed=%d attempts=%d avg=%s\n",
				name, a.Calls, a.Failures, a.Attempts, formatDuration(avg))
		}
	}
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	for _, k := range sortedKeys(counts) {
		fmt.Fprintf(w, "  %-20s %d\n", k+":", counts[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
