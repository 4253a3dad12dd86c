package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/eventlog"
)

func TestStats(t *testing.T) {
	records := sampleRecords()
	records = append(records, eventlog.Record{
		Timestamp: records[0].Timestamp.Add(time.Minute),
		SessionID: "second-session",
		Category:  eventlog.CategoryAction,
		Action:    &eventlog.Action{Name: "lock", Attempts: 2, Duration: 28 * time.Millisecond},
	})
	path := createTestLogFile(t, records)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	out := buf.String()

	want := []string{
		"Total Records: 6",
		"Sessions:      2",
		"Duration:   1m0s",
		"  TRANSITION:  1",
		"  ENTRY:       1",
		"  ACTION:      3",
		"  STATE:       1",
		"  pairing_mode_on:     1",
		"  unlock:              1",
		"  lock                 calls=2 failed=0 attempts=3 avg=20.000ms",
		"  unlock               calls=1 failed=1 attempts=5 avg=2.000s",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n%s", w, out)
		}
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Total Records: 0") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Time Range") {
		t.Error("empty log should not print a time range")
	}
}
