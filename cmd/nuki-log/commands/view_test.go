package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nuki-esphome/nuki-go/pkg/eventlog"
)

func TestViewAllCategories(t *testing.T) {
	path := createTestLogFile(t, sampleRecords())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()

	want := []string{
		"2026-01-28T10:15:32.123456Z [sess:3f2a9c1e] TRANSITION pairing_mode_on",
		"ENTRY      #12 unlock",
		"  By: Keypad (auth 2)",
		"ACTION     lock OK",
		"  Duration: 12.000ms",
		"ACTION     unlock FAILED",
		"  Attempts: 5",
		"  Error: lock action failed",
		"STATE      locked",
		"  Door: door_closed",
		"  Battery: 18% (critical)",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n%s", w, out)
		}
	}
}

func TestViewFilterByCategory(t *testing.T) {
	path := createTestLogFile(t, sampleRecords())

	c, err := ParseCategoryFlag("action")
	if err != nil {
		t.Fatalf("ParseCategoryFlag failed: %v", err)
	}

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Category: &c}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := buf.String()

	if strings.Count(out, "ACTION") != 2 {
		t.Errorf("expected 2 action records:\n%s", out)
	}
	if strings.Contains(out, "TRANSITION") || strings.Contains(out, "STATE") {
		t.Errorf("unexpected categories in output:\n%s", out)
	}
}

func TestViewFilterByEvent(t *testing.T) {
	records := sampleRecords()
	records = append(records, eventlog.Record{
		Timestamp:  records[0].Timestamp.Add(10e9),
		SessionID:  testSession,
		Category:   eventlog.CategoryTransition,
		Transition: &eventlog.Transition{Event: "paired"},
	})
	path := createTestLogFile(t, records)

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Event: "paired"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	out := strings.TrimSpace(buf.String())

	if !strings.HasSuffix(out, "TRANSITION paired") {
		t.Errorf("expected only the paired transition, got:\n%s", out)
	}
	if strings.Contains(out, "pairing_mode_on") {
		t.Error("pairing_mode_on should be filtered out")
	}
}

func TestViewFilterBySession(t *testing.T) {
	path := createTestLogFile(t, sampleRecords())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Session: "other"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got:\n%s", buf.String())
	}
}

func TestParseCategoryFlag(t *testing.T) {
	tests := []struct {
		in   string
		want eventlog.Category
	}{
		{"transition", eventlog.CategoryTransition},
		{"ENTRY", eventlog.CategoryEntry},
		{"Action", eventlog.CategoryAction},
		{"state", eventlog.CategoryState},
	}
	for _, tt := range tests {
		got, err := ParseCategoryFlag(tt.in)
		if err != nil {
			t.Errorf("ParseCategoryFlag(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategoryFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestShortenID(t *testing.T) {
	if got := shortenID(testSession); got != "3f2a9c1e" {
		t.Errorf("shortenID = %q", got)
	}
	if got := shortenID("abc"); got != "abc" {
		t.Errorf("shortenID = %q", got)
	}
}
