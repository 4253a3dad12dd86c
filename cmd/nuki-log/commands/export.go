package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/eventlog"
)

// RunExport exports the log file to the specified format. An empty output
// writes to stdout.
func RunExport(path, format, output string) error {
	reader, err := eventlog.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func each(reader *eventlog.Reader, fn func(eventlog.Record) error) error {
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// jsonRecord is the JSON representation of a record. The category is
// written by name.
type jsonRecord struct {
	Timestamp  time.Time            `json:"timestamp"`
	SessionID  string               `json:"session_id"`
	DeviceID   uint32               `json:"device_id,omitempty"`
	Category   string               `json:"category"`
	Transition *eventlog.Transition `json:"transition,omitempty"`
	Entry      *eventlog.Entry      `json:"entry,omitempty"`
	Action     *eventlog.Action     `json:"action,omitempty"`
	State      *eventlog.State      `json:"state,omitempty"`
}

func exportJSONL(reader *eventlog.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return each(reader, func(rec eventlog.Record) error {
		out := jsonRecord{
			Timestamp:  rec.Timestamp,
			SessionID:  rec.SessionID,
			DeviceID:   rec.DeviceID,
			Category:   rec.Category.String(),
			Transition: rec.Transition,
			Entry:      rec.Entry,
			Action:     rec.Action,
			State:      rec.State,
		}
		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		return nil
	})
}

func exportCSV(reader *eventlog.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "device_id", "category", "name", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	err := each(reader, func(rec eventlog.Record) error {
		name, detail := "", ""
		switch {
		case rec.Transition != nil:
			name = rec.Transition.Event
		case rec.Entry != nil:
			name = rec.Entry.Type
			detail = strconv.FormatUint(uint64(rec.Entry.Index), 10)
		case rec.Action != nil:
			name = rec.Action.Name
			detail = rec.Action.Error
		case rec.State != nil:
			name = rec.State.LockState
			detail = rec.State.DoorState
		}
		row := []string{
			rec.Timestamp.UTC().Format(time.RFC3339Nano),
			rec.SessionID,
			strconv.FormatUint(uint64(rec.DeviceID), 10),
			rec.Category.String(),
			name,
			detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
