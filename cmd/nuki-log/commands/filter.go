package commands

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nuki-esphome/nuki-go/pkg/eventlog"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output    string
	Session   string
	Event     string
	Category  string
	TimeStart string
	TimeEnd   string
}

// RunFilter filters the log file and writes matching records to a new
// file. It returns the number of records written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	if opts.Output == "" {
		return 0, errors.New("output file required")
	}
	if opts.Output == path {
		return 0, errors.New("output file must differ from input")
	}

	filter := eventlog.Filter{
		SessionID: opts.Session,
		Event:     opts.Event,
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return 0, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return 0, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return 0, err
		}
		filter.Category = &c
	}

	reader, err := eventlog.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := eventlog.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	count := 0
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Close()
			return count, fmt.Errorf("failed to read record: %w", err)
		}
		logger.Log(rec)
		count++
	}

	if n := logger.Errors(); n > 0 {
		logger.Close()
		return count - n, fmt.Errorf("failed to write %d record(s)", n)
	}
	return count, logger.Close()
}
