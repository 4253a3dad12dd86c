package eventlog

// Logger receives runtime records. Implementations must be safe for
// concurrent use and should not block.
type Logger interface {
	Log(rec Record)
}

// NoopLogger discards all records. It is usable as a zero value.
type NoopLogger struct{}

// Log discards the record.
func (NoopLogger) Log(Record) {}

var _ Logger = NoopLogger{}

// MultiLogger sends records to several loggers.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// Log sends the record to every logger.
func (m *MultiLogger) Log(rec Record) {
	for _, l := range m.loggers {
		l.Log(rec)
	}
}

var _ Logger = (*MultiLogger)(nil)
