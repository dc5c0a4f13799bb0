// Package logging writes structured JSON log entries for codelens runs.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/andywolf/codelens/internal/security"
)

// Severity levels for structured logs
type Severity string

const (
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

var severityLevels = map[Severity]logrus.Level{
	SeverityDebug:   logrus.DebugLevel,
	SeverityInfo:    logrus.InfoLevel,
	SeverityWarning: logrus.WarnLevel,
	SeverityError:   logrus.ErrorLevel,
}

func levelOf(s Severity) logrus.Level {
	if level, ok := severityLevels[s]; ok {
		return level
	}
	return logrus.InfoLevel
}

// LogEntry represents a single structured log line
type LogEntry struct {
	Severity  Severity               `json:"severity"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	RunID     string                 `json:"run_id"`
	Labels    map[string]string      `json:"labels,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// entryFormatter renders logrus entries as LogEntry JSON lines.
type entryFormatter struct {
	runID  string
	labels map[string]string
}

func (f *entryFormatter) Format(e *logrus.Entry) ([]byte, error) {
	entry := LogEntry{
		Severity:  Severity(strings.ToUpper(e.Level.String())),
		Message:   e.Message,
		Timestamp: e.Time.UTC(),
		RunID:     f.runID,
		Labels:    f.labels,
	}
	if len(e.Data) > 0 {
		entry.Fields = make(map[string]interface{}, len(e.Data))
		for k, v := range e.Data {
			entry.Fields[k] = v
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal log entry: %w", err)
	}
	return append(data, '\n'), nil
}

// Logger writes one JSON object per line through logrus. It is safe for
// concurrent use.
type Logger struct {
	base     *logrus.Logger
	writer   io.Writer
	runID    string
	minLevel Severity
	labels   map[string]string
	scrubber *security.Scrubber
	now      func() time.Time
}

// Option configures a Logger
type Option func(*Logger)

// WithWriter sets a custom writer for log output
func WithWriter(w io.Writer) Option {
	return func(l *Logger) {
		l.writer = w
	}
}

// WithRunID overrides the generated run ID
func WithRunID(id string) Option {
	return func(l *Logger) {
		l.runID = id
	}
}

// WithLabels adds custom labels to all log entries
func WithLabels(labels map[string]string) Option {
	return func(l *Logger) {
		for k, v := range labels {
			l.labels[k] = v
		}
	}
}

// WithMinSeverity drops entries below the given severity
func WithMinSeverity(s Severity) Option {
	return func(l *Logger) {
		l.minLevel = s
	}
}

// WithVerbose lowers the severity floor to DEBUG when verbose is set
func WithVerbose(verbose bool) Option {
	return func(l *Logger) {
		if verbose {
			l.minLevel = SeverityDebug
		}
	}
}

// WithClock sets the timestamp source
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// New creates a Logger writing to stderr at INFO and above.
func New(opts ...Option) *Logger {
	l := &Logger{
		writer:   os.Stderr,
		runID:    uuid.NewString(),
		minLevel: SeverityInfo,
		labels: map[string]string{
			"component": "codelens",
		},
		scrubber: security.NewScrubber(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	l.base = logrus.New()
	l.base.SetOutput(l.writer)
	l.base.SetLevel(levelOf(l.minLevel))
	l.base.SetFormatter(&entryFormatter{runID: l.runID, labels: l.labels})

	return l
}

// RunID returns the identifier stamped on every entry
func (l *Logger) RunID() string {
	return l.runID
}

// Enabled reports whether entries at severity s are written
func (l *Logger) Enabled(s Severity) bool {
	return l.base.IsLevelEnabled(levelOf(s))
}

// Log writes a structured log entry. Messages and string fields are scrubbed
// of credentials before they are written.
func (l *Logger) Log(severity Severity, message string, fields map[string]interface{}) {
	if !l.Enabled(severity) {
		return
	}

	data := make(logrus.Fields, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			v = l.scrubber.Scrub(s)
		}
		data[k] = v
	}

	l.base.WithFields(data).WithTime(l.now()).Log(levelOf(severity), l.scrubber.Scrub(message))
}

// Debug writes a DEBUG level log entry
func (l *Logger) Debug(message string, fields map[string]interface{}) {
	l.Log(SeverityDebug, message, fields)
}

// Info writes an INFO level log entry
func (l *Logger) Info(message string, fields map[string]interface{}) {
	l.Log(SeverityInfo, message, fields)
}

// Infof writes a formatted INFO level log entry
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Log(SeverityInfo, fmt.Sprintf(format, args...), nil)
}

// Warning writes a WARNING level log entry
func (l *Logger) Warning(message string, fields map[string]interface{}) {
	l.Log(SeverityWarning, message, fields)
}

// Warningf writes a formatted WARNING level log entry
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Log(SeverityWarning, fmt.Sprintf(format, args...), nil)
}

// Error writes an ERROR level log entry
func (l *Logger) Error(message string, fields map[string]interface{}) {
	l.Log(SeverityError, message, fields)
}

// Discard returns a Logger whose output goes nowhere
func Discard() *Logger {
	return New(WithWriter(io.Discard))
}
