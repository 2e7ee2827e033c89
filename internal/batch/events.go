package batch

import "time"

// Severity labels an event for presentation. SUCCESS exists so the CLI can
// color per-file completions differently from plain progress lines.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeveritySuccess Severity = "SUCCESS"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Event is a human-readable progress notification emitted during a run.
type Event struct {
	Time     time.Time
	Severity Severity
	Message  string
}

// EventSink receives events in emission order from the runner goroutine.
// Sinks must not block for long; the batch stalls while they run.
type EventSink func(Event)
