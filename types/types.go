package types

import (
	"encoding/json"
	"fmt"
	"time"
)

type InvocationID string

type InvocationIDGen func() (InvocationID, error)

func InvocationGenFromStringer[T fmt.Stringer](gen func() (T, error)) InvocationIDGen {
	return func() (InvocationID, error) {
		val, err := gen()
		if err != nil {
			return "", err
		}
		return InvocationID(val.String()), nil
	}
}

// InvocationRequest identifies one remote command and its parameters.
// Immutable once constructed; a nil Args is treated as an empty mapping.
type InvocationRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// InvocationOutcome is the settled result of one invocation: either a raw
// value or an error, never both.
type InvocationOutcome struct {
	Value json.RawMessage
	Err   error
}

func Succeeded(value json.RawMessage) InvocationOutcome {
	return InvocationOutcome{Value: value}
}

func Failed(err error) InvocationOutcome {
	return InvocationOutcome{Err: err}
}

// InvocationRecord is the journal entry written after an invocation settles.
type InvocationRecord struct {
	ID         InvocationID    `json:"invocation_id"`
	Name       string          `json:"command"`
	StartedAt  int64           `json:"started_at"`
	FinishedAt int64           `json:"finished_at"`
	Status     string          `json:"status"` // "ok" or "error"
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Handle references an in-flight loading notification. It is used exactly
// once, to dismiss that notification after the outcome is known.
type Handle string

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func ParseSeverity(raw string) (Severity, error) {
	switch s := Severity(raw); s {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return s, nil
	}
	return "", fmt.Errorf("unknown severity '%s'", raw)
}

// DisplayDuration is the fixed per-severity policy for how long a channel
// with transient rendering keeps the notification visible. Channels with
// persistent rendering (terminal lines, chat messages) ignore it.
func (s Severity) DisplayDuration() time.Duration {
	switch s {
	case SeverityError:
		return 8 * time.Second
	case SeverityWarning:
		return 5 * time.Second
	default:
		return 3 * time.Second
	}
}

// Note is the payload of a direct one-shot notification. For error
// severity, CopyDetail requests the detail payload to be copied to the
// system clipboard as a side action.
type Note struct {
	Severity   Severity
	Message    string
	Detail     string
	CopyDetail bool
}

type BackendType string

const (
	BackendCLI      BackendType = "cli"      // severity-tagged lines on the terminal
	BackendTelegram BackendType = "telegram" // messages published to a telegram bot
	// feel free to put here any type of supported (or proxied) backend
)
