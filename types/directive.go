package types

import "encoding/json"

const (
	DefaultLoadingMessage = "Processing..."
	DefaultErrorMessage   = "Operation failed"
)

// Text is either a fixed message or a function computing one from the
// outcome. Both shapes resolve through a single dispatch at notification
// time.
type Text[T any] struct {
	literal string
	compute func(T) string
}

func Literal[T any](s string) *Text[T] {
	return &Text[T]{literal: s}
}

func Computed[T any](fn func(T) string) *Text[T] {
	return &Text[T]{compute: fn}
}

func (t *Text[T]) Resolve(val T) string {
	if t.compute != nil {
		return t.compute(val)
	}
	return t.literal
}

// Directive governs notification behavior for one invocation. A nil
// directive behaves like the zero value: loading and error messages fall
// back to the defaults, no success notification is emitted.
type Directive struct {
	Loading string
	Success *Text[json.RawMessage]
	Error   *Text[error]
	Silent  bool
}

func (d *Directive) IsSilent() bool {
	return d != nil && d.Silent
}

func (d *Directive) LoadingMessage() string {
	if d == nil || d.Loading == "" {
		return DefaultLoadingMessage
	}
	return d.Loading
}

// SuccessMessage resolves the success notification text. The second return
// is false when the directive carries no success descriptor, in which case
// no success notification is emitted at all.
func (d *Directive) SuccessMessage(value json.RawMessage) (string, bool) {
	if d == nil || d.Success == nil {
		return "", false
	}
	return d.Success.Resolve(value), true
}

func (d *Directive) ErrorMessage(err error) string {
	if d == nil || d.Error == nil {
		return DefaultErrorMessage
	}
	return d.Error.Resolve(err)
}

// PendingMessages is the fixed loading/success/error triple used when
// wrapping an operation that is already in flight.
type PendingMessages struct {
	Loading string
	Success string
	Error   string
}

func (pm PendingMessages) LoadingOrDefault() string {
	if pm.Loading == "" {
		return DefaultLoadingMessage
	}
	return pm.Loading
}

func (pm PendingMessages) ErrorOrDefault() string {
	if pm.Error == "" {
		return DefaultErrorMessage
	}
	return pm.Error
}
