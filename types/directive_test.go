package types

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDirective_NilDefaults(t *testing.T) {
	var d *Directive

	if d.IsSilent() {
		t.Error("nil directive must not be silent")
	}
	if got := d.LoadingMessage(); got != DefaultLoadingMessage {
		t.Errorf("LoadingMessage() = %q, want default", got)
	}
	if _, ok := d.SuccessMessage(json.RawMessage(`"x"`)); ok {
		t.Error("nil directive must suppress the success notification")
	}
	if got := d.ErrorMessage(errors.New("boom")); got != DefaultErrorMessage {
		t.Errorf("ErrorMessage() = %q, want default", got)
	}
}

func TestDirective_Resolution(t *testing.T) {
	d := &Directive{
		Loading: "Working",
		Success: Computed(func(value json.RawMessage) string {
			return "got " + string(value)
		}),
		Error: Literal[error]("Nope"),
	}

	if got := d.LoadingMessage(); got != "Working" {
		t.Errorf("LoadingMessage() = %q", got)
	}
	msg, ok := d.SuccessMessage(json.RawMessage(`42`))
	if !ok || msg != "got 42" {
		t.Errorf("SuccessMessage() = %q, %v", msg, ok)
	}
	if got := d.ErrorMessage(errors.New("boom")); got != "Nope" {
		t.Errorf("ErrorMessage() = %q", got)
	}
}

func TestText_SingleDispatch(t *testing.T) {
	literal := Literal[error]("fixed")
	if got := literal.Resolve(errors.New("ignored")); got != "fixed" {
		t.Errorf("literal Resolve() = %q", got)
	}

	computed := Computed(func(err error) string { return "err: " + err.Error() })
	if got := computed.Resolve(errors.New("boom")); got != "err: boom" {
		t.Errorf("computed Resolve() = %q", got)
	}
}

func TestPendingMessages_Defaults(t *testing.T) {
	var pm PendingMessages
	if pm.LoadingOrDefault() != DefaultLoadingMessage {
		t.Error("empty loading must fall back to default")
	}
	if pm.ErrorOrDefault() != DefaultErrorMessage {
		t.Error("empty error must fall back to default")
	}

	pm = PendingMessages{Loading: "a", Error: "b"}
	if pm.LoadingOrDefault() != "a" || pm.ErrorOrDefault() != "b" {
		t.Error("explicit messages must win over defaults")
	}
}
