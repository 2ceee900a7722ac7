package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

type stubClock struct {
	now int64
}

func (sc *stubClock) NowUnix() int64 {
	return sc.now
}

func TestTerminalChannel_LoadingLifecycle(t *testing.T) {
	var out bytes.Buffer
	clock := &stubClock{now: 100}
	tc := NewTerminalChannel(&out, clock)
	ctx := context.Background()

	handle, err := tc.ShowLoading(ctx, "Pinging")
	if err != nil {
		t.Fatalf("ShowLoading() error = %v", err)
	}

	clock.now = 103
	if err := tc.Dismiss(ctx, handle); err != nil {
		t.Fatalf("Dismiss() error = %v", err)
	}

	want := "[....] Pinging\n[done] Pinging (3 sec)\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	if err := tc.Dismiss(ctx, handle); err == nil {
		t.Fatal("second Dismiss() expected error")
	}
}

func TestTerminalChannel_SeverityTags(t *testing.T) {
	var out bytes.Buffer
	tc := NewTerminalChannel(&out, &stubClock{})
	ctx := context.Background()

	tc.ShowSuccess(ctx, "yay")
	tc.ShowWarning(ctx, "hmm")
	tc.ShowInfo(ctx, "fyi")
	tc.ShowError(ctx, "nope", "boom")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	want := []string{
		"[ ok ] yay",
		"[warn] hmm",
		"[info] fyi",
		"[fail] nope",
		"       detail: boom",
	}
	if len(lines) != len(want) {
		t.Fatalf("output lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTerminalChannel_ErrorWithoutDetail(t *testing.T) {
	var out bytes.Buffer
	tc := NewTerminalChannel(&out, &stubClock{})

	tc.ShowError(context.Background(), "nope", "")

	if out.String() != "[fail] nope\n" {
		t.Errorf("output = %q", out.String())
	}
}
