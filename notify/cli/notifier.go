package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/okvee/rpctoast/common"
	"github.com/okvee/rpctoast/notify"
	"github.com/okvee/rpctoast/types"
)

type pendingLine struct {
	message   string
	startedAt int64
}

// terminalChannel renders notifications as severity-tagged lines. Lines
// are persistent, so dismissal prints a completion line with the elapsed
// time instead of erasing the pending one.
type terminalChannel struct {
	mu      sync.Mutex
	out     io.Writer
	clock   common.Clock
	seq     uint64
	pending map[types.Handle]pendingLine
}

var _ notify.Channel = (*terminalChannel)(nil)

func NewTerminalChannel(out io.Writer, clock common.Clock) *terminalChannel {
	return &terminalChannel{
		out:     out,
		clock:   clock,
		pending: make(map[types.Handle]pendingLine),
	}
}

func (tc *terminalChannel) ShowLoading(_ context.Context, message string) (types.Handle, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.seq++
	handle := types.Handle("term-" + strconv.FormatUint(tc.seq, 10))
	tc.pending[handle] = pendingLine{
		message:   message,
		startedAt: tc.clock.NowUnix(),
	}

	_, err := fmt.Fprintf(tc.out, "[....] %s\n", message)
	return handle, err
}

func (tc *terminalChannel) Dismiss(_ context.Context, handle types.Handle) error {
	tc.mu.Lock()
	line, ok := tc.pending[handle]
	delete(tc.pending, handle)
	tc.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown loading handle '%s'", handle)
	}

	elapsed := tc.clock.NowUnix() - line.startedAt
	_, err := fmt.Fprintf(tc.out, "[done] %s (%d sec)\n", line.message, elapsed)
	return err
}

func (tc *terminalChannel) ShowSuccess(_ context.Context, message string) error {
	_, err := fmt.Fprintf(tc.out, "[ ok ] %s\n", message)
	return err
}

func (tc *terminalChannel) ShowWarning(_ context.Context, message string) error {
	_, err := fmt.Fprintf(tc.out, "[warn] %s\n", message)
	return err
}

func (tc *terminalChannel) ShowInfo(_ context.Context, message string) error {
	_, err := fmt.Fprintf(tc.out, "[info] %s\n", message)
	return err
}

func (tc *terminalChannel) ShowError(_ context.Context, message, detail string) error {
	if _, err := fmt.Fprintf(tc.out, "[fail] %s\n", message); err != nil {
		return err
	}
	if detail == "" {
		return nil
	}
	_, err := fmt.Fprintf(tc.out, "       detail: %s\n", detail)
	return err
}
