package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/okvee/rpctoast/common"
	"github.com/okvee/rpctoast/config"
	"github.com/okvee/rpctoast/notify"
	"github.com/okvee/rpctoast/rpc"
	"github.com/okvee/rpctoast/types"
)

var UUIDInvocationGen = types.InvocationGenFromStringer(uuid.NewUUID)

// Coordinator executes one remote call while keeping a loading indicator,
// a success notification and an error notification consistent with the
// call's outcome. It is stateless across invocations; each invocation owns
// its own loading handle, so concurrent invocations need no coordination.
//
// The coordinator introduces no failure modes of its own: it fails if and
// only if the gateway fails, with the same error value, after its
// notification obligations are complete. Channel and journal errors are
// logged and swallowed.
type Coordinator struct {
	config  *config.Config
	gateway rpc.Gateway
	channel notify.Channel
	journal Journal // nil when journaling is disabled
	clock   common.Clock
	gen     types.InvocationIDGen
	log     *zap.Logger

	writeClipboard func(string) error // overridden in tests
}

func NewCoordinator(
	cfg *config.Config,
	gateway rpc.Gateway,
	channel notify.Channel,
	clock common.Clock,
	gen types.InvocationIDGen,
	log *zap.Logger,
) (*Coordinator, error) {

	var journal Journal
	if cfg.Journal.Enabled {
		var err error
		journal, err = NewFsJournal(cfg.Journal.DirPath)
		if err != nil {
			return nil, err
		}
	}

	return &Coordinator{
		config:         cfg,
		gateway:        gateway,
		channel:        channel,
		journal:        journal,
		clock:          clock,
		gen:            gen,
		log:            log,
		writeClipboard: clipboard.WriteAll,
	}, nil
}

// Execute runs one remote call with lifecycle notification.
//
// When the directive is silent the call degenerates to a pass-through of
// the gateway outcome with zero channel interaction. Otherwise a loading
// notification is shown before the call is issued and its handle is
// dismissed exactly once after the outcome is known, strictly before the
// terminal notification. The gateway's value or error is returned
// unchanged either way.
func (c *Coordinator) Execute(
	ctx context.Context,
	req *types.InvocationRequest,
	directive *types.Directive,
) (json.RawMessage, error) {

	if req == nil || req.Name == "" {
		return nil, fmt.Errorf("invocation name is required")
	}

	args := req.Args
	if args == nil {
		args = map[string]any{}
	}

	startedAt := c.clock.NowUnix()

	if directive.IsSilent() {
		value, err := c.gateway.Invoke(ctx, req.Name, args)
		c.record(ctx, req.Name, startedAt, value, err)
		return value, err
	}

	handle, err := c.channel.ShowLoading(ctx, directive.LoadingMessage())
	if err != nil {
		c.log.Warn("loading notification failed", zap.Error(err))
	}

	value, err := c.gateway.Invoke(ctx, req.Name, args)

	// the pending indicator must never survive into the terminal
	// notification, whatever the outcome was
	if dErr := c.channel.Dismiss(ctx, handle); dErr != nil {
		c.log.Warn("loading dismissal failed", zap.Error(dErr))
	}

	if err != nil {
		if nErr := c.channel.ShowError(ctx, directive.ErrorMessage(err), err.Error()); nErr != nil {
			c.log.Warn("error notification failed", zap.Error(nErr))
		}
		c.record(ctx, req.Name, startedAt, nil, err)
		return nil, err
	}

	if msg, ok := directive.SuccessMessage(value); ok {
		if nErr := c.channel.ShowSuccess(ctx, msg); nErr != nil {
			c.log.Warn("success notification failed", zap.Error(nErr))
		}
	}

	c.record(ctx, req.Name, startedAt, value, nil)
	return value, nil
}

// ExecuteAs decodes the successful result into T. Failures propagate
// unchanged, exactly as with Execute.
func ExecuteAs[T any](
	ctx context.Context,
	c *Coordinator,
	req *types.InvocationRequest,
	directive *types.Directive,
) (T, error) {

	var ret T

	raw, err := c.Execute(ctx, req, directive)
	if err != nil {
		return ret, err
	}

	if err := json.Unmarshal(raw, &ret); err != nil {
		return ret, fmt.Errorf("decode result of '%s': %w", req.Name, err)
	}
	return ret, nil
}

// Emit fires one notification of the given severity. For error severity
// with a detail payload, the copy action writes the detail to the system
// clipboard and follows up with a confirmation notification; the side
// action is fire-and-forget and never blocks notification completion.
func (c *Coordinator) Emit(ctx context.Context, note types.Note) {
	var err error
	switch note.Severity {
	case types.SeveritySuccess:
		err = c.channel.ShowSuccess(ctx, note.Message)
	case types.SeverityWarning:
		err = c.channel.ShowWarning(ctx, note.Message)
	case types.SeverityInfo:
		err = c.channel.ShowInfo(ctx, note.Message)
	case types.SeverityError:
		err = c.channel.ShowError(ctx, note.Message, note.Detail)
		if note.CopyDetail && note.Detail != "" && c.config.ClipboardCopy {
			c.copyDetail(ctx, note.Detail)
		}
	default:
		err = fmt.Errorf("unknown severity '%s'", note.Severity)
	}

	if err != nil {
		c.log.Warn("notification failed",
			zap.String("severity", string(note.Severity)),
			zap.Error(err),
		)
	}
}

func (c *Coordinator) copyDetail(ctx context.Context, detail string) {
	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := c.writeClipboard(detail); err != nil {
			c.log.Warn("clipboard write failed", zap.Error(err))
			return
		}
		if err := c.channel.ShowInfo(ctx, "Error details copied to clipboard"); err != nil {
			c.log.Warn("clipboard confirmation failed", zap.Error(err))
		}
	}()
}

// Observe wraps an operation that is already in flight: it drives the same
// show/dismiss discipline over the pending outcome but propagates nothing
// beyond the display layer. The outcome is awaited unconditionally.
func (c *Coordinator) Observe(
	ctx context.Context,
	pending <-chan types.InvocationOutcome,
	msgs types.PendingMessages,
) {

	handle, err := c.channel.ShowLoading(ctx, msgs.LoadingOrDefault())
	if err != nil {
		c.log.Warn("loading notification failed", zap.Error(err))
	}

	outcome := <-pending

	if dErr := c.channel.Dismiss(ctx, handle); dErr != nil {
		c.log.Warn("loading dismissal failed", zap.Error(dErr))
	}

	if outcome.Err != nil {
		if nErr := c.channel.ShowError(ctx, msgs.ErrorOrDefault(), outcome.Err.Error()); nErr != nil {
			c.log.Warn("error notification failed", zap.Error(nErr))
		}
		return
	}

	if msgs.Success == "" {
		return
	}
	if nErr := c.channel.ShowSuccess(ctx, msgs.Success); nErr != nil {
		c.log.Warn("success notification failed", zap.Error(nErr))
	}
}

// HistoryJournal exposes the journal for the history command. Nil when
// journaling is disabled.
func (c *Coordinator) HistoryJournal() Journal {
	return c.journal
}

func (c *Coordinator) record(ctx context.Context, name string, startedAt int64, value json.RawMessage, invErr error) {
	if c.journal == nil {
		return
	}

	id, err := c.gen()
	if err != nil {
		c.log.Warn("journal id generation failed", zap.Error(err))
		return
	}

	rec := types.InvocationRecord{
		ID:         id,
		Name:       name,
		StartedAt:  startedAt,
		FinishedAt: c.clock.NowUnix(),
		Status:     types.StatusOK,
		Result:     value,
	}
	if invErr != nil {
		rec.Status = types.StatusError
		rec.Error = invErr.Error()
	}

	if err := c.journal.Append(ctx, &rec); err != nil {
		c.log.Warn("journal append failed",
			zap.String("invocation_id", string(id)),
			zap.Error(err),
		)
	}
}
