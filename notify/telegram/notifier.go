package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/nikoksr/notify/service/telegram"

	"github.com/okvee/rpctoast/notify"
	"github.com/okvee/rpctoast/types"
)

// telegramChannel publishes terminal notifications to a telegram chat.
// Transient loading states are not pushed: a chat cannot retract a
// message, so loading/dismiss degenerate to handle bookkeeping.
type telegramChannel struct {
	transport *telegram.Telegram

	mu      sync.Mutex
	seq     uint64
	pending map[types.Handle]struct{}
}

var _ notify.Channel = (*telegramChannel)(nil)

func NewTelegramChannel(
	token string,
	chatID int64,
) (notify.Channel, error) {

	token = strings.TrimSpace(token)
	tgTransport, err := telegram.New(token)
	if err != nil {
		return nil, err
	}
	tgTransport.SetParseMode(telegram.ModeMarkdown)
	tgTransport.AddReceivers(chatID)

	return &telegramChannel{
		transport: tgTransport,
		pending:   make(map[types.Handle]struct{}),
	}, nil
}

func (tgn *telegramChannel) ShowLoading(_ context.Context, _ string) (types.Handle, error) {
	tgn.mu.Lock()
	defer tgn.mu.Unlock()

	tgn.seq++
	handle := types.Handle("tg-" + strconv.FormatUint(tgn.seq, 10))
	tgn.pending[handle] = struct{}{}
	return handle, nil
}

func (tgn *telegramChannel) Dismiss(_ context.Context, handle types.Handle) error {
	tgn.mu.Lock()
	defer tgn.mu.Unlock()

	if _, ok := tgn.pending[handle]; !ok {
		return fmt.Errorf("unknown loading handle '%s'", handle)
	}
	delete(tgn.pending, handle)
	return nil
}

func (tgn *telegramChannel) ShowSuccess(ctx context.Context, message string) error {
	return tgn.send(ctx, "✅ success", message)
}

func (tgn *telegramChannel) ShowWarning(ctx context.Context, message string) error {
	return tgn.send(ctx, "⚠️ warning", message)
}

func (tgn *telegramChannel) ShowInfo(ctx context.Context, message string) error {
	return tgn.send(ctx, "ℹ️ info", message)
}

func (tgn *telegramChannel) ShowError(ctx context.Context, message, detail string) error {
	body := message
	if detail != "" {
		body = fmt.Sprintf("%s\n```\n%s\n```", message, detail)
	}
	return tgn.send(ctx, "❌ error", body)
}

func (tgn *telegramChannel) send(ctx context.Context, subject, body string) error {
	return tgn.transport.Send(ctx, fmt.Sprintf("rpctoast %s", subject), body)
}
