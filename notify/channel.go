package notify

import (
	"context"

	"github.com/okvee/rpctoast/types"
)

// Channel is the boundary to one notification destination: four severity
// emitters plus the loading/dismiss pair. Implementations are expected to
// be side-effect-only; errors they return are logged by callers, never
// propagated into invocation outcomes.
type Channel interface {
	ShowLoading(ctx context.Context, message string) (types.Handle, error)
	ShowSuccess(ctx context.Context, message string) error
	ShowWarning(ctx context.Context, message string) error
	ShowInfo(ctx context.Context, message string) error
	// ShowError carries an optional detail payload (typically the
	// stringified error) that backends may surface next to the message.
	ShowError(ctx context.Context, message, detail string) error
	Dismiss(ctx context.Context, handle types.Handle) error
}
