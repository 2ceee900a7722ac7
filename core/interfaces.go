package core

import (
	"context"

	"github.com/okvee/rpctoast/types"
)

// Journal keeps settled invocation records for the history command.
type Journal interface {
	Append(ctx context.Context, rec *types.InvocationRecord) error
	Get(ctx context.Context, id types.InvocationID) (*types.InvocationRecord, error)
	List(ctx context.Context) ([]*types.InvocationRecord, error)
	Erase(ctx context.Context, id types.InvocationID) error
	Clear(ctx context.Context) error
}
