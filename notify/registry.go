package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/okvee/rpctoast/types"
)

var severityRank = map[types.Severity]int{
	types.SeverityInfo:    0,
	types.SeveritySuccess: 1,
	types.SeverityWarning: 2,
	types.SeverityError:   3,
}

type registeredBackend struct {
	channel     Channel
	minSeverity types.Severity // empty means no filtering
}

func (rb registeredBackend) accepts(sev types.Severity) bool {
	if rb.minSeverity == "" {
		return true
	}
	return severityRank[sev] >= severityRank[rb.minSeverity]
}

// Registry fans one logical notification out to every registered backend.
// Loading and dismissal are always forwarded; terminal notifications honor
// each backend's severity floor. A backend failure never stops delivery to
// the remaining backends.
type Registry struct {
	mu       sync.Mutex
	backends map[types.BackendType]registeredBackend
	seq      uint64
	loading  map[types.Handle]map[types.BackendType]types.Handle
}

var _ Channel = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[types.BackendType]registeredBackend),
		loading:  make(map[types.Handle]map[types.BackendType]types.Handle),
	}
}

func (rg *Registry) Register(bType types.BackendType, impl Channel, minSeverity types.Severity) {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	if _, exists := rg.backends[bType]; exists {
		panic(fmt.Errorf("duplicate registration for %s", bType))
	}
	rg.backends[bType] = registeredBackend{channel: impl, minSeverity: minSeverity}
}

func (rg *Registry) ShowLoading(ctx context.Context, message string) (types.Handle, error) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	rg.seq++
	handle := types.Handle("loading-" + strconv.FormatUint(rg.seq, 10))
	perBackend := make(map[types.BackendType]types.Handle, len(rg.backends))

	var errs []error
	for bType, backend := range rg.backends {
		bh, err := backend.channel.ShowLoading(ctx, message)
		if err != nil {
			errs = append(errs, fmt.Errorf("backend %s: %w", bType, err))
			continue
		}
		perBackend[bType] = bh
	}

	rg.loading[handle] = perBackend
	return handle, errors.Join(errs...)
}

func (rg *Registry) Dismiss(ctx context.Context, handle types.Handle) error {
	rg.mu.Lock()
	perBackend, ok := rg.loading[handle]
	delete(rg.loading, handle)
	rg.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown loading handle '%s'", handle)
	}

	var errs []error
	for bType, bh := range perBackend {
		backend, exists := rg.backend(bType)
		if !exists {
			continue
		}
		if err := backend.channel.Dismiss(ctx, bh); err != nil {
			errs = append(errs, fmt.Errorf("backend %s: %w", bType, err))
		}
	}
	return errors.Join(errs...)
}

func (rg *Registry) ShowSuccess(ctx context.Context, message string) error {
	return rg.emit(types.SeveritySuccess, func(ch Channel) error {
		return ch.ShowSuccess(ctx, message)
	})
}

func (rg *Registry) ShowWarning(ctx context.Context, message string) error {
	return rg.emit(types.SeverityWarning, func(ch Channel) error {
		return ch.ShowWarning(ctx, message)
	})
}

func (rg *Registry) ShowInfo(ctx context.Context, message string) error {
	return rg.emit(types.SeverityInfo, func(ch Channel) error {
		return ch.ShowInfo(ctx, message)
	})
}

func (rg *Registry) ShowError(ctx context.Context, message, detail string) error {
	return rg.emit(types.SeverityError, func(ch Channel) error {
		return ch.ShowError(ctx, message, detail)
	})
}

func (rg *Registry) backend(bType types.BackendType) (registeredBackend, bool) {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	backend, ok := rg.backends[bType]
	return backend, ok
}

func (rg *Registry) snapshot() map[types.BackendType]registeredBackend {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	ret := make(map[types.BackendType]registeredBackend, len(rg.backends))
	for bType, backend := range rg.backends {
		ret[bType] = backend
	}
	return ret
}

func (rg *Registry) emit(sev types.Severity, call func(Channel) error) error {
	var errs []error
	for bType, backend := range rg.snapshot() {
		if !backend.accepts(sev) {
			continue
		}
		if err := call(backend.channel); err != nil {
			errs = append(errs, fmt.Errorf("backend %s: %w", bType, err))
		}
	}
	return errors.Join(errs...)
}
