package dalipp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// Installer accepts a built registry, the way a debugger accepts a
// pretty-printer collection.
type Installer interface {
	Install(r *Registry) error
}

// Host is an in-process Installer holding an ordered list of registries.
// Lookups try each registry in installation order; the first hit wins.
type Host struct {
	mu         sync.RWMutex
	registries []*Registry
	maxDepth   int
	logger     *slog.Logger
}

// Compile-time interface check.
var _ Installer = (*Host)(nil)

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostLogger sets the logger used for printer failures during Render.
func WithHostLogger(logger *slog.Logger) HostOption {
	return func(h *Host) {
		h.logger = logger
	}
}

// WithHostMaxDepth limits how deep Render expands nested values.
func WithHostMaxDepth(n int) HostOption {
	return func(h *Host) {
		if n > 0 {
			h.maxDepth = n
		}
	}
}

// NewHost creates an empty host.
func NewHost(opts ...HostOption) *Host {
	h := &Host{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Install appends r to the lookup order.
func (h *Host) Install(r *Registry) error {
	if r == nil {
		return ErrNilRegistry
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.registries {
		if existing.Name() == r.Name() {
			return fmt.Errorf("install %s: %w", r.Name(), ErrDuplicateRegistry)
		}
	}
	h.registries = append(h.registries, r)
	return nil
}

// Registries returns the installed registries in lookup order.
func (h *Host) Registries() []*Registry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Registry, len(h.registries))
	copy(out, h.registries)
	return out
}

// Registry returns the installed registry named name.
func (h *Host) Registry(name string) (*Registry, bool) {
	for _, r := range h.Registries() {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// Lookup returns the first printer any installed registry builds for v,
// together with the registry that built it.
func (h *Host) Lookup(v value.Value) (Printer, *Registry, error) {
	for _, r := range h.Registries() {
		p, err := r.Lookup(v)
		if err != nil {
			return nil, r, err
		}
		if p != nil {
			return p, r, nil
		}
	}
	return nil, nil, nil
}

// Format renders v with the first matching printer. ok is false when no
// installed registry has a printer for v.
func (h *Host) Format(ctx context.Context, v value.Value) (Output, bool, error) {
	return h.format(ctx, v, newRenderer(ctx, h, h.maxDepth, h.logger))
}

// Render returns the full textual rendering of v, falling back to the
// default representation.
func (h *Host) Render(ctx context.Context, v value.Value) string {
	return newRenderer(ctx, h, h.maxDepth, h.logger).Render(v)
}

// format implements formatter.
func (h *Host) format(ctx context.Context, v value.Value, rend *renderer) (Output, bool, error) {
	for _, r := range h.Registries() {
		out, ok, err := r.format(ctx, v, rend)
		if err != nil {
			return Output{}, true, err
		}
		if ok {
			return out, true, nil
		}
	}
	return Output{}, false, nil
}
