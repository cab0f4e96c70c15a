// Package hooks is a small named-callback registry standing in for the
// host platform's hook pipeline. Callbacks fire in ascending priority
// order; ties keep registration order.
package hooks

import (
	"context"
	"errors"
	"sort"
	"sync"
)

const (
	// PlatformInit fires once per process, after configuration is
	// loaded. Payload: platform.Info.
	PlatformInit = "platform.init"

	// CheckoutValidate fires once per checkout attempt. Payload:
	// domain.CheckoutSubmission.
	CheckoutValidate = "checkout.validate"
)

type Handler func(ctx context.Context, payload any) error

type registration struct {
	priority int
	seq      int
	fn       Handler
}

type Registry struct {
	mu    sync.RWMutex
	seq   int
	hooks map[string][]registration
}

func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string][]registration)}
}

func (r *Registry) Register(name string, priority int, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	regs := append(r.hooks[name], registration{priority: priority, seq: r.seq, fn: fn})
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority < regs[j].priority
		}
		return regs[i].seq < regs[j].seq
	})
	r.hooks[name] = regs
}

// Fire runs every handler registered for name, in order. All handlers
// run even when an earlier one fails; their errors are joined.
func (r *Registry) Fire(ctx context.Context, name string, payload any) error {
	r.mu.RLock()
	regs := r.hooks[name]
	r.mu.RUnlock()

	var errs []error
	for _, reg := range regs {
		if err := reg.fn(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
