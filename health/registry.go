package health

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"readyprobe/logger"
	"readyprobe/utils"
)

// ErrDuplicateCheck is returned when a check name is registered twice for the same kind.
var ErrDuplicateCheck = errors.New("health check already registered")

// Observer is told about every check invocation.
type Observer interface {
	ObserveCheck(kind Kind, resp Response, elapsed time.Duration)
}

// Report is the aggregate of a set of checks.
type Report struct {
	Status Status
	Checks []Response
}

type entry struct {
	kind  Kind
	check Check
}

type checkKey struct {
	kind Kind
	name string
}

// Registry holds the registered checks and runs them on demand.
type Registry struct {
	mu       sync.RWMutex
	entries  []entry
	observer Observer
	last     sync.Map // checkKey -> Status of the previous call
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver reports each check invocation to o.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		r.observer = o
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a check under kind. Checks run in registration order.
func (r *Registry) Register(kind Kind, check Check) error {
	if check == nil {
		return errors.New("health check must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.kind == kind && e.check.Name() == check.Name() {
			return fmt.Errorf("%w: %s %s", ErrDuplicateCheck, kind, check.Name())
		}
	}
	r.entries = append(r.entries, entry{kind: kind, check: check})
	return nil
}

// Readiness runs the readiness checks.
func (r *Registry) Readiness(ctx context.Context) Report {
	return r.run(ctx, Readiness)
}

// Liveness runs the liveness checks.
func (r *Registry) Liveness(ctx context.Context) Report {
	return r.run(ctx, Liveness)
}

// Health runs every registered check.
func (r *Registry) Health(ctx context.Context) Report {
	return r.run(ctx, Readiness, Liveness)
}

// run executes the matching checks. The report is UP only when every
// check is UP; an empty set is UP.
func (r *Registry) run(ctx context.Context, kinds ...Kind) Report {
	r.mu.RLock()
	entries := make([]entry, 0, len(r.entries))
	for _, e := range r.entries {
		if slices.Contains(kinds, e.kind) {
			entries = append(entries, e)
		}
	}
	r.mu.RUnlock()

	report := Report{Status: StatusUp, Checks: make([]Response, 0, len(entries))}
	for _, e := range entries {
		start := time.Now()
		resp := r.call(ctx, e.check)
		if r.observer != nil {
			r.observer.ObserveCheck(e.kind, resp, time.Since(start))
		}
		r.logTransition(e.kind, resp)
		if !resp.IsUp() {
			report.Status = StatusDown
		}
		report.Checks = append(report.Checks, resp)
	}
	return report
}

// logTransition logs when a check changes status, so an orchestrator
// polling a DOWN instance produces one line rather than one per request.
// A check first seen DOWN counts as a change.
func (r *Registry) logTransition(kind Kind, resp Response) {
	prev, seen := r.last.Swap(checkKey{kind: kind, name: resp.Name}, resp.Status)
	switch {
	case resp.Status == StatusDown && (!seen || prev != StatusDown):
		logger.Warn("Health check went DOWN | kind=%s check=%s data=%s", kind, resp.Name, utils.MarshalToString(resp.Data))
	case resp.Status == StatusUp && seen && prev != StatusUp:
		logger.Info("Health check recovered | kind=%s check=%s", kind, resp.Name)
	}
}

// call runs one check, turning panics and expired contexts into DOWN.
func (r *Registry) call(ctx context.Context, check Check) (resp Response) {
	name := check.Name()

	if err := ctx.Err(); err != nil {
		return Named(name).Down().WithData("error", err.Error()).Build()
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Health check panicked | check=%s panic=%v", name, rec)
			resp = Named(name).Down().WithData("error", fmt.Sprintf("check panicked: %v", rec)).Build()
		}
	}()

	resp = check.Call(ctx)
	if resp.Name == "" {
		resp.Name = name
	}
	if resp.Status != StatusUp {
		resp.Status = StatusDown
	}
	return resp
}
