package sched

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/loom/errors"
	"github.com/wippyai/loom/task"
)

// DefaultStepLimit bounds same-tick re-entry after a fresh yield. A chain of
// immediately-ready suspensions longer than this stays paused and continues
// on the next tick.
const DefaultStepLimit = 64

// Config configures a Registry.
type Config struct {
	// Logger receives lifecycle events at Debug and failures at Error.
	// Defaults to a nop logger.
	Logger *zap.Logger

	// StepLimit caps resume steps for one task within one tick.
	// Defaults to DefaultStepLimit.
	StepLimit int
}

// Registry is the process-wide table of task identities: the immutable
// identity-to-procedure mapping populated at registration time, the per
// identity task state, and the active set the host consults each tick.
//
// The registry's lifetime is owned by the surrounding application; it is an
// explicit object, not a singleton.
type Registry struct {
	log       *zap.Logger
	procs     map[string]task.Body
	tasks     map[string]*task.State
	active    map[string]struct{}
	mu        sync.Mutex
	stepLimit int
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	limit := cfg.StepLimit
	if limit <= 0 {
		limit = DefaultStepLimit
	}
	return &Registry{
		log:       log,
		procs:     make(map[string]task.Body),
		tasks:     make(map[string]*task.State),
		active:    make(map[string]struct{}),
		stepLimit: limit,
	}
}

// Register associates an identity with its procedure body. Registration is
// idempotent: registering an identity that already exists keeps the first
// body and does not create a second entry.
func (r *Registry) Register(id string, body task.Body) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.procs[id]; exists {
		r.log.Debug("procedure already registered", zap.String("id", id))
		return
	}
	r.procs[id] = body
}

// Registered reports whether an identity is known to the registry.
func (r *Registry) Registered(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.procs[id]
	return ok
}

// Trigger marks an identity active so the host starts invoking its driver.
// Triggering an already-active identity is a no-op. Unknown identities are
// reported as a not_found error.
func (r *Registry) Trigger(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.procs[id]; !ok {
		return errors.NotFound(errors.PhaseRegister, "procedure", id)
	}
	if _, ok := r.active[id]; ok {
		return nil
	}
	r.active[id] = struct{}{}
	r.log.Debug("task triggered", zap.String("id", id))
	return nil
}

// IsActive reports whether an identity is in the active set.
func (r *Registry) IsActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[id]
	return ok
}

// Active returns a sorted snapshot of the active set.
func (r *Registry) Active() []string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.active))
	for id := range r.active {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Strings(ids)
	return ids
}

func (r *Registry) markInactive(id string) {
	r.mu.Lock()
	delete(r.active, id)
	r.mu.Unlock()
}
