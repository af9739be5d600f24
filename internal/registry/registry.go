package registry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/nodeflow/internal/model"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Result is what a handler produces for one execution of a node.
type Result struct {
	// Output is recorded as the node's last output and handed to every
	// followed successor.
	Output model.Payload
	// Port restricts fan-out to the connections leaving this output port.
	// Empty means every outgoing connection is followed.
	Port string
}

// HandlerFunc performs the work of one node kind. The input payload belongs
// to the handler and may be modified.
type HandlerFunc func(ctx context.Context, n *model.Node, input model.Payload) (*Result, error)

// Registry holds all the registered handlers for a single application instance.
type Registry struct {
	mu       sync.RWMutex
	handlers map[model.Kind]HandlerFunc
}

// New creates and initializes a new Registry instance, registering the given
// modules.
func New(modules ...Module) *Registry {
	r := &Registry{
		handlers: make(map[model.Kind]HandlerFunc),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterHandler registers the handler for a node kind.
func (r *Registry) RegisterHandler(kind model.Kind, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[kind]; exists {
		panic(fmt.Sprintf("handler for node kind '%s' already registered", kind))
	}
	slog.Debug("Registering node handler.", "kind", kind)
	r.handlers[kind] = fn
}

// Handler returns the handler registered for kind.
func (r *Registry) Handler(kind model.Kind) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.handlers[kind]
	return fn, ok
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []model.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Kind, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Validate checks that a handler is registered for each of the given kinds.
// Every missing kind is reported; each error wraps model.ErrNoHandler.
func (r *Registry) Validate(ctx context.Context, kinds []model.Kind) error {
	var result *multierror.Error
	seen := make(map[model.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := r.Handler(k); !ok {
			result = multierror.Append(result, fmt.Errorf("%w '%s'", model.ErrNoHandler, k))
		}
	}
	return result.ErrorOrNil()
}
