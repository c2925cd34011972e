// Package registry implements the function catalogue: a name-keyed store
// mapping a stable string to a description, a JSON Schema describing its
// call shape, and a Go callable. When no schema is supplied at
// registration it is inferred by reflecting over the callable's parameter
// struct.
package registry

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/parthshr370/agentrt/internal/logging"
	"github.com/parthshr370/agentrt/message"
)

// FunctionDefinition is one entry in the registry.
type FunctionDefinition struct {
	Name           string
	Description    string
	Parameters     map[string]any
	Implementation reflect.Value
	ArgsType       reflect.Type
}

// Registry maps stable names to function definitions. The zero value is not
// usable; construct with New.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]FunctionDefinition
	logger  logging.Logger
}

// New builds an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[string]FunctionDefinition),
		logger:  logging.GetLogger("registry"),
	}
}

// Register stores a function under name. implementation must be a function
// of exactly one parameter (a struct of named fields, each becoming a
// schema property) returning either (value) or (value, error). If params is
// nil, the schema is inferred from the parameter struct's fields per
// inferSchema. Re-registration under an existing name replaces the prior
// entry and is logged.
func Register(r *Registry, name, description string, implementation any, params map[string]any) error {
	if name == "" {
		return fmt.Errorf("registry: name must not be empty")
	}

	fn := reflect.ValueOf(implementation)
	if fn.Kind() != reflect.Func {
		return fmt.Errorf("registry: implementation for %q must be a function", name)
	}
	fnType := fn.Type()
	if fnType.NumIn() != 1 {
		return fmt.Errorf("registry: implementation for %q must take exactly one argument (a parameter struct), got %d", name, fnType.NumIn())
	}
	if fnType.NumOut() < 1 || fnType.NumOut() > 2 {
		return fmt.Errorf("registry: implementation for %q must return (value) or (value, error)", name)
	}

	argsType := fnType.In(0)
	schema := params
	if schema == nil {
		schema = inferSchema(argsType)
	}

	def := FunctionDefinition{
		Name:           name,
		Description:    description,
		Parameters:     schema,
		Implementation: fn,
		ArgsType:       argsType,
	}

	r.mu.Lock()
	_, replaced := r.entries[name]
	r.entries[name] = def
	r.mu.Unlock()

	if replaced {
		r.logger.Info(context.Background(), "re-registered function, replacing prior entry", logging.WithName("registry.replace"), logging.WithData(map[string]interface{}{"name": name}))
	}
	return nil
}

// RegisterAll registers a batch of functions, stopping at the first error.
func (r *Registry) RegisterAll(fns ...RegisteredFunc) error {
	for _, f := range fns {
		if err := Register(r, f.Name, f.Description, f.Implementation, f.Parameters); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is RegisterAll but panics on error, for package-init-time
// registration where a malformed signature is a programming bug.
func (r *Registry) MustRegister(fns ...RegisteredFunc) {
	if err := r.RegisterAll(fns...); err != nil {
		panic(err)
	}
}

// RegisteredFunc is one declarative entry for RegisterAll/MustRegister —
// the Go-idiomatic analogue of decorator-based discovery: a literal slice
// of these built at call-site instead of scanning annotated functions.
type RegisteredFunc struct {
	Name           string
	Description    string
	Implementation any
	Parameters     map[string]any
}

// Get returns the definition for name, if any.
func (r *Registry) Get(name string) (FunctionDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.entries[name]
	return def, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Len reports the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// List returns the provider-neutral catalogue handed to adapters.
func (r *Registry) List() []message.FunctionSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]message.FunctionSpec, 0, len(r.entries))
	for _, def := range r.entries {
		specs = append(specs, message.FunctionSpec{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Parameters,
		})
	}
	return specs
}
