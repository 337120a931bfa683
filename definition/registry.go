package definition

import (
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/sequence"
)

// Factory builds an operation from a step's parameters.
type Factory func(params map[string]any) (sequence.Operation, error)

// Registry provides named operation factories for definitions.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name, replacing any previous one.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get retrieves a factory by name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// List returns sorted names of all registered factories.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build looks up op and binds it with params.
func (r *Registry) Build(op string, params map[string]any) (sequence.Operation, error) {
	f, ok := r.Get(op)
	if !ok {
		return nil, errors.NotFound("operation", op)
	}
	return f(params)
}

// Bind returns a Factory that decodes params into P and passes the result
// to build. Values are weakly typed, so "3" decodes into an int field, and
// keys P does not declare are rejected.
func Bind[P any](op string, build func(P) (sequence.Operation, error)) Factory {
	return func(params map[string]any) (sequence.Operation, error) {
		var p P
		if err := decode(params, &p); err != nil {
			return nil, errors.Configuration(op, "invalid parameters").WithCause(err)
		}
		return build(p)
	}
}

// Static returns a Factory for an operation that takes no parameters.
func Static(op string, build func() sequence.Operation) Factory {
	return func(params map[string]any) (sequence.Operation, error) {
		if len(params) > 0 {
			return nil, errors.Configuration(op, "takes no parameters")
		}
		return build(), nil
	}
}

func decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}
