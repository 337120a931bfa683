package definition

import (
	"context"
	"fmt"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/logger"
	"github.com/kbukum/collection/pipeline"
	"github.com/kbukum/collection/sequence"
)

// Resolver turns definitions into operations.
type Resolver struct {
	registry *Registry
	loader   Loader
}

// NewResolver creates a resolver. A nil registry means DefaultRegistry; a
// nil loader makes every include and Apply by name fail with NOT_FOUND.
func NewResolver(registry *Registry, loader Loader) *Resolver {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if loader == nil {
		loader = MapLoader{}
	}
	return &Resolver{registry: registry, loader: loader}
}

// Resolve binds every step of d, includes first. An include that leads back
// to a definition being resolved is INVALID_DEFINITION.
func (r *Resolver) Resolve(ctx context.Context, d *Definition) ([]sequence.Operation, error) {
	return r.resolve(ctx, d, make(map[string]bool))
}

func (r *Resolver) resolve(ctx context.Context, d *Definition, stack map[string]bool) ([]sequence.Operation, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if stack[d.Name] {
		return nil, errors.InvalidDefinition(d.Name, "circular include")
	}
	stack[d.Name] = true
	defer delete(stack, d.Name)

	var ops []sequence.Operation
	for _, name := range d.Includes {
		sub, err := r.loader.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		subOps, err := r.resolve(ctx, sub, stack)
		if err != nil {
			return nil, err
		}
		ops = append(ops, subOps...)
	}

	for i, step := range d.Steps {
		op, err := r.registry.Build(step.Op, step.Params)
		if err != nil {
			if e, ok := errors.As(err); ok {
				return nil, e.WithDetail(logger.FieldDefinition, d.Name).WithDetail("step", i)
			}
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Load resolves the named definition.
func (r *Resolver) Load(ctx context.Context, name string) ([]sequence.Operation, error) {
	d, err := r.loader.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, d)
}

// Apply resolves the named definition and runs its operations over p.
func (r *Resolver) Apply(ctx context.Context, name string, p *pipeline.Pipeline) (*pipeline.Pipeline, error) {
	ops, err := r.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	logger.Get(logger.ComponentDefinition).WithContext(ctx).Debug(
		fmt.Sprintf("applying definition %s", name),
		logger.Fields(logger.FieldDefinition, name, logger.FieldCount, len(ops)),
	)
	return p.Run(ops...), nil
}
