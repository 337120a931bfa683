package definition

import (
	"go.yaml.in/yaml/v3"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/validation"
)

// Definition is a named, YAML-defined list of pipeline steps.
type Definition struct {
	// Name is the definition identifier.
	Name string `yaml:"name" validate:"required"`
	// Description is free text shown by tooling.
	Description string `yaml:"description,omitempty"`
	// Includes lists definitions whose steps run before this one's.
	Includes []string `yaml:"includes,omitempty"`
	// Steps are applied in order.
	Steps []Step `yaml:"steps" validate:"dive"`
}

// Step binds one registered operation.
type Step struct {
	// Op is the registry lookup key.
	Op string `yaml:"op" validate:"required"`
	// Params are decoded into the operation's parameter struct.
	Params map[string]any `yaml:"params,omitempty"`
}

// Parse decodes and checks a YAML definition. name is used when the document
// does not carry one.
func Parse(name string, data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.InvalidDefinition(name, "malformed document").WithCause(err)
	}
	if d.Name == "" {
		d.Name = name
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that the definition is named and that every step names an
// operation.
func (d *Definition) Validate() error {
	if err := validation.Validate(d); err != nil {
		reason := err.Error()
		if e, ok := errors.As(err); ok {
			reason = e.Message
		}
		return errors.InvalidDefinition(d.Name, reason).WithCause(err)
	}
	return nil
}
