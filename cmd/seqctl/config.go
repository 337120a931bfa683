package main

import (
	"github.com/kbukum/collection/config"
	"github.com/kbukum/collection/validation"
)

// Config is the seqctl configuration. Every field can come from the config
// file, a SEQCTL_* environment variable or the flag of the same name.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Definition string `yaml:"definition" mapstructure:"definition"`
	Dir        string `yaml:"dir" mapstructure:"dir"`
	Input      string `yaml:"input" mapstructure:"input"`
	Mode       string `yaml:"mode" mapstructure:"mode" validate:"oneof=lines chars bytes"`
	Output     string `yaml:"output" mapstructure:"output" validate:"oneof=json implode count"`
	Sep        string `yaml:"sep" mapstructure:"sep"`
}

// ApplyDefaults fills in unset values.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "seqctl"
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Dir == "" {
		c.Dir = "."
	}
	if c.Mode == "" {
		c.Mode = "lines"
	}
	if c.Output == "" {
		c.Output = "json"
	}
}

// Validate checks the service fields and the run options.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.Validate(c)
}
