// CUE schema validation code
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

var validStatuses = map[string]bool{"optimal": true, "warning": true, "critical": true}

// ValidateWithCue validates a YAML configuration file against the #Config
// definition of a CUE schema file.
func ValidateWithCue(configFile, cueFile string) error {
	ctx := cuecontext.New()

	// Read YAML config
	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	file, err := cueyaml.Extract(configFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(file)
	if configVal.Err() != nil {
		return fmt.Errorf("cannot build YAML config: %w", configVal.Err())
	}

	// Read CUE schema
	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes, cue.Filename(cueFile))
	if schemaVal.Err() != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", schemaVal.Err())
	}
	def := schemaVal.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return fmt.Errorf("schema %s has no #Config definition", cueFile)
	}

	// Merge values with schema
	final := def.Unify(configVal)
	if err := final.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Validate checks cross-field constraints the schema cannot express.
func (c *GridConfig) Validate() error {
	if len(c.Metrics) == 0 {
		return errors.New("config: at least one metric is required")
	}
	seen := make(map[string]bool, len(c.Metrics))
	for _, m := range c.Metrics {
		if m.Name == "" {
			return errors.New("config: metric name is required")
		}
		if seen[m.Name] {
			return fmt.Errorf("config: duplicate metric %q", m.Name)
		}
		seen[m.Name] = true
		if m.Min > m.Max {
			return fmt.Errorf("config: metric %q has min %v above max %v", m.Name, m.Min, m.Max)
		}
		if m.Seed < m.Min || m.Seed > m.Max {
			return fmt.Errorf("config: metric %q seed %v outside [%v, %v]", m.Name, m.Seed, m.Min, m.Max)
		}
		if m.Step < 0 {
			return fmt.Errorf("config: metric %q has negative step", m.Name)
		}
		if m.Period != "" {
			if d, err := time.ParseDuration(m.Period); err != nil || d <= 0 {
				return fmt.Errorf("config: metric %q has invalid period %q", m.Name, m.Period)
			}
		}
		if len(m.Rule.Bands) == 0 {
			return fmt.Errorf("config: metric %q has no classification bands", m.Name)
		}
		for i, b := range m.Rule.Bands {
			if !validStatuses[b.Status] {
				return fmt.Errorf("config: metric %q band %d has unknown status %q", m.Name, i, b.Status)
			}
		}
	}
	if c.AI.Timeout != "" {
		if _, err := time.ParseDuration(c.AI.Timeout); err != nil {
			return fmt.Errorf("config: invalid ai timeout %q: %w", c.AI.Timeout, err)
		}
	}
	return nil
}
