// Package config loads optional default flag values from a YAML file, so
// repeated invocations for the same workload don't need to repeat flags on
// the command line. Nothing in the documented CLI contract depends on this
// file existing; CLI flags always take precedence over values loaded here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults mirrors the subset of CLI flags it makes sense to default from a
// file: the ones someone re-running the same limiter invocation repeatedly
// would otherwise have to retype.
type Defaults struct {
	Limit           *float64 `yaml:"limit"`
	Lazy            *bool    `yaml:"lazy"`
	IncludeChildren *bool    `yaml:"include_children"`
	Nice            *int     `yaml:"nice"`
	Verbose         *bool    `yaml:"verbose"`
}

// Load reads and parses a YAML defaults file at path.
func Load(path string) (Defaults, error) {
	var d Defaults
	b, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &d); err != nil {
		return d, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return d, nil
}
