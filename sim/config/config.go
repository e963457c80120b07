// Package config loads, validates and builds declarative production-line
// configurations. Validation happens entirely before a simulation starts;
// the engine never sees an undefined process reference or a distribution
// the variate source cannot serve.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/factory-sim/factory-sim/sim/variate"
)

// ProcessConfig defines one production stage.
type ProcessConfig struct {
	// Name uniquely identifies the stage; routes and skills reference it.
	Name string `yaml:"name"`

	// Duration is the service-time distribution, in ticks.
	Duration variate.Spec `yaml:"duration"`

	// BufferSize bounds the waiting line. Omitted means unbounded; when
	// set it must be at least 1.
	BufferSize *int `yaml:"buffer_size,omitempty"`

	// MaxPartsInProcess bounds concurrent parts in service. Defaults to 1.
	MaxPartsInProcess int `yaml:"max_parts_in_process,omitempty"`

	// MaxWorkersPerPart is the most workers one part may hold here.
	// 0 (the default) means the stage needs no workers.
	MaxWorkersPerPart int `yaml:"max_workers_per_part,omitempty"`
}

// PartTypeConfig defines one product line.
type PartTypeConfig struct {
	Name string `yaml:"name"`

	// Arrival is the inter-arrival distribution, in ticks. The first part
	// of every type arrives at tick 0.
	Arrival variate.Spec `yaml:"arrival"`

	// Route lists process names in traversal order.
	Route []string `yaml:"route"`
}

// WorkerConfig defines a group of interchangeable workers. Quantity N
// expands into N distinct workers named name0 … name(N-1).
type WorkerConfig struct {
	Name     string   `yaml:"name"`
	Quantity int      `yaml:"quantity,omitempty"`
	Skills   []string `yaml:"skills"`
}

// LineConfig is the top-level production-line configuration.
type LineConfig struct {
	// TimeUnit is an informational label for reports ("minutes", "hours").
	TimeUnit string `yaml:"time_unit,omitempty"`

	// SimulationTime is the horizon in ticks.
	SimulationTime int64 `yaml:"simulation_time"`

	// Seed controls all randomness. Defaults to 1.
	Seed int64 `yaml:"seed,omitempty"`

	Processes []ProcessConfig  `yaml:"processes"`
	PartTypes []PartTypeConfig `yaml:"part_types"`
	Workers   []WorkerConfig   `yaml:"workers,omitempty"`
}

// Load reads and parses a YAML line configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*LineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading line config: %w", err)
	}
	var cfg LineConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing line config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that all fields are valid and all cross-references
// resolve. Every failure here is fatal and precedes the first tick.
func (c *LineConfig) Validate() error {
	if c.SimulationTime <= 0 {
		return fmt.Errorf("simulation_time must be positive, got %d", c.SimulationTime)
	}
	if len(c.Processes) == 0 {
		return fmt.Errorf("at least one process required")
	}
	if len(c.PartTypes) == 0 {
		return fmt.Errorf("at least one part type required")
	}

	defined := make(map[string]bool, len(c.Processes))
	for i, p := range c.Processes {
		prefix := fmt.Sprintf("process[%d] %q", i, p.Name)
		if p.Name == "" {
			return fmt.Errorf("process[%d]: name must not be empty", i)
		}
		if defined[p.Name] {
			return fmt.Errorf("%s: duplicate process name", prefix)
		}
		defined[p.Name] = true
		if p.BufferSize != nil && *p.BufferSize < 1 {
			return fmt.Errorf("%s: buffer_size must be positive when set, got %d", prefix, *p.BufferSize)
		}
		if p.MaxPartsInProcess < 0 {
			return fmt.Errorf("%s: max_parts_in_process must not be negative, got %d", prefix, p.MaxPartsInProcess)
		}
		if p.MaxWorkersPerPart < 0 {
			return fmt.Errorf("%s: max_workers_per_part must not be negative, got %d", prefix, p.MaxWorkersPerPart)
		}
		if err := variate.Validate(p.Duration); err != nil {
			return fmt.Errorf("%s: duration: %w", prefix, err)
		}
	}

	typeNames := make(map[string]bool, len(c.PartTypes))
	for i, pt := range c.PartTypes {
		prefix := fmt.Sprintf("part_type[%d] %q", i, pt.Name)
		if pt.Name == "" {
			return fmt.Errorf("part_type[%d]: name must not be empty", i)
		}
		if typeNames[pt.Name] {
			return fmt.Errorf("%s: duplicate part type name", prefix)
		}
		typeNames[pt.Name] = true
		if len(pt.Route) == 0 {
			return fmt.Errorf("%s: route must not be empty", prefix)
		}
		for _, step := range pt.Route {
			if !defined[step] {
				return fmt.Errorf("%s: route references unknown process %q", prefix, step)
			}
		}
		if err := variate.Validate(pt.Arrival); err != nil {
			return fmt.Errorf("%s: arrival: %w", prefix, err)
		}
	}

	workerNames := make(map[string]bool, len(c.Workers))
	for i, w := range c.Workers {
		prefix := fmt.Sprintf("worker[%d] %q", i, w.Name)
		if w.Name == "" {
			return fmt.Errorf("worker[%d]: name must not be empty", i)
		}
		if workerNames[w.Name] {
			return fmt.Errorf("%s: duplicate worker name", prefix)
		}
		workerNames[w.Name] = true
		if w.Quantity < 0 {
			return fmt.Errorf("%s: quantity must not be negative, got %d", prefix, w.Quantity)
		}
		for _, skill := range w.Skills {
			if !defined[skill] {
				return fmt.Errorf("%s: skill references unknown process %q", prefix, skill)
			}
		}
	}

	return nil
}
