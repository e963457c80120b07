package config

import (
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/factory-sim/factory-sim/sim"
)

// Params validates the config and resolves it into engine parameters:
// process names become table indices, worker groups expand into distinct
// workers, defaults are applied.
func (c *LineConfig) Params() (sim.Params, error) {
	if err := c.Validate(); err != nil {
		return sim.Params{}, err
	}

	params := sim.Params{
		Horizon:  c.SimulationTime,
		TimeUnit: c.TimeUnit,
		Seed:     c.Seed,
	}
	if params.TimeUnit == "" {
		params.TimeUnit = "ticks"
	}
	if params.Seed == 0 {
		params.Seed = 1
	}

	index := make(map[string]int, len(c.Processes))
	params.Processes = make([]sim.ProcessSpec, len(c.Processes))
	for i, p := range c.Processes {
		index[p.Name] = i
		spec := sim.ProcessSpec{
			Name:              p.Name,
			Duration:          p.Duration,
			MaxInService:      p.MaxPartsInProcess,
			MaxWorkersPerPart: p.MaxWorkersPerPart,
		}
		if spec.MaxInService == 0 {
			spec.MaxInService = 1
		}
		if p.BufferSize != nil {
			spec.BufferCap = *p.BufferSize
		}
		params.Processes[i] = spec
	}

	params.PartTypes = make([]sim.PartTypeSpec, len(c.PartTypes))
	for i, pt := range c.PartTypes {
		route := make([]int, len(pt.Route))
		for j, step := range pt.Route {
			route[j] = index[step]
		}
		params.PartTypes[i] = sim.PartTypeSpec{
			Name:    pt.Name,
			Arrival: pt.Arrival,
			Route:   route,
		}
	}

	for _, w := range c.Workers {
		quantity := w.Quantity
		if quantity == 0 {
			quantity = 1
		}
		skills := make([]int, len(w.Skills))
		for j, skill := range w.Skills {
			skills[j] = index[skill]
		}
		for n := 0; n < quantity; n++ {
			params.Workers = append(params.Workers, sim.WorkerSpec{
				Name:   fmt.Sprintf("%s%d", w.Name, n),
				Skills: skills,
			})
		}
	}

	return params, nil
}

// Build validates the config and constructs a ready-to-run factory.
func (c *LineConfig) Build() (*sim.Factory, error) {
	params, err := c.Params()
	if err != nil {
		return nil, err
	}
	return sim.NewFactory(params)
}

// GenerateSchema produces a JSON Schema for the YAML line configuration.
func GenerateSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		FieldNameTag: "yaml",
	}
	s := r.Reflect(&LineConfig{})
	s.Title = "Production Line Configuration"
	s.Description = "Schema for factory-sim line configuration files."
	return s
}
