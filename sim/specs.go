package sim

import (
	"github.com/factory-sim/factory-sim/sim/variate"
)

// ProcessSpec is the immutable definition of one production stage.
// Routes and worker skills reference processes by index into the factory's
// process table, so a stage shared by several part types is one instance.
type ProcessSpec struct {
	Name     string
	Duration variate.Spec

	// BufferCap bounds the waiting line in front of the stage. 0 = unbounded.
	BufferCap int

	// MaxInService bounds concurrent parts being worked on (>= 1).
	MaxInService int

	// MaxWorkersPerPart is the most workers one part may hold at this stage.
	// 0 means the stage needs no workers (pure machine time).
	MaxWorkersPerPart int
}

// PartTypeSpec is the immutable definition of a product line: how parts of
// this type arrive and the ordered stages they traverse.
type PartTypeSpec struct {
	Name    string
	Arrival variate.Spec
	Route   []int
}

// WorkerSpec is one worker identity and the stages it is qualified for.
type WorkerSpec struct {
	Name   string
	Skills []int
}
