package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/trace"
	"github.com/factory-sim/factory-sim/sim/variate"
)

// Params bundles everything needed to build a Factory.
type Params struct {
	Processes []ProcessSpec
	PartTypes []PartTypeSpec
	Workers   []WorkerSpec

	Horizon  int64
	TimeUnit string
	Seed     int64

	TraceLevel trace.Level
}

// Factory owns the whole line: process states, the worker pool, per-type
// staging queues, the clock and the pending-event timeline. It is the only
// mutator of simulation state; one call to Step is the transaction boundary.
type Factory struct {
	Processes []*ProcessState
	PartTypes []PartTypeSpec
	Pool      *WorkerPool

	Horizon  int64
	TimeUnit string
	Clock    int64

	Metrics *Metrics
	Trace   *trace.LineTrace

	timeline *timeline

	// staging holds arrived parts whose first buffer was full, one
	// unbounded FIFO per part type. Arrivals block here, they are never
	// dropped.
	staging [][]*Part

	parts     []*Part
	completed int64

	rng             *PartitionedRNG
	arrivalSources  []variate.Source
	durationSources []variate.Source

	nextEventID    uint64
	retryScheduled map[int64]bool

	err error
}

// NewFactory validates the specs and builds a ready-to-run factory with the
// first arrival of every part type scheduled at tick 0.
func NewFactory(params Params) (*Factory, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	f := &Factory{
		PartTypes:      params.PartTypes,
		Pool:           NewWorkerPool(),
		Horizon:        params.Horizon,
		TimeUnit:       params.TimeUnit,
		Metrics:        newMetrics(),
		Trace:          trace.NewLineTrace(params.TraceLevel),
		timeline:       newTimeline(),
		rng:            NewPartitionedRNG(params.Seed),
		retryScheduled: make(map[int64]bool),
	}

	f.Processes = make([]*ProcessState, len(params.Processes))
	f.durationSources = make([]variate.Source, len(params.Processes))
	for i, spec := range params.Processes {
		f.Processes[i] = newProcessState(i, spec)
		f.durationSources[i] = variate.NewSource(f.rng.ForDurations(spec.Name))
	}

	f.staging = make([][]*Part, len(params.PartTypes))
	f.arrivalSources = make([]variate.Source, len(params.PartTypes))
	for i, spec := range params.PartTypes {
		f.staging[i] = make([]*Part, 0)
		f.arrivalSources[i] = variate.NewSource(f.rng.ForArrivals(spec.Name))
		f.schedule(NewPartArrivalEvent(0, i, f.newEventID()))
	}

	for _, spec := range params.Workers {
		skills := make(map[int]bool, len(spec.Skills))
		for _, idx := range spec.Skills {
			skills[idx] = true
		}
		f.Pool.Add(spec.Name, skills)
	}

	return f, nil
}

func validateParams(params Params) error {
	if params.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", params.Horizon)
	}
	if len(params.Processes) == 0 {
		return fmt.Errorf("at least one process required")
	}
	if len(params.PartTypes) == 0 {
		return fmt.Errorf("at least one part type required")
	}

	processNames := make(map[string]bool, len(params.Processes))
	for i, p := range params.Processes {
		prefix := fmt.Sprintf("process[%d] %q", i, p.Name)
		if p.Name == "" {
			return fmt.Errorf("process[%d]: name must not be empty", i)
		}
		if processNames[p.Name] {
			return fmt.Errorf("%s: duplicate process name", prefix)
		}
		processNames[p.Name] = true
		if p.BufferCap < 0 {
			return fmt.Errorf("%s: buffer capacity must not be negative, got %d", prefix, p.BufferCap)
		}
		if p.MaxInService < 1 {
			return fmt.Errorf("%s: max parts in service must be at least 1, got %d", prefix, p.MaxInService)
		}
		if p.MaxWorkersPerPart < 0 {
			return fmt.Errorf("%s: max workers per part must not be negative, got %d", prefix, p.MaxWorkersPerPart)
		}
		if err := variate.Validate(p.Duration); err != nil {
			return fmt.Errorf("%s: duration: %w", prefix, err)
		}
	}

	typeNames := make(map[string]bool, len(params.PartTypes))
	for i, pt := range params.PartTypes {
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
		for j, idx := range pt.Route {
			if idx < 0 || idx >= len(params.Processes) {
				return fmt.Errorf("%s: route[%d] references process %d, have %d processes", prefix, j, idx, len(params.Processes))
			}
		}
		if err := variate.Validate(pt.Arrival); err != nil {
			return fmt.Errorf("%s: arrival: %w", prefix, err)
		}
	}

	workerNames := make(map[string]bool, len(params.Workers))
	for i, w := range params.Workers {
		prefix := fmt.Sprintf("worker[%d] %q", i, w.Name)
		if w.Name == "" {
			return fmt.Errorf("worker[%d]: name must not be empty", i)
		}
		if workerNames[w.Name] {
			return fmt.Errorf("%s: duplicate worker name", prefix)
		}
		workerNames[w.Name] = true
		for _, idx := range w.Skills {
			if idx < 0 || idx >= len(params.Processes) {
				return fmt.Errorf("%s: skill references process %d, have %d processes", prefix, idx, len(params.Processes))
			}
		}
	}

	return nil
}

func (f *Factory) newEventID() uint64 {
	f.nextEventID++
	return f.nextEventID
}

func (f *Factory) schedule(e Event) {
	f.timeline.Schedule(e)
}

// scheduleRetry schedules one RetrySweepEvent per tick at most.
func (f *Factory) scheduleRetry(ts int64) {
	if f.retryScheduled[ts] {
		return
	}
	f.retryScheduled[ts] = true
	f.schedule(NewRetrySweepEvent(ts, f.newEventID()))
}

// fail records the first fatal error; the run stops at the current tick.
func (f *Factory) fail(err error) {
	if f.err == nil {
		f.err = err
		logrus.Errorf("[tick %07d] fatal: %v", f.Clock, err)
	}
}

// Step processes the next pending tick: applies every event stamped with it,
// then runs the allocation sweep to a fixpoint. It returns false once no
// event at or before the horizon remains.
func (f *Factory) Step() (bool, error) {
	if f.err != nil {
		return false, f.err
	}

	ts, ok := f.timeline.NextTime()
	if !ok || ts > f.Horizon {
		return false, nil
	}
	if ts < f.Clock {
		panic(fmt.Sprintf("clock went backwards: %d < %d", ts, f.Clock))
	}
	f.Clock = ts

	for _, e := range f.timeline.PopDue(ts) {
		e.Execute(f)
	}
	delete(f.retryScheduled, ts)

	f.sweep()
	if f.err != nil {
		return false, f.err
	}

	f.Metrics.observe(f)
	return true, nil
}

// Run drives Step until the horizon, then closes out worker accounting.
// The only fatal runtime condition is a sampling failure.
func (f *Factory) Run() error {
	logrus.Debugf("starting run: %d processes, %d part types, %d workers, horizon %d %s",
		len(f.Processes), len(f.PartTypes), f.Pool.Size(), f.Horizon, f.TimeUnit)
	for {
		more, err := f.Step()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	f.Pool.FinishAccounting(f.Clock)
	return nil
}

// Event handlers

func (f *Factory) handlePartArrival(e *PartArrivalEvent) {
	pt := f.PartTypes[e.TypeIdx]
	part := &Part{
		ID:             int64(len(f.parts) + 1),
		TypeIdx:        e.TypeIdx,
		State:          PartStatePendingArrival,
		ArrivalTick:    e.Timestamp(),
		CompletionTick: -1,
	}
	f.parts = append(f.parts, part)
	f.staging[e.TypeIdx] = append(f.staging[e.TypeIdx], part)
	f.Metrics.recordArrival(pt.Name)
	f.Trace.RecordArrival(trace.ArrivalRecord{Tick: e.Timestamp(), PartID: part.ID, PartType: pt.Name})
	logrus.Debugf("[tick %07d] part %d (%s) arrives", e.Timestamp(), part.ID, pt.Name)

	gap, err := f.arrivalSources[e.TypeIdx].Sample(pt.Arrival.Type, pt.Arrival.Params)
	if err != nil {
		f.fail(fmt.Errorf("arrival gap for %s: %w", pt.Name, err))
		return
	}
	ticks := int64(math.Round(gap))
	if ticks < 1 {
		ticks = 1
	}
	f.schedule(NewPartArrivalEvent(e.Timestamp()+ticks, e.TypeIdx, f.newEventID()))
}

func (f *Factory) handleServiceDone(e *ServiceDoneEvent) {
	p := f.Processes[e.ProcessIdx]
	rec := p.recordForPart(e.PartID)
	if rec == nil || rec.Finished {
		return
	}
	rec.Finished = true
	f.Pool.Release(rec.Workers, e.Timestamp())
	rec.Workers = nil
	f.Metrics.recordFinish(p.Spec.Name)
	f.Trace.RecordFinish(trace.FinishRecord{Tick: e.Timestamp(), PartID: e.PartID, Process: p.Spec.Name})
	logrus.Debugf("[tick %07d] part %d finishes %s", e.Timestamp(), e.PartID, p.Spec.Name)
}

// Allocation sweep

// sweep runs the three decision phases to a fixpoint: admit staged
// arrivals, route finished parts downstream, start service from buffers.
// Zero-duration services finish inside the sweep, so a part can clear an
// instant stage and block on the next one within a single tick.
func (f *Factory) sweep() {
	for f.err == nil {
		changed := false
		if f.admitStaged() {
			changed = true
		}
		if f.routeFinished() {
			changed = true
		}
		if f.startService() {
			changed = true
		}
		if !changed {
			break
		}
	}
	if f.err != nil {
		return
	}
	f.closeTick()
}

// admitStaged moves staged arrivals into first-stage buffers, part types in
// registration order, each type strictly FIFO.
func (f *Factory) admitStaged() bool {
	changed := false
	for ti := range f.PartTypes {
		first := f.Processes[f.PartTypes[ti].Route[0]]
		for len(f.staging[ti]) > 0 {
			part := f.staging[ti][0]
			if !first.Admit(part, f.Clock, false) {
				break
			}
			f.staging[ti] = f.staging[ti][1:]
			changed = true
			logrus.Debugf("[tick %07d] part %d admitted to %s", f.Clock, part.ID, first.Spec.Name)
		}
	}
	return changed
}

// routeFinished advances finished parts to their next stage's buffer, or
// completes them after the last stage. A part whose destination buffer is
// full keeps its service slot (back-pressure) and is retried on the next
// pass or tick.
func (f *Factory) routeFinished() bool {
	changed := false
	for _, p := range f.Processes {
		records := append([]*ServiceRecord(nil), p.InService...)
		for _, rec := range records {
			if !rec.Finished {
				continue
			}
			part := rec.Part
			route := f.PartTypes[part.TypeIdx].Route

			if part.RoutePos == len(route)-1 {
				part.State = PartStateCompleted
				part.CompletionTick = f.Clock
				f.completed++
				p.removeRecord(rec)
				f.Metrics.recordCompletion(PartCompletion{
					PartID:         part.ID,
					PartType:       f.PartTypes[part.TypeIdx].Name,
					ArrivalTick:    part.ArrivalTick,
					CompletionTick: f.Clock,
					WaitTicks:      part.WaitTicks,
				})
				f.Trace.RecordCompletion(trace.CompletionRecord{Tick: f.Clock, PartID: part.ID, PartType: f.PartTypes[part.TypeIdx].Name})
				logrus.Debugf("[tick %07d] part %d completes its route at %s", f.Clock, part.ID, p.Spec.Name)
				changed = true
				continue
			}

			dest := f.Processes[route[part.RoutePos+1]]
			if dest.Admit(part, f.Clock, true) {
				part.RoutePos++
				p.removeRecord(rec)
				changed = true
				logrus.Debugf("[tick %07d] part %d moves %s -> %s", f.Clock, part.ID, p.Spec.Name, dest.Spec.Name)
			}
		}
	}
	return changed
}

// startService pulls buffer heads into free service slots. Strict FIFO with
// head-of-line blocking: a head that cannot start (deferred entry or no
// qualified idle worker) stops the scan for its process this tick.
func (f *Factory) startService() bool {
	changed := false
	for _, p := range f.Processes {
		for p.SlotFree() {
			entry, ok := p.Buffer.head()
			if !ok {
				break
			}
			// Parts routed in during this tick are invisible to this
			// tick's start decisions (synchronous update).
			if entry.viaRouting && entry.enteredTick == f.Clock {
				break
			}

			workers, ok := f.Pool.Allocate(p.Idx, p.Spec.MaxWorkersPerPart, entry.part.ID, f.Clock)
			if !ok {
				break
			}

			d, err := f.durationSources[p.Idx].Sample(p.Spec.Duration.Type, p.Spec.Duration.Params)
			if err != nil {
				f.Pool.Release(workers, f.Clock)
				f.fail(fmt.Errorf("service duration for %s: %w", p.Spec.Name, err))
				return changed
			}
			ticks := int64(math.Round(d))
			if ticks < 0 {
				ticks = 0
			}

			part := p.Buffer.popHead()
			part.State = PartStateInService
			part.WaitTicks += f.Clock - entry.enteredTick
			rec := &ServiceRecord{
				Part:      part,
				StartTick: f.Clock,
				DoneAt:    f.Clock + ticks,
				Workers:   workers,
			}
			p.InService = append(p.InService, rec)
			changed = true

			names := make([]string, len(workers))
			for i, w := range workers {
				names[i] = w.Name
			}
			f.Trace.RecordStart(trace.StartRecord{Tick: f.Clock, PartID: part.ID, Process: p.Spec.Name, Duration: ticks, Workers: names})
			logrus.Debugf("[tick %07d] part %d starts %s (duration %d, workers %v)", f.Clock, part.ID, p.Spec.Name, ticks, names)

			if ticks == 0 {
				rec.Finished = true
				f.Pool.Release(rec.Workers, f.Clock)
				rec.Workers = nil
				f.Metrics.recordFinish(p.Spec.Name)
				f.Trace.RecordFinish(trace.FinishRecord{Tick: f.Clock, PartID: part.ID, Process: p.Spec.Name})
				logrus.Debugf("[tick %07d] part %d finishes %s", f.Clock, part.ID, p.Spec.Name)
			} else {
				f.schedule(NewServiceDoneEvent(f.Clock+ticks, p.Idx, part.ID, f.newEventID()))
			}
		}
	}
	return changed
}

// closeTick records end-of-tick back-pressure and, when a routed part was
// deferred, schedules a retry sweep for the next tick. Deferred entries are
// the only time-based eligibility change in the model; everything else is
// unblocked by future events.
func (f *Factory) closeTick() {
	needRetry := false
	for _, p := range f.Processes {
		if entry, ok := p.Buffer.head(); ok && entry.viaRouting && entry.enteredTick == f.Clock {
			needRetry = true
		}
		for _, rec := range p.InService {
			if !rec.Finished {
				continue
			}
			route := f.PartTypes[rec.Part.TypeIdx].Route
			dest := f.Processes[route[rec.Part.RoutePos+1]]
			f.Trace.RecordBlock(trace.BlockRecord{
				Tick:        f.Clock,
				PartID:      rec.Part.ID,
				Source:      p.Spec.Name,
				Destination: dest.Spec.Name,
			})
			logrus.Debugf("[tick %07d] part %d blocked at %s (buffer of %s full)", f.Clock, rec.Part.ID, p.Spec.Name, dest.Spec.Name)
		}
	}
	if needRetry {
		f.scheduleRetry(f.Clock + 1)
	}
}

// Observation surface

// Accounting is the conservation snapshot: every created part is completed
// or still tracked in exactly one place.
type Accounting struct {
	Created   int64
	Completed int64
	Staged    int64
	Buffered  int64
	InService int64
}

// Accounting scans current state. Created always equals
// Completed + Staged + Buffered + InService.
func (f *Factory) Accounting() Accounting {
	a := Accounting{Created: int64(len(f.parts)), Completed: f.completed}
	for _, q := range f.staging {
		a.Staged += int64(len(q))
	}
	for _, p := range f.Processes {
		a.Buffered += int64(p.Buffer.Len())
		a.InService += int64(len(p.InService))
	}
	return a
}

// Parts returns every part created so far, in creation order.
func (f *Factory) Parts() []*Part {
	return f.parts
}

// CompletedCount returns the number of parts that finished their route.
func (f *Factory) CompletedCount() int64 {
	return f.completed
}
