package sim

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// TickValue is one sampled point of a per-process time series. The clock
// only advances to ticks where something happened, so a value holds from
// its tick until the next sampled tick.
type TickValue struct {
	Tick  int64
	Value int
}

// PartCompletion records one part that finished its whole route.
type PartCompletion struct {
	PartID         int64
	PartType       string
	ArrivalTick    int64
	CompletionTick int64
	WaitTicks      int64
}

// Metrics is the pull-based observation surface of a run: per-process
// buffer and occupancy series sampled at the end of every processed tick,
// per-part completion records, and per-type counters.
type Metrics struct {
	BufferSeries    map[string][]TickValue
	OccupancySeries map[string][]TickValue
	PeakBuffer      map[string]int
	PeakOccupancy   map[string]int

	Completions []PartCompletion

	CreatedByType     map[string]int64
	CompletedByType   map[string]int64
	FinishedByProcess map[string]int64
}

func newMetrics() *Metrics {
	return &Metrics{
		BufferSeries:      make(map[string][]TickValue),
		OccupancySeries:   make(map[string][]TickValue),
		PeakBuffer:        make(map[string]int),
		PeakOccupancy:     make(map[string]int),
		Completions:       make([]PartCompletion, 0),
		CreatedByType:     make(map[string]int64),
		CompletedByType:   make(map[string]int64),
		FinishedByProcess: make(map[string]int64),
	}
}

// observe samples every process at the end of one processed tick.
func (m *Metrics) observe(f *Factory) {
	for _, p := range f.Processes {
		name := p.Spec.Name
		blen := p.Buffer.Len()
		occ := len(p.InService)
		m.BufferSeries[name] = append(m.BufferSeries[name], TickValue{Tick: f.Clock, Value: blen})
		m.OccupancySeries[name] = append(m.OccupancySeries[name], TickValue{Tick: f.Clock, Value: occ})
		if blen > m.PeakBuffer[name] {
			m.PeakBuffer[name] = blen
		}
		if occ > m.PeakOccupancy[name] {
			m.PeakOccupancy[name] = occ
		}
	}
}

func (m *Metrics) recordArrival(partType string) {
	m.CreatedByType[partType]++
}

func (m *Metrics) recordFinish(process string) {
	m.FinishedByProcess[process]++
}

func (m *Metrics) recordCompletion(c PartCompletion) {
	m.Completions = append(m.Completions, c)
	m.CompletedByType[c.PartType]++
}

// MeanOverTime computes the time-weighted mean of a series on [first
// sampled tick, end]. Each sampled value holds until the next sample.
func MeanOverTime(series []TickValue, end int64) float64 {
	if len(series) == 0 {
		return 0
	}
	start := series[0].Tick
	if end <= start {
		return float64(series[0].Value)
	}
	var weighted float64
	for i, tv := range series {
		until := end
		if i+1 < len(series) {
			until = series[i+1].Tick
		}
		weighted += float64(tv.Value) * float64(until-tv.Tick)
	}
	return weighted / float64(end-start)
}

// Report writes a human-readable run summary to w. clock is the last
// processed tick; worker utilization fractions are relative to it.
func (m *Metrics) Report(w io.Writer, clock int64, pool *WorkerPool) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")

	var created, completed int64
	for _, n := range m.CreatedByType {
		created += n
	}
	for _, n := range m.CompletedByType {
		completed += n
	}
	fmt.Fprintf(w, "Parts created        : %d\n", created)
	fmt.Fprintf(w, "Parts completed      : %d\n", completed)

	fmt.Fprintln(w, "Per part type:")
	for _, name := range sortedKeys(m.CreatedByType) {
		done := m.CompletedByType[name]
		var cycleSum, waitSum int64
		for _, c := range m.Completions {
			if c.PartType != name {
				continue
			}
			cycleSum += c.CompletionTick - c.ArrivalTick
			waitSum += c.WaitTicks
		}
		line := fmt.Sprintf("  %-12s : created %d, completed %d", name, m.CreatedByType[name], done)
		if done > 0 {
			line += fmt.Sprintf(", avg cycle %.2f ticks, avg wait %.2f ticks",
				float64(cycleSum)/float64(done), float64(waitSum)/float64(done))
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w, "Per process:")
	for _, name := range sortedKeys(m.BufferSeries) {
		fmt.Fprintf(w, "  %-12s : mean buffer %.2f, peak buffer %d, peak in-service %d, finished %d\n",
			name, MeanOverTime(m.BufferSeries[name], clock), m.PeakBuffer[name],
			m.PeakOccupancy[name], m.FinishedByProcess[name])
	}

	if pool.Size() > 0 {
		fmt.Fprintln(w, "Per worker:")
		for _, wk := range pool.Workers() {
			util := 0.0
			if clock > 0 {
				util = float64(wk.BusyTicks) / float64(clock) * 100
			}
			fmt.Fprintf(w, "  %-12s : busy %d ticks (%.1f%%)\n", wk.Name, wk.BusyTicks, util)
		}
	}
}

// Print writes the summary to stdout.
func (m *Metrics) Print(clock int64, pool *WorkerPool) {
	m.Report(os.Stdout, clock, pool)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
