package sim

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/factory-sim/factory-sim/sim/internal/testutil"
)

func TestMeanOverTime_EmptySeries(t *testing.T) {
	if got := MeanOverTime(nil, 100); got != 0 {
		t.Errorf("mean of empty series: got %v, want 0", got)
	}
}

func TestMeanOverTime_SingleSampleHolds(t *testing.T) {
	// GIVEN one sample of value 2 at tick 0
	series := []TickValue{{Tick: 0, Value: 2}}

	// THEN the value holds across the whole window
	if got := MeanOverTime(series, 10); got != 2.0 {
		t.Errorf("mean: got %v, want 2", got)
	}
}

func TestMeanOverTime_WeightsByDuration(t *testing.T) {
	// GIVEN a level that is 0 for 5 ticks then 10 for 5 ticks
	series := []TickValue{
		{Tick: 0, Value: 0},
		{Tick: 5, Value: 10},
	}

	// THEN the time-weighted mean over [0,10] is 5
	if got := MeanOverTime(series, 10); math.Abs(got-5.0) > 1e-12 {
		t.Errorf("mean: got %v, want 5", got)
	}
}

func TestMeanOverTime_UnevenSampleSpacing(t *testing.T) {
	// GIVEN samples at irregular ticks: 3 on [0,2), 1 on [2,8), 4 on [8,10]
	series := []TickValue{
		{Tick: 0, Value: 3},
		{Tick: 2, Value: 1},
		{Tick: 8, Value: 4},
	}

	// THEN weights follow the hold durations: (3*2 + 1*6 + 4*2) / 10
	want := 2.0
	if got := MeanOverTime(series, 10); math.Abs(got-want) > 1e-12 {
		t.Errorf("mean: got %v, want %v", got, want)
	}
}

func TestMeanOverTime_EndAtFirstSample(t *testing.T) {
	series := []TickValue{{Tick: 5, Value: 7}}
	if got := MeanOverTime(series, 5); got != 7.0 {
		t.Errorf("zero-width window: got %v, want the sampled value 7", got)
	}
}

func TestMetrics_ObserveTracksPeaks(t *testing.T) {
	// GIVEN a run that queues up and then drains
	f := mustFactory(t, Params{
		Processes: []ProcessSpec{{Name: "machining", Duration: constant(4), MaxInService: 1}},
		PartTypes: []PartTypeSpec{{Name: "widget", Arrival: constant(1), Route: []int{0}}},
		Horizon:   12,
		Seed:      1,
	})

	// WHEN the run completes
	runToEnd(t, f)

	// THEN the buffer series was sampled and the peak matches its maximum
	series := f.Metrics.BufferSeries["machining"]
	if len(series) == 0 {
		t.Fatal("no buffer samples recorded")
	}
	maxSeen := 0
	for _, tv := range series {
		if tv.Value > maxSeen {
			maxSeen = tv.Value
		}
	}
	if f.Metrics.PeakBuffer["machining"] != maxSeen {
		t.Errorf("peak buffer: got %d, series max %d", f.Metrics.PeakBuffer["machining"], maxSeen)
	}
	if f.Metrics.PeakOccupancy["machining"] != 1 {
		t.Errorf("peak occupancy: got %d, want 1", f.Metrics.PeakOccupancy["machining"])
	}

	// AND per-type counters agree with the accounting snapshot
	acct := f.Accounting()
	if f.Metrics.CreatedByType["widget"] != acct.Created {
		t.Errorf("created by type: got %d, accounting says %d", f.Metrics.CreatedByType["widget"], acct.Created)
	}
	if f.Metrics.CompletedByType["widget"] != acct.Completed {
		t.Errorf("completed by type: got %d, accounting says %d", f.Metrics.CompletedByType["widget"], acct.Completed)
	}
}

func TestMetrics_FinishCountsIncludeBlockedStages(t *testing.T) {
	// GIVEN a two-stage line where the second stage is the bottleneck
	f := mustFactory(t, Params{
		Processes: []ProcessSpec{
			{Name: "stamping", Duration: constant(1), MaxInService: 1},
			{Name: "curing", Duration: constant(6), BufferCap: 1, MaxInService: 1},
		},
		PartTypes: []PartTypeSpec{{Name: "widget", Arrival: constant(1), Route: []int{0, 1}}},
		Horizon:   30,
		Seed:      1,
	})

	// WHEN the run completes
	runToEnd(t, f)

	// THEN upstream finishes outnumber route completions, they are counted
	// when service ends rather than when the part moves on
	if f.Metrics.FinishedByProcess["stamping"] < f.CompletedCount() {
		t.Errorf("stamping finishes %d below completions %d",
			f.Metrics.FinishedByProcess["stamping"], f.CompletedCount())
	}
	if f.Metrics.FinishedByProcess["curing"] != f.CompletedCount() {
		t.Errorf("curing finishes: got %d, want %d (last stage)",
			f.Metrics.FinishedByProcess["curing"], f.CompletedCount())
	}
}

func TestMetrics_ReportGolden(t *testing.T) {
	// GIVEN the steady single-stage line
	f := mustFactory(t, Params{
		Processes: []ProcessSpec{{Name: "machining", Duration: constant(1), MaxInService: 1}},
		PartTypes: []PartTypeSpec{{Name: "widget", Arrival: constant(2), Route: []int{0}}},
		Horizon:   10,
		Seed:      1,
	})
	runToEnd(t, f)

	// THEN the report matches the golden fixture byte for byte
	var buf bytes.Buffer
	f.Metrics.Report(&buf, f.Clock, f.Pool)
	testutil.Golden(t, filepath.Join("testdata", "report.golden"), buf.Bytes())
}
