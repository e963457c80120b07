package sim

import "container/heap"

// timeline is the pending-event min-queue with deterministic ordering:
// timestamp, then event-type priority, then event ID.
type timeline struct {
	events []Event
}

func newTimeline() *timeline {
	tl := &timeline{events: make([]Event, 0)}
	heap.Init(tl)
	return tl
}

// Len implements heap.Interface
func (tl *timeline) Len() int {
	return len(tl.events)
}

// Less implements heap.Interface with deterministic ordering
func (tl *timeline) Less(i, j int) bool {
	ei, ej := tl.events[i], tl.events[j]

	if ei.Timestamp() != ej.Timestamp() {
		return ei.Timestamp() < ej.Timestamp()
	}

	priI := EventTypePriority[ei.Type()]
	priJ := EventTypePriority[ej.Type()]
	if priI != priJ {
		return priI < priJ
	}

	return ei.EventID() < ej.EventID()
}

// Swap implements heap.Interface
func (tl *timeline) Swap(i, j int) {
	tl.events[i], tl.events[j] = tl.events[j], tl.events[i]
}

// Push implements heap.Interface
func (tl *timeline) Push(x interface{}) {
	tl.events = append(tl.events, x.(Event))
}

// Pop implements heap.Interface
func (tl *timeline) Pop() interface{} {
	old := tl.events
	n := len(old)
	item := old[n-1]
	tl.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the timeline.
func (tl *timeline) Schedule(e Event) {
	heap.Push(tl, e)
}

// NextTime returns the earliest pending timestamp.
// The second result is false when the timeline is empty.
func (tl *timeline) NextTime() (int64, bool) {
	if tl.Len() == 0 {
		return 0, false
	}
	return tl.events[0].Timestamp(), true
}

// PopDue removes and returns every event stamped ts, in deterministic order.
// The factory drains one tick at a time, so all simultaneous events are
// applied before any allocation decision is made.
func (tl *timeline) PopDue(ts int64) []Event {
	var due []Event
	for tl.Len() > 0 && tl.events[0].Timestamp() == ts {
		due = append(due, heap.Pop(tl).(Event))
	}
	return due
}
