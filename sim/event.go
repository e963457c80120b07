package sim

// EventType labels the kinds of occurrences on the factory timeline.
type EventType string

const (
	EventTypePartArrival EventType = "PartArrival"
	EventTypeServiceDone EventType = "ServiceDone"
	EventTypeRetrySweep  EventType = "RetrySweep"
)

// EventTypePriority defines ordering for simultaneous events.
// Lower values are processed first: arrivals land in staging before
// completions free slots, and retry sweeps carry no state of their own.
var EventTypePriority = map[EventType]int{
	EventTypePartArrival: 1,
	EventTypeServiceDone: 2,
	EventTypeRetrySweep:  3,
}

// Event is one scheduled occurrence in simulated time.
type Event interface {
	Timestamp() int64
	EventID() uint64
	Type() EventType
	Execute(f *Factory)
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	timestamp int64
	eventID   uint64
	eventType EventType
}

func newBaseEvent(timestamp int64, eventType EventType, id uint64) BaseEvent {
	return BaseEvent{
		timestamp: timestamp,
		eventID:   id,
		eventType: eventType,
	}
}

func (e *BaseEvent) Timestamp() int64 {
	return e.timestamp
}

func (e *BaseEvent) EventID() uint64 {
	return e.eventID
}

func (e *BaseEvent) Type() EventType {
	return e.eventType
}

// PartArrivalEvent fires when a part of one type reaches the line.
type PartArrivalEvent struct {
	BaseEvent
	TypeIdx int
}

func NewPartArrivalEvent(timestamp int64, typeIdx int, id uint64) *PartArrivalEvent {
	return &PartArrivalEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypePartArrival, id),
		TypeIdx:   typeIdx,
	}
}

func (e *PartArrivalEvent) Execute(f *Factory) {
	f.handlePartArrival(e)
}

// ServiceDoneEvent fires when a part's service at one stage completes.
type ServiceDoneEvent struct {
	BaseEvent
	ProcessIdx int
	PartID     int64
}

func NewServiceDoneEvent(timestamp int64, processIdx int, partID int64, id uint64) *ServiceDoneEvent {
	return &ServiceDoneEvent{
		BaseEvent:  newBaseEvent(timestamp, EventTypeServiceDone, id),
		ProcessIdx: processIdx,
		PartID:     partID,
	}
}

func (e *ServiceDoneEvent) Execute(f *Factory) {
	f.handleServiceDone(e)
}

// RetrySweepEvent carries no payload; it forces the allocation sweep to run
// at a tick that would otherwise have no event, so that parts deferred by
// same-tick routing become eligible to start service.
type RetrySweepEvent struct {
	BaseEvent
}

func NewRetrySweepEvent(timestamp int64, id uint64) *RetrySweepEvent {
	return &RetrySweepEvent{
		BaseEvent: newBaseEvent(timestamp, EventTypeRetrySweep, id),
	}
}

func (e *RetrySweepEvent) Execute(f *Factory) {
	// The sweep after the event drain does the work.
}
