package sim

// PartState represents the lifecycle state of a part.
type PartState string

const (
	// PartStatePendingArrival: created by an arrival event but not yet
	// admitted to its first buffer (held in the type's staging queue).
	PartStatePendingArrival PartState = "PENDING_ARRIVAL"
	PartStateWaiting        PartState = "WAITING"
	PartStateInService      PartState = "IN_SERVICE"
	PartStateCompleted      PartState = "COMPLETED"
)

// Part is one unit of production flowing through its type's route.
// A part is always in exactly one place: its type's staging queue, one
// buffer, or one in-service record, until it completes.
type Part struct {
	ID      int64
	TypeIdx int

	// RoutePos is the index into the route of the stage the part currently
	// waits for or is served by.
	RoutePos int

	State PartState

	ArrivalTick    int64
	CompletionTick int64

	// WaitTicks accumulates time spent in buffers across all stages.
	WaitTicks int64
}
