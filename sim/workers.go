package sim

// Worker is one member of the shared labor pool.
type Worker struct {
	ID     int
	Name   string
	Skills map[int]bool // process indices this worker is qualified for

	busy       bool
	processIdx int
	partID     int64
	busySince  int64

	// BusyTicks accumulates total assigned time, for utilization metrics.
	BusyTicks int64
}

// Busy reports whether the worker is currently assigned.
func (w *Worker) Busy() bool {
	return w.busy
}

// Assignment returns the (process, part) the worker serves.
// Only meaningful while Busy.
func (w *Worker) Assignment() (processIdx int, partID int64) {
	return w.processIdx, w.partID
}

// WorkerPool holds all workers in registration order. Allocation scans that
// fixed order, which makes every allocation decision deterministic.
type WorkerPool struct {
	workers []*Worker
}

// NewWorkerPool creates an empty pool.
func NewWorkerPool() *WorkerPool {
	return &WorkerPool{workers: make([]*Worker, 0)}
}

// Add registers one worker and returns it.
func (wp *WorkerPool) Add(name string, skills map[int]bool) *Worker {
	w := &Worker{
		ID:     len(wp.workers),
		Name:   name,
		Skills: skills,
	}
	wp.workers = append(wp.workers, w)
	return w
}

// Workers returns the pool contents in registration order.
func (wp *WorkerPool) Workers() []*Worker {
	return wp.workers
}

// Size returns the number of registered workers.
func (wp *WorkerPool) Size() int {
	return len(wp.workers)
}

// IdleQualified counts idle workers qualified for the given process.
func (wp *WorkerPool) IdleQualified(processIdx int) int {
	n := 0
	for _, w := range wp.workers {
		if !w.busy && w.Skills[processIdx] {
			n++
		}
	}
	return n
}

// Allocate gathers up to maxPerPart idle workers qualified for the process,
// scanning registration order, and marks them busy on the given part.
// maxPerPart 0 means the process needs no workers: the empty set succeeds.
// Otherwise at least one worker is required; fewer than maxPerPart is
// accepted (service may start understaffed). Zero available fails and
// leaves every worker untouched.
func (wp *WorkerPool) Allocate(processIdx, maxPerPart int, partID int64, now int64) ([]*Worker, bool) {
	if maxPerPart == 0 {
		return nil, true
	}

	var picked []*Worker
	for _, w := range wp.workers {
		if len(picked) == maxPerPart {
			break
		}
		if !w.busy && w.Skills[processIdx] {
			picked = append(picked, w)
		}
	}
	if len(picked) == 0 {
		return nil, false
	}

	for _, w := range picked {
		w.busy = true
		w.processIdx = processIdx
		w.partID = partID
		w.busySince = now
	}
	return picked, true
}

// Release returns workers to idle and accumulates their busy time.
func (wp *WorkerPool) Release(workers []*Worker, now int64) {
	for _, w := range workers {
		w.BusyTicks += now - w.busySince
		w.busy = false
		w.partID = 0
	}
}

// FinishAccounting closes out busy spans still open when a run ends, so
// utilization covers workers mid-service at the horizon.
func (wp *WorkerPool) FinishAccounting(now int64) {
	for _, w := range wp.workers {
		if w.busy {
			w.BusyTicks += now - w.busySince
			w.busySince = now
		}
	}
}
