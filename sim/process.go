package sim

// ServiceRecord tracks one part being worked on at a stage. A record whose
// service has completed but whose part cannot route downstream stays in the
// slot (back-pressure); its workers are released at completion regardless.
type ServiceRecord struct {
	Part      *Part
	StartTick int64
	DoneAt    int64
	Workers   []*Worker
	Finished  bool
}

// ProcessState is the runtime state of one production stage: the FIFO
// buffer in front of it and the bounded set of in-service records.
type ProcessState struct {
	Idx    int
	Spec   ProcessSpec
	Buffer *Buffer

	// InService holds records in start order, at most Spec.MaxInService.
	// Finished-but-blocked records still occupy their slot.
	InService []*ServiceRecord
}

func newProcessState(idx int, spec ProcessSpec) *ProcessState {
	return &ProcessState{
		Idx:    idx,
		Spec:   spec,
		Buffer: NewBuffer(spec.BufferCap),
	}
}

// SlotFree reports whether another part may enter service.
func (p *ProcessState) SlotFree() bool {
	return len(p.InService) < p.Spec.MaxInService
}

// Admit enqueues the part at the buffer tail iff there is room.
// Failure has no side effects; callers retry on a later sweep.
func (p *ProcessState) Admit(part *Part, now int64, viaRouting bool) bool {
	if !p.Buffer.HasRoom() {
		return false
	}
	p.Buffer.push(part, now, viaRouting)
	part.State = PartStateWaiting
	return true
}

// removeRecord deletes one record, preserving start order.
func (p *ProcessState) removeRecord(rec *ServiceRecord) {
	for i, r := range p.InService {
		if r == rec {
			p.InService = append(p.InService[:i], p.InService[i+1:]...)
			return
		}
	}
}

// recordForPart finds the in-service record holding the given part.
func (p *ProcessState) recordForPart(partID int64) *ServiceRecord {
	for _, r := range p.InService {
		if r.Part.ID == partID {
			return r
		}
	}
	return nil
}

// BlockedFinishers counts records done with service but unable to route on.
func (p *ProcessState) BlockedFinishers() int {
	n := 0
	for _, r := range p.InService {
		if r.Finished {
			n++
		}
	}
	return n
}
