package sim

import (
	"fmt"
	"strings"
)

// bufferEntry records a waiting part plus how and when it reached the buffer.
// Parts routed in from an upstream stage during the current tick are not
// eligible to start service until the next tick (synchronous update); the
// viaRouting mark carries that distinction.
type bufferEntry struct {
	part        *Part
	enteredTick int64
	viaRouting  bool
}

// Buffer is the FIFO holding area in front of one process.
// Entries are never reordered: arrival-to-buffer order is service order.
type Buffer struct {
	cap     int // 0 = unbounded
	entries []bufferEntry
}

// NewBuffer creates a buffer with the given capacity (0 = unbounded).
func NewBuffer(cap int) *Buffer {
	return &Buffer{cap: cap}
}

// Len returns the number of waiting parts.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// HasRoom reports whether one more part fits.
func (b *Buffer) HasRoom() bool {
	return b.cap == 0 || len(b.entries) < b.cap
}

// push appends a part at the tail. Callers check HasRoom first; a push into
// a full buffer is a bug in the sweep, not simulated back-pressure.
func (b *Buffer) push(part *Part, tick int64, viaRouting bool) {
	if !b.HasRoom() {
		panic(fmt.Sprintf("buffer overflow: part %d pushed into full buffer (cap %d)", part.ID, b.cap))
	}
	b.entries = append(b.entries, bufferEntry{part: part, enteredTick: tick, viaRouting: viaRouting})
}

// head returns the front entry without removing it.
func (b *Buffer) head() (bufferEntry, bool) {
	if len(b.entries) == 0 {
		return bufferEntry{}, false
	}
	return b.entries[0], true
}

// popHead removes and returns the front part.
func (b *Buffer) popHead() *Part {
	if len(b.entries) == 0 {
		return nil
	}
	part := b.entries[0].part
	b.entries = b.entries[1:]
	return part
}

// Parts returns the waiting parts in FIFO order.
func (b *Buffer) Parts() []*Part {
	parts := make([]*Part, len(b.entries))
	for i, entry := range b.entries {
		parts[i] = entry.part
	}
	return parts
}

func (b *Buffer) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, entry := range b.entries {
		sb.WriteString(fmt.Sprint(entry.part.ID))
		if i < len(b.entries)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
