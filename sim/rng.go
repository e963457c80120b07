package sim

import (
	"hash/fnv"
	"math/rand"
)

// Subsystem name prefixes for partitioned RNG streams. Arrivals of each part
// type and durations of each process draw from isolated streams, so adding a
// stage to a configuration does not perturb the arrival pattern.
const (
	subsystemArrivals  = "arrivals/"
	subsystemDurations = "durations/"
)

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem.
//
// Derivation: subsystem seed = master seed XOR fnv1a64(subsystem name).
// The same subsystem name always returns the same *rand.Rand instance.
//
// Thread-safety: NOT thread-safe. The factory is single-threaded.
type PartitionedRNG struct {
	masterSeed int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(masterSeed int64) *PartitionedRNG {
	return &PartitionedRNG{
		masterSeed: masterSeed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem, created lazily. Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	rng := rand.New(rand.NewSource(p.masterSeed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// ForArrivals returns the arrival stream of one part type.
func (p *PartitionedRNG) ForArrivals(partType string) *rand.Rand {
	return p.ForSubsystem(subsystemArrivals + partType)
}

// ForDurations returns the service-duration stream of one process.
func (p *PartitionedRNG) ForDurations(process string) *rand.Rand {
	return p.ForSubsystem(subsystemDurations + process)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
