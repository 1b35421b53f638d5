package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical RunConfig
// MUST produce identical Stats.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Replication returns the key of independent replication rep of a sweep
// point. Replication 0 is k itself, so a single-replication sweep reproduces
// a plain run with the same seed. Later replications draw their key from the
// SubsystemReplication stream of k.
func (k SimulationKey) Replication(rep int) SimulationKey {
	if rep < 0 {
		panic(fmt.Sprintf("SimulationKey.Replication: negative replication %d", rep))
	}
	if rep == 0 {
		return k
	}
	return SimulationKey(NewPartitionedRNG(k).ForSubsystem(SubsystemReplication(rep)).Int63())
}

// === Subsystem Constants ===

const (
	// SubsystemArrival drives inter-arrival draws.
	// Uses master seed directly.
	SubsystemArrival = "arrival"

	// SubsystemService drives per-call service time draws.
	SubsystemService = "service"

	// SubsystemPlacement picks the cell an arriving call lands in.
	SubsystemPlacement = "placement"

	// SubsystemMotion draws the initial offset of a call inside its cell.
	SubsystemMotion = "motion"
)

// SubsystemReplication returns the subsystem name seeding replication rep.
func SubsystemReplication(rep int) string {
	return fmt.Sprintf("replication_%d", rep)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemArrival: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Isolation keeps the arrival sequence identical when another subsystem
// consumes a different number of draws (e.g. when capacity changes how many
// calls get admitted).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemArrival {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
