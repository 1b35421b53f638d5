// Package sim provides the discrete-event engine that estimates call blocking
// on a ring of cells with moving terminals.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - call.go: MobileCall, the service and handoff countdowns of one call
//   - area.go: ServiceArea, per-cell capacity and the ordered set of active calls
//   - simulator.go: the event loop choosing between arrivals and internal events
//
// # Architecture
//
// The engine is single-threaded. All randomness flows from a PartitionedRNG
// seeded once per run, so a RunConfig plus its seed fully determines Stats.
//
// Sub-packages build on the engine:
//   - sim/sweep/: runs the engine over a grid of arrival rates and cell lengths
//     and writes result sets
//   - sim/erlang/: Erlang-B reference tables for comparison
package sim
