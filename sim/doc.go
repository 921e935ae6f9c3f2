// Package sim is the point model and simulation engine of the virtual
// BACnet VAV device.
//
// # Reading Guide
//
// Start with these three files to understand the core:
//   - point.go: the Point entity, its 16-slot priority array, and the
//     atomic simulate path
//   - priority.go: effective-value resolution and the slot-16 drive
//     permission rule
//   - engine.go: the fixed-cadence tick loop and the kind-dispatch table
//
// # Architecture
//
// A Registry owns Points keyed by (kind, instance) and carries the
// external surface the protocol stack consumes: GetEffectiveValue,
// WritePriority, ClearPriority, ListPoints. The Engine owns an
// Environment (outdoor temperature cycle, humidity walk) and advances it
// exactly once per tick before updating points through per-kind rules
// (rules.go). An optional VAVProfile (vav.go) replaces the generic rules
// with the box's closed control loop for the points it recognizes.
//
// Sub-packages:
//   - loader/: CSV/YAML point-definition files to registry population
//   - telemetry/: change-of-value MQTT bridge over the external surface
//
// All randomness flows through a PartitionedRNG seeded from one
// SimulationKey, so runs are reproducible per seed.
package sim
