// Package orbit provides the core data model for batched guiding-center
// orbit following:
//
//   - [State]: one lane's phase-space vector (r, phi, z, vpar, mu, theta)
//   - [Batch]: structure-of-arrays storage for a fixed-width lane group
//   - [LaneError]: per-lane error kind tagged with the originating module
//   - [WrapTheta], [DeltaPol]: angle bookkeeping helpers
//
// Lanes are mutually independent: no field of one lane ever depends on
// another, which is what lets the stepper process a batch data-parallel.
// Once a lane's Running flag drops it is terminal and never touched again.
package orbit
