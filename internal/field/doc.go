// Package field defines the magnetic and electric field evaluation
// contracts consumed by the orbit stepper, together with the closed set of
// field models:
//
//   - [Uniform]: constant cylindrical components, zero gradients
//   - [CircularTokamak]: analytic circular-flux-surface equilibrium
//   - [Grid]: axisymmetric tabulated field with bilinear interpolation
//
// Evaluators hold only read-only model data built at construction time, so
// a single evaluator may be shared by any number of concurrently stepped
// lanes. Queries outside a model's valid domain fail with [*DomainError].
package field
