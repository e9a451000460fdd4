// Package sim provides the core primitives for fixed-grid ODE simulation:
//
//   - [State]: reactor state vector (X, S, kla)
//   - [System]: ODE system interface (dx/dt = f(x, t))
//   - [Integrator]: explicit single-step integrator interface
//   - [Simulator]: drives one run over a uniform [Grid]
//
// A run is a single sequential computation: no randomness, no shared
// mutable state, bit-for-bit reproducible. Bound enforcement lives in the
// model's derivative function, never in the stepping loop, so a state may
// transiently leave its intended range within one step.
//
// # Thread safety
//
// Simulator instances are NOT thread-safe. For concurrent parameter
// comparisons use [RunBatch], which gives every run its own simulator and
// integrator.
package sim
