// Package costgraph builds weighted candidate-transition graphs between sets
// of detected particles for an external assignment solver.
//
// Responsibilities: the shared candidate filter and score kernel, the
// track-graph signal walks, the growable column-compressed output buffer, and
// the four builders (linking, gap bridging, joining, splitting).
// Key types: ParticleSet, TrackGraph, SparseBuilder, SparseMatrix, Result.
//
// Every build is synchronous and owns only its output buffer. Inputs are
// read-only, so separate builds may run in parallel without locking.
package costgraph
