// Package compose blends pairs of equally sized frames into transition
// composites.
//
// A [Spec] describes one transition: its [Type] (wipe, crossfade, or scan),
// its [Direction] for the directional types, and the number of steps it
// spans. [Spec.Composite] produces one composite frame for a given progress
// fraction; callers drive progress from 1/n up to exactly 1, at which point
// the composite is pixel-identical to the target frame.
//
// The compositor never resizes: both inputs must already share dimensions,
// and a mismatch fails with [ErrDimensionMismatch].
package compose
