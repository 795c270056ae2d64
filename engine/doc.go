// Package engine implements the playback state machine for the terminal
// video player.
//
// An [Engine] loops a configured idle video and serves a FIFO queue of
// requests: concrete video identifiers enqueued with [Engine.Enqueue], or
// the idle-return sentinel enqueued with [Engine.RequestIdle]. Moving
// between videos, and looping a video at its natural end, runs an animated
// transition: two independently positioned source handles are read in
// lockstep, one frame per compositor step, for exactly the configured
// number of steps.
//
// A single run-loop goroutine owns all state and source handles. Producers
// only ever append to the pending queue, which never blocks in either
// direction. The per-frame pacing sleep is the only suspension point and is
// cancelled by [Engine.Stop] or context cancellation on every iteration.
package engine
