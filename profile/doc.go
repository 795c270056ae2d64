// Package profile provides pprof profiling lifecycle management for the
// player CLI.
//
// A running player spends its time in frame decode, compositing, and ANSI
// rendering; the profiles exposed here (cpu, heap, goroutine) cover those
// hot paths. Create a [Config], register CLI flags with
// [Config.RegisterFlags], then wrap the run with [Profiler.Start] and
// [Profiler.Stop].
package profile
