package profile

import (
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration, allowing callers
// to customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	CPUProfile       string
	HeapProfile      string
	GoroutineProfile string
	MemProfileRate   string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds profiling configuration, including output paths and the
// memory sampling rate. A zero-value Config has all profiles disabled.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewProfiler] to create a [Profiler]
// that executes the profiling.
type Config struct {
	Flags Flags

	// Output paths (empty = disabled).
	CPUProfile       string
	HeapProfile      string
	GoroutineProfile string

	// Rate configuration.
	MemProfileRate int
}

// NewConfig creates a new [Config] with default flag names and all
// profiles disabled. Use [Config.RegisterFlags] to add CLI flags, or set
// profile paths directly.
func NewConfig() *Config {
	f := Flags{
		CPUProfile:       "cpu-profile",
		HeapProfile:      "heap-profile",
		GoroutineProfile: "goroutine-profile",
		MemProfileRate:   "mem-profile-rate",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiling flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPUProfile, c.Flags.CPUProfile, "", "write CPU profile to file")
	flags.StringVar(&c.HeapProfile, c.Flags.HeapProfile, "", "write heap profile to file")
	flags.StringVar(&c.GoroutineProfile, c.Flags.GoroutineProfile, "", "write goroutine profile to file")
	flags.IntVar(&c.MemProfileRate, c.Flags.MemProfileRate, 524288, "memory profile rate (bytes per sample)")
}

// NewProfiler creates a new [Profiler] using this [Config].
func (c *Config) NewProfiler() *Profiler {
	return &Profiler{
		Config: *c,
	}
}
