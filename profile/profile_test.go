package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brkerd/video-to-ascii-mrd/profile"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()

	assert.Empty(t, cfg.CPUProfile)
	assert.Empty(t, cfg.HeapProfile)
	assert.Empty(t, cfg.GoroutineProfile)
	assert.Zero(t, cfg.MemProfileRate)
}

func TestRegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg.RegisterFlags(flags)

	for _, name := range []string{
		"cpu-profile",
		"heap-profile",
		"goroutine-profile",
		"mem-profile-rate",
	} {
		require.NotNil(t, flags.Lookup(name), "flag %s should be registered", name)
	}
}

func TestProfilerDisabledIsNoop(t *testing.T) {
	t.Parallel()

	p := profile.NewConfig().NewProfiler()

	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())
}

func TestProfilerWritesProfiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg := profile.NewConfig()
	cfg.CPUProfile = filepath.Join(dir, "cpu.pprof")
	cfg.HeapProfile = filepath.Join(dir, "heap.pprof")
	cfg.GoroutineProfile = filepath.Join(dir, "goroutine.pprof")
	cfg.MemProfileRate = 524288

	p := cfg.NewProfiler()

	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())

	for _, path := range []string{cfg.CPUProfile, cfg.HeapProfile, cfg.GoroutineProfile} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}
