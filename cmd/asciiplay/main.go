// Package main provides the CLI entry point for asciiplay, a terminal video
// player that renders ANSI half-block art with an idle loop, a request
// queue, and animated transitions between clips.
//
// The player takes a YAML playlist config naming an idle video and a
// key-to-video map. It loops the idle video full-screen; pressing a mapped
// key enqueues its video, which wipes (or crossfades, or scans) in, plays,
// and loops until another key or "i" returns to idle.
//
// # Usage
//
//	asciiplay [flags] <config.yaml>
//	asciiplay schema
package main

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brkerd/video-to-ascii-mrd/ascii"
	"github.com/brkerd/video-to-ascii-mrd/engine"
	"github.com/brkerd/video-to-ascii-mrd/log"
	"github.com/brkerd/video-to-ascii-mrd/profile"
	"github.com/brkerd/video-to-ascii-mrd/source"
	"github.com/brkerd/video-to-ascii-mrd/version"
)

func main() {
	logCfg := log.NewConfig()
	profCfg := profile.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "asciiplay [flags] <config.yaml>",
		Short: "Play videos as ANSI art with an idle loop and transitions",
		Long: `asciiplay renders videos as ANSI half-block art in the terminal. It loops a
configured idle video and serves key-triggered video requests from a FIFO
queue, blending between clips with wipe, crossfade, or scan transitions.`,
		Version:       version.Info(),
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), logCfg, profCfg, args[0])
		},
	}

	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profCfg.RegisterFlags(rootCmd.Flags())

	completionErr := logCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	rootCmd.AddCommand(newSchemaCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logCfg *log.Config, profCfg *profile.Config, configPath string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("stdout is not a terminal: asciiplay renders ANSI frames and requires a TTY")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Logs go through a publisher so they reach the status bar instead of
	// corrupting the frame grid.
	pub := log.NewPublisher()

	defer func() {
		//nolint:errcheck // Close never fails.
		pub.Close()
	}()

	logger, err := logCfg.NewLogger(pub)
	if err != nil {
		return err
	}

	prof := profCfg.NewProfiler()

	err = prof.Start()
	if err != nil {
		return err
	}

	defer func() {
		stopErr := prof.Stop()
		if stopErr != nil {
			fmt.Fprintf(os.Stderr, "stopping profiler: %v\n", stopErr)
		}
	}()

	spec, err := cfg.spec()
	if err != nil {
		return err
	}

	cols, rows := 80, 24

	w, h, sizeErr := term.GetSize(int(os.Stdout.Fd()))
	if sizeErr == nil {
		// One row is reserved for the status bar.
		cols, rows = w, h-1
	}

	opener := source.NewFFmpegOpener(cfg.FPS)

	defer func() {
		closeErr := opener.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "cleaning up extracted frames: %v\n", closeErr)
		}
	}()

	var p *tea.Program

	eng, err := engine.New(engine.Config{
		Idle:     cfg.Idle,
		Opener:   opener,
		Renderer: ascii.Renderer{},
		Writer: engine.WriterFunc(func(grid string) {
			p.Send(frameMsg{grid: grid})
		}),
		Cols:   cols,
		Rows:   rows,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	p = tea.NewProgram(newModel(eng, cfg.Videos))

	sub := pub.Subscribe()
	defer sub.Close()

	go func() {
		for line := range sub.C() {
			p.Send(logMsg{line: line})
		}
	}()

	go func() {
		p.Send(engineDoneMsg{err: eng.Run(ctx, spec)})
	}()

	final, err := p.Run()

	// The TUI is gone either way; make sure the engine is too.
	eng.Stop()

	if err != nil {
		return fmt.Errorf("running player: %w", err)
	}

	if m, ok := final.(*model); ok && m.runErr != nil {
		return fmt.Errorf("playback: %w", m.runErr)
	}

	return nil
}
