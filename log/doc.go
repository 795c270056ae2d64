// Package log provides structured logging handler construction for the
// player, built on [charm.land/log/v2] as the [log/slog] handler.
//
// Use [Config] with CLI flag integration via [github.com/spf13/pflag], then
// build a logger at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	logger, err := cfg.NewLogger(os.Stderr)
//
// A [Publisher] fans out log lines to subscribers, which keeps log output
// from corrupting the frame grid when the player runs full-screen: point
// the logger at a Publisher and have the TUI subscribe:
//
//	pub := log.NewPublisher()
//	logger, _ := cfg.NewLogger(pub)
//
//	sub := pub.Subscribe()
//	go func() {
//	    for line := range sub.C() {
//	        // Deliver line to the TUI status bar.
//	    }
//	}()
package log
