package main

import (
	"flag"
	"os"

	"github.com/jaminalder/gomoku/internal/bootstrap"
	"github.com/jaminalder/gomoku/internal/term"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", ".env", "path to config file")
	flag.Parse()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		zap.NewExample().Sugar().Fatalw("failed to setup configuration", "error", err)
	}
	// stdout belongs to the board; keep the logger quiet unless debugging
	if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	logger, err := bootstrap.NewLogger(*cfg)
	if err != nil {
		zap.NewExample().Sugar().Fatalw("failed to initialize logger", "error", err)
	}
	defer func() { _ = logger.Sync() }()

	out := termenv.NewOutput(os.Stdout)
	session := term.NewSession(term.NewRenderer(out), logger)
	if err := session.Run(os.Stdin); err != nil {
		logger.Fatalw("reading input failed", "error", err)
	}
}
