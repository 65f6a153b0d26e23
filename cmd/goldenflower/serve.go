package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/dashkit/goldenflower/internal/activity"
	"github.com/dashkit/goldenflower/internal/ledger"
	"github.com/dashkit/goldenflower/internal/server"
)

// ServeCmd runs the websocket gateway
type ServeCmd struct {
	Config string `kong:"default='goldenflower.hcl',help='Path to HCL config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	logger, cleanup, err := setupLogger(cfg.Server.LogLevel, cfg.Server.LogFile, c.Debug)
	if err != nil {
		return err
	}
	defer cleanup()

	store := seedDirectory()
	sink := activity.NewLogSink(logger)

	srv := server.NewServer(cfg, logger, store, sink)

	logger.Info("Starting Golden Flower gateway",
		"addr", cfg.Addr(),
		"ante", cfg.Game.Ante,
		"max_bet", cfg.Game.MaxBet,
		"max_rounds", cfg.Game.MaxRounds,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func setupLogger(level, file string, debug bool) (*log.Logger, func(), error) {
	var out io.Writer = os.Stderr
	cleanup := func() {}

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		cleanup = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	if debug {
		logger.SetLevel(log.DebugLevel)
	} else if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}

	return logger, cleanup, nil
}

// seedDirectory builds the default opponent roster. Balances span the
// tier thresholds so every difficulty shows up at the table.
func seedDirectory() *ledger.Memory {
	return ledger.NewMemory(
		ledger.Entry{ID: "npc-rook", Name: "Rook", Balance: 400, Status: ledger.StatusActive},
		ledger.Entry{ID: "npc-vesper", Name: "Vesper", Balance: 1500, Status: ledger.StatusActive},
		ledger.Entry{ID: "npc-halide", Name: "Halide", Balance: 2600, Status: ledger.StatusActive},
		ledger.Entry{ID: "npc-mercer", Name: "Mercer", Balance: 4800, Status: ledger.StatusActive},
		ledger.Entry{ID: "npc-odalys", Name: "Odalys", Balance: 7300, Status: ledger.StatusActive},
		ledger.Entry{ID: "npc-sable", Name: "Sable", Balance: 9200, Status: ledger.StatusActive},
		ledger.Entry{ID: "npc-quince", Name: "Quince", Balance: 12500, Status: ledger.StatusActive},
		ledger.Entry{ID: "npc-imara", Name: "Imara", Balance: 18000, Status: ledger.StatusActive},
	)
}
