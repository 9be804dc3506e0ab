// Command payproc reads a CSV stream of client payment operations and
// writes the final per-client balances as CSV.
//
// Usage:
//
//	payproc transactions.csv > accounts.csv
//	payproc --config config.yaml
//
// Malformed rows and rejected transactions never abort a run; they are
// counted, logged at debug level, and dropped.
package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/corefin/payproc/config"
	"github.com/corefin/payproc/internal/api"
	"github.com/corefin/payproc/internal/csvio"
	"github.com/corefin/payproc/internal/services/processor"
	"github.com/corefin/payproc/internal/storage/journal"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var sink processor.Journal
	if cfg.JournalDir != "" {
		store, err := journal.NewStore(cfg.JournalDir)
		if err != nil {
			logger.Fatal("failed to open audit journal", zap.Error(err))
		}
		defer store.Close()
		sink = store
	}

	proc := processor.New(logger, sink)

	var server *api.Server
	if cfg.ServeAddr != "" {
		server = api.NewServer(cfg.ServeAddr, proc, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("balance API stopped", zap.Error(err))
			}
		}()
	}

	in, err := os.Open(cfg.Input)
	if err != nil {
		logger.Fatal("failed to open input", zap.String("path", cfg.Input), zap.Error(err))
	}
	defer in.Close()

	reader, err := csvio.NewReader(bufio.NewReader(in))
	if err != nil {
		logger.Fatal("failed to read input header", zap.String("path", cfg.Input), zap.Error(err))
	}

	if _, err := proc.Run(context.Background(), reader); err != nil {
		logger.Fatal("processing aborted", zap.Error(err))
	}

	out := os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			logger.Fatal("failed to create output", zap.String("path", cfg.Output), zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	if err := csvio.WriteSnapshots(out, proc.Snapshots()); err != nil {
		logger.Fatal("failed to write balances", zap.Error(err))
	}

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("balance API shutdown failed", zap.Error(err))
		}
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = parsed
	}
	// Keep stdout clean for the balances report.
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
