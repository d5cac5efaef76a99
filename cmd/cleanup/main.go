// Command cleanup reconciles duplicate phrase record keys: rows sharing one
// (date, phrase, kind, source) key are folded into a single row with summed
// frequency and maximum score. Safe to re-run; a clean store is a no-op.
//
// Flags:
//
//	--dry-run  report duplicate keys without writing
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/banglatrends/trends-backend/internal/adapter/postgres"
	"github.com/banglatrends/trends-backend/internal/adapter/postgres/phrase"
	"github.com/banglatrends/trends-backend/internal/app"
	"github.com/banglatrends/trends-backend/internal/config"
	"github.com/banglatrends/trends-backend/internal/service/cleanup"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report duplicate keys without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)
	logger.Info("starting cleanup", slog.String("version", app.BuildVersion()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := cleanup.NewService(logger, phrase.New(pool), postgres.NewTxManager(pool), *dryRun)

	result, err := svc.Reconcile(ctx)
	if err != nil {
		logger.Error("reconciliation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *dryRun {
		fmt.Printf("Found %d duplicate keys (dry run, nothing written).\n", result.KeysReconciled)
		return
	}
	fmt.Printf("Reconciled %d keys, removed %d duplicate rows.\n", result.KeysReconciled, result.RowsRemoved)
}
