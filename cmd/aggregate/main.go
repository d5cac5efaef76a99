// Command aggregate recomputes the weekly summaries for one Monday–Sunday
// window and swaps them in atomically.
//
// Flags:
//
//	--week  any date inside the target week, YYYY-MM-DD
//	        (default: the last complete week before today)
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
	"github.com/banglatrends/trends-backend/internal/adapter/postgres/summary"
	"github.com/banglatrends/trends-backend/internal/app"
	"github.com/banglatrends/trends-backend/internal/config"
	"github.com/banglatrends/trends-backend/internal/domain"
	"github.com/banglatrends/trends-backend/internal/service/aggregate"
)

func main() {
	weekStr := flag.String("week", "", "any date inside the target week, YYYY-MM-DD (default: last complete week)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)
	logger.Info("starting aggregate", slog.String("version", app.BuildVersion()))

	var weekStart, weekEnd time.Time
	if *weekStr == "" {
		weekStart, weekEnd = domain.PreviousWeek(time.Now().UTC())
	} else {
		day, err := time.Parse("2006-01-02", *weekStr)
		if err != nil {
			logger.Error("parse week", slog.String("error", err.Error()))
			os.Exit(1)
		}
		weekStart, weekEnd = domain.WeekOf(day)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Aggregation.Timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := aggregate.NewService(logger, phrase.New(pool), summary.New(pool), postgres.NewTxManager(pool))

	summaries, err := svc.AggregateWeek(ctx, weekStart, weekEnd)
	if err != nil {
		logger.Error("aggregation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Aggregated week %s – %s: %d summaries.\n",
		weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"), len(summaries))
}
