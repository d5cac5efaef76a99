// Command ingest applies one raw phrase block to the daily record store.
// It reads the block from a file (or stdin), parses the numbered items, and
// upserts a phrase record per item with merge-on-match semantics.
//
// Flags:
//
//	--file        path to the text block ("-" for stdin)
//	--date        observation date, YYYY-MM-DD (default: today, UTC)
//	--source      producing source (default: llm)
//	--kind        phrase kind (default: TWO_WORD)
//	--category    fallback category for items outside any header
//	--rank-scores score by list position instead of the flat default
//	--corpus-dir  directory of documents to count phrase frequencies against
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/banglatrends/trends-backend/internal/adapter/postgres"
	"github.com/banglatrends/trends-backend/internal/adapter/postgres/phrase"
	"github.com/banglatrends/trends-backend/internal/adapter/provider/corpus"
	"github.com/banglatrends/trends-backend/internal/app"
	"github.com/banglatrends/trends-backend/internal/config"
	"github.com/banglatrends/trends-backend/internal/domain"
	"github.com/banglatrends/trends-backend/internal/service/ingest"
)

func main() {
	var (
		file       = flag.String("file", "-", `path to the text block ("-" for stdin)`)
		dateStr    = flag.String("date", "", "observation date, YYYY-MM-DD (default: today)")
		source     = flag.String("source", domain.SourceLLM.String(), "producing source")
		kind       = flag.String("kind", domain.PhraseKindTwoWord.String(), "phrase kind")
		category   = flag.String("category", "", "fallback category for items outside any header")
		rankScores = flag.Bool("rank-scores", false, "score by list position instead of the flat default")
		corpusDir  = flag.String("corpus-dir", "", "directory of documents to count phrase frequencies against")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)
	logger.Info("starting ingest", slog.String("version", app.BuildVersion()))

	date := time.Now().UTC()
	if *dateStr != "" {
		date, err = time.Parse("2006-01-02", *dateStr)
		if err != nil {
			logger.Error("parse date", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	raw, err := readBlock(*file)
	if err != nil {
		logger.Error("read block", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Ingest.Timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	var freq ingest.FrequencyLookup
	if *corpusDir != "" {
		docs, err := readCorpus(*corpusDir)
		if err != nil {
			logger.Error("read corpus", slog.String("error", err.Error()))
			os.Exit(1)
		}
		freq = corpus.NewCounter(docs)
	}

	svc := ingest.NewService(logger, phrase.New(pool), freq, cfg.Ingest.DefaultScore)

	in := ingest.Input{
		RawText:         raw,
		Date:            date,
		Source:          domain.Source(*source),
		Kind:            domain.PhraseKind(*kind),
		DefaultCategory: *category,
	}
	if *rankScores {
		in.Scores = ingest.RankScore(cfg.Ingest.MaxScore, cfg.Ingest.ScoreStep)
	}

	result, err := svc.Ingest(ctx, in)
	if err != nil {
		logger.Error("ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, failure := range result.Failures {
		logger.Warn("record rejected",
			slog.String("phrase", failure.Phrase),
			slog.String("error", failure.Err.Error()),
		)
	}

	fmt.Printf("Parsed %d items: %d inserted, %d merged, %d rejected.\n",
		result.Parsed, result.Inserted, result.Merged, len(result.Failures))
}

func readBlock(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readCorpus loads every regular file under dir as one document.
func readCorpus(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, string(data))
	}
	return docs, nil
}
