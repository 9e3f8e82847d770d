// Package main loads the development dataset, or a directory laid out the
// same way, into the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/nc-news-api/internal/config"
	"github.com/nc-news-api/internal/database"
	"github.com/nc-news-api/internal/repository"
	"github.com/nc-news-api/internal/seed"
	"github.com/nc-news-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir := flag.String("dir", "", "Directory holding topics.csv, users.csv, articles.ndjson and comments.ndjson (default: bundled dataset)")
	truncate := flag.Bool("truncate", true, "Empty all tables before loading")
	migrate := flag.Bool("migrate", true, "Apply pending migrations first")
	batchSize := flag.Int("batch", seed.DefaultBatchSize, "Rows per COPY batch")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Log).With().Str("component", "seed").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if *migrate {
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			return err
		}
	}

	var data fs.FS = seed.DefaultDataset()
	if *dir != "" {
		data = os.DirFS(*dir)
	}

	repos := repository.New(db)
	report, err := seed.New(repos, db, *batchSize, log).Run(ctx, data, *truncate)
	if err != nil {
		return err
	}

	if err := logSummary(ctx, log, repos, report); err != nil {
		return err
	}

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d records failed validation", failed)
	}
	return nil
}

// logSummary logs rejected records and the row count of every table. The
// per-resource timings are logged by the seeder itself.
func logSummary(ctx context.Context, log zerolog.Logger, repos *repository.Repositories, report *seed.Report) error {
	for _, recErr := range report.Errors {
		log.Warn().
			Str("resource", recErr.Resource).
			Int("line", recErr.Line).
			Str("field", recErr.Field).
			Interface("value", recErr.Value).
			Msg(recErr.Message)
	}

	event := log.Info()
	for _, table := range []struct {
		name  string
		count func(context.Context) (int, error)
	}{
		{"topics", repos.Topic.Count},
		{"users", repos.User.Count},
		{"articles", repos.Article.Count},
		{"comments", repos.Comment.Count},
	} {
		n, err := table.count(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", table.name, err)
		}
		event = event.Int(table.name, n)
	}
	event.Msg("Seed completed")
	return nil
}
