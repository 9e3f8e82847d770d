// Package main provides a CLI tool for database migrations.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nc-news-api/internal/config"
	"github.com/nc-news-api/internal/database"
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
	up := flag.Bool("up", false, "Run all pending migrations")
	down := flag.Bool("down", false, "Roll back the last migration")
	to := flag.Int("to", -1, "Migrate up or down to the given version")
	version := flag.Bool("version", false, "Print the current migration version")
	migrationsPath := flag.String("path", "", "Override the migrations directory path")
	flag.Parse()

	actionCount := 0
	for _, set := range []bool{*up, *down, *to >= 0, *version} {
		if set {
			actionCount++
		}
	}
	if actionCount == 0 {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "\nPlease specify one of: -up, -down, -to N, -version")
		return fmt.Errorf("no action specified")
	}
	if actionCount > 1 {
		return fmt.Errorf("specify only one action at a time")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"}).
		With().Str("component", "migrate").Logger()

	dir := cfg.Database.MigrationsPath
	if *migrationsPath != "" {
		dir = *migrationsPath
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	switch {
	case *up:
		if err := db.RunMigrations(dir); err != nil {
			return err
		}
	case *down:
		if err := db.MigrateDown(dir); err != nil {
			return err
		}
	case *to >= 0:
		if err := db.MigrateToVersion(dir, uint(*to)); err != nil {
			return err
		}
	}

	printVersion(db, dir, log)
	return nil
}

// printVersion logs the applied schema version
func printVersion(db *database.DB, dir string, log zerolog.Logger) {
	v, dirty, err := db.MigrationVersion(dir)
	if err != nil {
		log.Warn().Err(err).Msg("could not determine migration version")
		return
	}
	log.Info().
		Uint("version", v).
		Bool("dirty", dirty).
		Msg("current migration version")
}
