// Command fintrackctl is the operational entry point for the Fintrack
// database: it applies schema migrations and checks database integrity.
//
// Usage:
//
//	fintrackctl migrate    apply pending migrations (default)
//	fintrackctl verify     run SQLite's integrity check
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fintrackhq/fintrack/internal/config"
	"github.com/fintrackhq/fintrack/internal/storage/sqlite"
	"github.com/fintrackhq/fintrack/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	cmd := "migrate"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "migrate":
		// Opening the store applies pending migrations.
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			slog.Error("Migration failed", "database", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		slog.Info("Database migrated", "database", cfg.DBPath)

	case "verify":
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			slog.Error("Failed to open database", "database", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.Verify(context.Background()); err != nil {
			slog.Error("Integrity check failed", "database", cfg.DBPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Integrity check passed", "database", cfg.DBPath)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\nusage: fintrackctl [migrate|verify]\n", cmd)
		os.Exit(2)
	}
}
