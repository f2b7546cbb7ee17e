package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Rally/internal/api"
	"github.com/soaringjerry/Rally/internal/config"
	dbstore "github.com/soaringjerry/Rally/internal/db"
	"github.com/soaringjerry/Rally/internal/logger"
)

// openSQLite opens (creating if needed) the database file, applies migrations
// and returns the store with a close func.
func openSQLite(path, migrationsDir string, log logrus.FieldLogger) (*dbstore.SQLiteStore, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	sqliteDB, err := sql.Open("sqlite3", dbstore.DSN(filepath.ToSlash(path)))
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}
	closeDB := func() {
		if cerr := sqliteDB.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close sqlite db")
		}
	}
	store, err := dbstore.NewSQLiteStore(sqliteDB, log)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if err := dbstore.RunMigrations(sqliteDB, migrationsDir); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	log.WithField("path", path).Info("sqlite database ready")
	return store, closeDB, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed the sports catalogue, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if cfg.InMemory() {
				return fmt.Errorf("sqlite_path is required")
			}
			log := logger.New("rally-migrate", cfg.LogLevel).Entry()
			store, closeDB, err := openSQLite(cfg.SQLitePath, cfg.MigrationsDir, log)
			if err != nil {
				return err
			}
			defer closeDB()
			seeded, err := api.SeedSports(cmd.Context(), store, api.DefaultSports)
			if err != nil {
				return err
			}
			log.WithField("seeded", seeded).Info("migration complete")
			return nil
		},
	}
}
