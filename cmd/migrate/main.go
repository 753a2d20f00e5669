// Command migrate prepares the application database: it creates the
// database itself when missing, then applies the schema.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"

	"inkwell/internal/config"
	"inkwell/internal/database"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var dbNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env is fine; the environment or config file still applies.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := ensureDatabase(context.Background(), cfg); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(database.Entities()...); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	log.Printf("schema applied to %s", cfg.DBName)
	return nil
}

// ensureDatabase creates the configured database through the maintenance
// connection when it does not exist yet.
func ensureDatabase(ctx context.Context, cfg *config.Config) error {
	if !dbNamePattern.MatchString(cfg.DBName) {
		return fmt.Errorf("unsafe database name %q", cfg.DBName)
	}

	admin, err := sql.Open("pgx", cfg.AdminDSN())
	if err != nil {
		return fmt.Errorf("open maintenance connection: %w", err)
	}
	defer func() { _ = admin.Close() }()

	_, err = admin.ExecContext(ctx, "CREATE DATABASE "+cfg.DBName)
	if err != nil {
		var pgErr *pgconn.PgError
		// 42P04: duplicate_database.
		if errors.As(err, &pgErr) && pgErr.Code == "42P04" {
			return nil
		}
		return err
	}
	log.Printf("created database %s", cfg.DBName)
	return nil
}
