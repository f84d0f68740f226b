package db

import (
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore keeps guild documents in the guild_documents table
type PostgresStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewPostgresStore connects to connectionString and verifies the connection
func NewPostgresStore(connectionString string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

// Migrate applies the embedded migrations
func (s *PostgresStore) Migrate() error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Open builds the document store selected by cfg.StoreDriver
func Open(cfg *config.Config, logger *logrus.Logger) (DocumentStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		store, err := NewPostgresStore(cfg.DBConnectionString, logger)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case config.StoreDriverFile, "":
		return NewFileStore(cfg.Root, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
