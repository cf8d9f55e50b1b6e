package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellhq/inkwell/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection and provides repository accessors.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for
// use. It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// NewWithRetry opens the database with a bounded startup retry policy.
// Failure after exhausting all attempts is returned to the caller,
// which is expected to treat it as fatal.
func NewWithRetry(ctx context.Context, dbPath string, attempts int, backoff time.Duration) (*DB, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := New(dbPath)
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Warn("database connection failed", "attempt", i, "of", attempts, "error", err)
		if i == attempts {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("connect after %d attempts: %w", attempts, lastErr)
}

// Migrate applies any unapplied schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// Users returns the SQLite-backed user repository.
func (db *DB) Users() *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

// Posts returns the SQLite-backed post repository.
func (db *DB) Posts() *PostRepository {
	return &PostRepository{db: db.SqlDB}
}
