package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"scheduling-assistant/internal/task/repository"
	pkgLog "scheduling-assistant/pkg/log"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type implRepository struct {
	l    pkgLog.Logger
	db   *sql.DB
	q    querier
	mu   *sync.Mutex // single writer lock shared by the root repository and its transactions
	inTx bool
	now  func() time.Time
}

// Open opens (and creates if needed) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// New creates the task repository on db and runs migrations.
func New(l pkgLog.Logger, db *sql.DB) (repository.Repository, error) {
	r := &implRepository{
		l:   l,
		db:  db,
		q:   db,
		mu:  &sync.Mutex{},
		now: func() time.Time { return time.Now().UTC() },
	}
	if err := r.migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

// migrate runs idempotent schema migrations.
func (r *implRepository) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		start_min INTEGER,
		end_min INTEGER,
		status TEXT NOT NULL DEFAULT 'pending',
		priority TEXT NOT NULL DEFAULT 'medium',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date, start_min);
	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	`

	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Ping checks the database connection is alive.
func (r *implRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
