package internal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps State as a JSON value in a kv table.
type SQLiteBackend struct {
	Path string
	db   *sql.DB
}

func OpenSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// Every pooled connection gets the pragmas, and every transaction takes
	// the write lock up front so busy_timeout covers concurrent writers.
	dsn := path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_txlock=immediate"

	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return &SQLiteBackend{Path: path, db: db}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context) (State, error) {
	return b.get(ctx, b.db)
}

func (b *SQLiteBackend) Update(ctx context.Context, fn func(*State) error) (State, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return State{}, err
	}
	defer tx.Rollback()

	state, err := b.get(ctx, tx)
	if err != nil {
		return State{}, err
	}
	if err := fn(&state); err != nil {
		return State{}, err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return State{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		StoreKey, string(data),
	); err != nil {
		return State{}, fmt.Errorf("sqlite save: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return State{}, err
	}
	return state, nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (b *SQLiteBackend) get(ctx context.Context, q queryer) (State, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, StoreKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return State{Filter: FilterAll}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("sqlite load: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return State{}, fmt.Errorf("sqlite load: %w", err)
	}
	if state.Filter == "" {
		state.Filter = FilterAll
	}
	return state, nil
}
