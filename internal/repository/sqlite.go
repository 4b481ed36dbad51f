package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"chain-metrics/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const (
	createTableSQL = `
	CREATE TABLE IF NOT EXISTS blockchain (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		block_height INTEGER,
		network_hash_rate REAL,
		difficulty REAL,
		mempool_size INTEGER,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	insertSnapshotSQL = "INSERT INTO blockchain (block_height, network_hash_rate, difficulty, mempool_size) VALUES (?, ?, ?, ?)"

	latestSnapshotSQL = "SELECT id, block_height, network_hash_rate, difficulty, mempool_size, timestamp FROM blockchain ORDER BY timestamp DESC, id DESC LIMIT 1"
)

// SQLiteStore is an append-only snapshot table. Every operation holds mu for
// its whole duration, so readers and writers never share the handle.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{dbPath: path}
}

func newSQLiteStoreWithDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Init() error {
	var err error

	s.db, err = sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases intact and matches the
	// one-writer model of the store lock.
	s.db.SetMaxOpenConns(1)

	if err = s.db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	if _, err = s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("error creating table: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, insertSnapshotSQL,
		snapshot.BlockHeight,
		snapshot.NetworkHashRate,
		snapshot.Difficulty,
		snapshot.MempoolSize,
	)
	if err != nil {
		return domain.StoreError("insert", fmt.Errorf("error inserting snapshot: %w", err))
	}
	return nil
}

func (s *SQLiteStore) Latest(ctx context.Context) (domain.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snapshot domain.Snapshot
	err := s.db.QueryRowContext(ctx, latestSnapshotSQL).Scan(
		&snapshot.ID,
		&snapshot.BlockHeight,
		&snapshot.NetworkHashRate,
		&snapshot.Difficulty,
		&snapshot.MempoolSize,
		&snapshot.CapturedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Snapshot{}, false, nil
	case err != nil:
		return domain.Snapshot{}, false, domain.StoreError("latest", fmt.Errorf("error querying latest snapshot: %w", err))
	}

	snapshot.CapturedAt = snapshot.CapturedAt.UTC()
	return snapshot, true, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
