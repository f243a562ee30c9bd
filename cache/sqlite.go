package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/buendia/tictactoe/move"
)

const sqliteFilename = "best_moves.db"

const schema = `CREATE TABLE IF NOT EXISTS best_moves (
	key TEXT PRIMARY KEY,
	x   INTEGER NOT NULL,
	y   INTEGER NOT NULL
)`

// SQLiteStore keeps the cache in a single sqlite file.
type SQLiteStore struct {
	db *sql.DB

	get *sql.Stmt
	set *sql.Stmt
}

// OpenSQLite opens (creating if needed) best_moves.db under dir.
func OpenSQLite(dir string) (*SQLiteStore, error) {
	path := filepath.Join(dir, sqliteFilename)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	// One process, one writer.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	s := &SQLiteStore{db: db}
	s.get, err = db.Prepare(`SELECT x, y FROM best_moves WHERE key = ?`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	s.set, err = db.Prepare(`INSERT INTO best_moves (key, x, y) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET x = excluded.x, y = excluded.y`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return s, nil
}

func (s *SQLiteStore) Get(key string) (move.Move, bool, error) {
	var m move.Move
	err := s.get.QueryRow(key).Scan(&m.X, &m.Y)
	if errors.Is(err, sql.ErrNoRows) {
		return move.Move{}, false, nil
	}
	if err != nil {
		return move.Move{}, false, err
	}
	return m, true, nil
}

func (s *SQLiteStore) Set(key string, m move.Move) error {
	_, err := s.set.Exec(key, m.X, m.Y)
	return err
}

// Len returns the number of stored entries.
func (s *SQLiteStore) Len() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM best_moves`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	s.get.Close()
	s.set.Close()
	return s.db.Close()
}
