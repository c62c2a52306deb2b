package settings

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver
)

// SQLite implements Store with plugin_storage table, values are json-encoded
type SQLite struct {
	db *sql.DB
}

// NewSQLite makes store on top of opened db and creates the table if missing
func NewSQLite(db *sql.DB) (*SQLite, error) {
	schema := `CREATE TABLE IF NOT EXISTS plugin_storage (
		plugin TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (plugin, key)
	)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("can't create plugin_storage: %w", err)
	}
	return &SQLite{db: db}, nil
}

// OpenSQLite opens (or creates) sqlite file and makes the store on it
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	if _, err = db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	res, err := NewSQLite(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return res, nil
}

// Get decodes stored json value into dest
func (s *SQLite) Get(plugin, key string, dest interface{}) (bool, error) {
	if err := checkNames(plugin, key); err != nil {
		return false, err
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM plugin_storage WHERE plugin = ? AND key = ?", plugin, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("can't get %s/%s: %w", plugin, key, err)
	}
	if err = json.Unmarshal([]byte(value), dest); err != nil {
		return false, fmt.Errorf("%w %s/%s: %v", ErrDecode, plugin, key, err)
	}
	return true, nil
}

// Set stores json-encoded value, replaces existing one
func (s *SQLite) Set(plugin, key string, value interface{}) error {
	if err := checkNames(plugin, key); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("can't encode %s/%s: %w", plugin, key, err)
	}
	_, err = s.db.Exec(`INSERT INTO plugin_storage (plugin, key, value) VALUES (?, ?, ?)
		ON CONFLICT(plugin, key) DO UPDATE SET value = excluded.value`, plugin, key, string(data))
	if err != nil {
		return fmt.Errorf("can't set %s/%s: %w", plugin, key, err)
	}
	return nil
}

// Delete removes the key
func (s *SQLite) Delete(plugin, key string) error {
	if err := checkNames(plugin, key); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM plugin_storage WHERE plugin = ? AND key = ?", plugin, key); err != nil {
		return fmt.Errorf("can't delete %s/%s: %w", plugin, key, err)
	}
	return nil
}

// Close closes underlying db
func (s *SQLite) Close() error {
	return s.db.Close()
}
