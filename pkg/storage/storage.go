// Package storage is the local SQLite cache: category snapshots, asset
// records, a change journal, and the persisted UI session state.
package storage

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// ErrWipeAborted is returned by UpsertAssets when a fetch yields zero
// assets while the cache holds many: that is almost always a broken
// source or a service outage, not a genuinely emptied catalog, so the
// removal sweep is refused to protect the cache.
var ErrWipeAborted = errors.New("refusing sweep: source returned no assets but cache is populated")

// wipeGuardThreshold is the cached-asset count above which an empty fetch
// aborts instead of sweeping.
const wipeGuardThreshold = 10

type DB struct {
	sql *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS categories (
  source     TEXT NOT NULL,
  id         TEXT NOT NULL,
  name       TEXT NOT NULL,
  parent_id  TEXT NOT NULL DEFAULT '',
  position   INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (source, id)
);
CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(source, parent_id, position);
CREATE TABLE IF NOT EXISTS assets (
  source         TEXT NOT NULL,
  id             TEXT NOT NULL,
  name           TEXT NOT NULL,
  type           TEXT NOT NULL DEFAULT '',
  category_id    TEXT NOT NULL DEFAULT '',
  category_path  TEXT NOT NULL DEFAULT '',
  series_id      TEXT NOT NULL DEFAULT '',
  series_name    TEXT NOT NULL DEFAULT '',
  size_category  TEXT NOT NULL DEFAULT '',
  dir            TEXT NOT NULL DEFAULT '',
  provider       TEXT NOT NULL DEFAULT '',
  preview_url    TEXT NOT NULL DEFAULT '',
  download_url   TEXT NOT NULL DEFAULT '',
  file_size      INTEGER NOT NULL DEFAULT 0,
  run_id         INTEGER NOT NULL DEFAULT 0,
  first_seen_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (source, id)
);
CREATE INDEX IF NOT EXISTS idx_assets_type ON assets(type);
CREATE TABLE IF NOT EXISTS asset_tags (
  source    TEXT NOT NULL,
  asset_id  TEXT NOT NULL,
  position  INTEGER NOT NULL DEFAULT 0,
  tag_id    TEXT NOT NULL DEFAULT '',
  tag_name  TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (source, asset_id, position)
);
CREATE TABLE IF NOT EXISTS catalog_changes (
  id           INTEGER PRIMARY KEY,
  occurred_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  source       TEXT NOT NULL,
  asset_id     TEXT NOT NULL,
  name         TEXT NOT NULL,
  change_type  TEXT NOT NULL CHECK (change_type IN ('added','updated','removed'))
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON catalog_changes(occurred_at);
CREATE TABLE IF NOT EXISTS ui_state (
  key         TEXT PRIMARY KEY,
  value       TEXT NOT NULL,
  updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// GetState reads one ui_state value; a missing key yields ("", nil).
func (d *DB) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM ui_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetState writes one ui_state value.
func (d *DB) SetState(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx, `
		INSERT INTO ui_state(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}

// DeleteState removes one ui_state value.
func (d *DB) DeleteState(ctx context.Context, key string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM ui_state WHERE key = ?", key)
	return err
}
