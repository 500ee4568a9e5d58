// Copyright 2016 The Cats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/srikanthallu/cats/errs"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Archive stores state documents by key in a SQLite database
type Archive struct {
	db   *sql.DB
	path string
}

// OpenArchive opens or creates an archive
func OpenArchive(path string) (*Archive, error) {
	if path == "" {
		path = "cats.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS states (
		key TEXT PRIMARY KEY,
		created TEXT NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create states table: %w", err)
	}
	return &Archive{db: db, path: path}, nil
}

// Put stores a state under key, replacing any previous one
func (o *Archive) Put(key string, state *State) (retErr error) {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	tx, err := o.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	stamp := time.Now().UTC().Format(time.RFC3339)
	if _, err = tx.Exec(`INSERT INTO states(key,created,payload) VALUES(?,?,?) ON CONFLICT(key) DO UPDATE SET created=excluded.created, payload=excluded.payload`, key, stamp, data); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return tx.Commit()
}

// Get returns the state stored under key
func (o *Archive) Get(key string) (*State, error) {
	var payload []byte
	err := o.db.QueryRow(`SELECT payload FROM states WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.UnknownName("archive", key)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	var state State
	if err = json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &state, nil
}

// Keys returns all keys sorted
func (o *Archive) Keys() (keys []string, err error) {
	rows, err := o.db.Query(`SELECT key FROM states ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("select keys: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Delete removes the state stored under key
func (o *Archive) Delete(key string) error {
	res, err := o.db.Exec(`DELETE FROM states WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.UnknownName("archive", key)
	}
	return nil
}

// Path returns the database path
func (o *Archive) Path() string { return o.path }

// Close closes the database
func (o *Archive) Close() error { return o.db.Close() }
