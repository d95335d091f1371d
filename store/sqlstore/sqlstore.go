// Copyright 2016 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sqlstore is a database/sql-backed mssmt.TreeStore, usable with
// any driver that speaks either Postgres- or MySQL-style placeholders
// (see OpenPostgres and OpenMySQL). Each TreeStore method runs a single
// statement. A tree's insert/update/delete operation is atomic only when
// the caller runs it inside WithTx, against the Store that WithTx passes
// to its callback; outside WithTx every statement commits on its own.
package sqlstore

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang/glog"
	_ "github.com/lib/pq"

	"github.com/chainsum/mssmt"
)

// dialect abstracts the ways the Postgres and MySQL backends differ:
// placeholder syntax and table DDL here, plus (keyed on name) the branch
// child column names in leftRightColumns and the insert-if-absent syntax
// in InsertLeaf/InsertBranch.
type dialect struct {
	name         string
	placeholder  func(n int) string
	createTables string
}

var postgresDialect = dialect{
	name: "postgres",
	placeholder: func(n int) string {
		return fmt.Sprintf("$%d", n)
	},
	createTables: `
CREATE TABLE IF NOT EXISTS mssmt_leaves (
	hash CHAR(64) PRIMARY KEY,
	data BYTEA NOT NULL,
	sum  BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS mssmt_branches (
	hash  CHAR(64) PRIMARY KEY,
	left  CHAR(64) NOT NULL,
	right CHAR(64) NOT NULL,
	sum   BIGINT NOT NULL
);`,
}

var mysqlDialect = dialect{
	name: "mysql",
	placeholder: func(int) string {
		return "?"
	},
	createTables: `
CREATE TABLE IF NOT EXISTS mssmt_leaves (
	hash CHAR(64) PRIMARY KEY,
	data BLOB NOT NULL,
	sum  BIGINT UNSIGNED NOT NULL
);
CREATE TABLE IF NOT EXISTS mssmt_branches (
	hash  CHAR(64) PRIMARY KEY,
	left_hash  CHAR(64) NOT NULL,
	right_hash CHAR(64) NOT NULL,
	sum   BIGINT UNSIGNED NOT NULL
);`,
}

// execer is satisfied by both *sql.DB and *sql.Tx, letting every query
// method below run unchanged whether or not it's inside a WithTx block.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Store is a database/sql-backed mssmt.TreeStore. Construct one with
// OpenPostgres or OpenMySQL rather than directly.
type Store struct {
	db      *sql.DB
	conn    execer
	dialect dialect
}

// OpenPostgres opens a Postgres-backed Store using github.com/lib/pq as
// the database/sql driver, creating the backing tables if absent.
func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open postgres: %w", err)
	}
	return open(db, postgresDialect)
}

// OpenMySQL opens a MySQL-backed Store using
// github.com/go-sql-driver/mysql as the database/sql driver, creating the
// backing tables if absent.
func OpenMySQL(dsn string) (*Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open mysql: %w", err)
	}
	return open(db, mysqlDialect)
}

func open(db *sql.DB, d dialect) (*Store, error) {
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlstore: ping %s: %w", d.name, err)
	}
	if _, err := db.Exec(d.createTables); err != nil {
		return nil, fmt.Errorf("sqlstore: create tables on %s: %w", d.name, err)
	}
	glog.V(1).Infof("sqlstore: opened %s backend", d.name)
	return &Store{db: db, conn: db, dialect: d}, nil
}

// Close releases the underlying *sql.DB.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) leftRightColumns() (string, string) {
	if s.dialect.name == "mysql" {
		return "left_hash", "right_hash"
	}
	return "left", "right"
}

// InsertLeaf implements mssmt.TreeStore.
func (s *Store) InsertLeaf(leaf *mssmt.Leaf) error {
	hash := leaf.NodeHash()
	p := s.dialect.placeholder
	query := fmt.Sprintf(
		`INSERT INTO mssmt_leaves (hash, data, sum) VALUES (%s, %s, %s)
		 ON CONFLICT (hash) DO NOTHING`,
		p(1), p(2), p(3))
	if s.dialect.name == "mysql" {
		query = fmt.Sprintf(
			`INSERT IGNORE INTO mssmt_leaves (hash, data, sum) VALUES (%s, %s, %s)`,
			p(1), p(2), p(3))
	}
	_, err := s.conn.Exec(query, hash.String(), leaf.Data, leaf.Sum)
	return err
}

// InsertBranch implements mssmt.TreeStore.
func (s *Store) InsertBranch(branch *mssmt.DiskBranch) error {
	hash := branch.NodeHash()
	left, right := s.leftRightColumns()
	p := s.dialect.placeholder
	query := fmt.Sprintf(
		`INSERT INTO mssmt_branches (hash, %s, %s, sum) VALUES (%s, %s, %s, %s)
		 ON CONFLICT (hash) DO NOTHING`,
		left, right, p(1), p(2), p(3), p(4))
	if s.dialect.name == "mysql" {
		query = fmt.Sprintf(
			`INSERT IGNORE INTO mssmt_branches (hash, %s, %s, sum) VALUES (%s, %s, %s, %s)`,
			left, right, p(1), p(2), p(3), p(4))
	}
	lh, rh := branch.Left(), branch.Right()
	_, err := s.conn.Exec(query, hash.String(), lh.String(), rh.String(), branch.NodeSum())
	return err
}

// DeleteLeaf implements mssmt.TreeStore.
func (s *Store) DeleteLeaf(hash mssmt.NodeHash) error {
	p := s.dialect.placeholder
	_, err := s.conn.Exec(fmt.Sprintf("DELETE FROM mssmt_leaves WHERE hash = %s", p(1)), hash.String())
	return err
}

// DeleteBranch implements mssmt.TreeStore.
func (s *Store) DeleteBranch(hash mssmt.NodeHash) error {
	p := s.dialect.placeholder
	_, err := s.conn.Exec(fmt.Sprintf("DELETE FROM mssmt_branches WHERE hash = %s", p(1)), hash.String())
	return err
}

// FetchLeaf implements mssmt.TreeStore.
func (s *Store) FetchLeaf(hash mssmt.NodeHash) (*mssmt.Leaf, bool, error) {
	p := s.dialect.placeholder
	row := s.conn.QueryRow(fmt.Sprintf("SELECT data, sum FROM mssmt_leaves WHERE hash = %s", p(1)), hash.String())

	var data []byte
	var sum uint64
	if err := row.Scan(&data, &sum); err == sql.ErrNoRows {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	return mssmt.NewLeaf(data, sum), true, nil
}

// FetchBranch implements mssmt.TreeStore.
func (s *Store) FetchBranch(hash mssmt.NodeHash) (*mssmt.DiskBranch, bool, error) {
	left, right := s.leftRightColumns()
	p := s.dialect.placeholder
	query := fmt.Sprintf("SELECT %s, %s, sum FROM mssmt_branches WHERE hash = %s", left, right, p(1))
	row := s.conn.QueryRow(query, hash.String())

	var leftHex, rightHex string
	var sum uint64
	if err := row.Scan(&leftHex, &rightHex, &sum); err == sql.ErrNoRows {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	lh, err := mssmt.NodeHashFromHex(leftHex)
	if err != nil {
		return nil, false, err
	}
	rh, err := mssmt.NodeHashFromHex(rightHex)
	if err != nil {
		return nil, false, err
	}
	return mssmt.NewDiskBranch(lh, rh, sum), true, nil
}

// AllHashes implements mssmt.EnumerableStore for the offline auditor.
func (s *Store) AllHashes() ([]mssmt.NodeHash, error) {
	var hashes []mssmt.NodeHash
	for _, table := range []string{"mssmt_leaves", "mssmt_branches"} {
		rows, err := s.conn.Query(fmt.Sprintf("SELECT hash FROM %s", table))
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var hex string
			if err := rows.Scan(&hex); err != nil {
				rows.Close()
				return nil, err
			}
			h, err := mssmt.NodeHashFromHex(hex)
			if err != nil {
				rows.Close()
				return nil, err
			}
			hashes = append(hashes, h)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return hashes, nil
}

// WithTx runs fn against a Store backed by a single *sql.Tx, committing
// on success and rolling back on any error fn returns -- the mechanism by
// which a caller gives one engine mutation (descent reads, leaf write,
// per-level branch rewrites) all-or-nothing semantics.
func (s *Store) WithTx(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	wrapped := &Store{db: s.db, conn: tx, dialect: s.dialect}
	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			glog.Warningf("sqlstore: rollback failed: %v", rbErr)
		}
		return err
	}
	return tx.Commit()
}

var _ mssmt.TreeStore = (*Store)(nil)
var _ mssmt.EnumerableStore = (*Store)(nil)
