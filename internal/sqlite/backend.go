// Package sqlite implements the document-backed Treesor backend on an
// embedded SQLite database. Nodes and per-node values are JSON documents in
// the nodes and node_values collections; columns are rows in columns.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/wgross/treesor/pkg/types"
)

// DatabaseFile is the file name used inside a data directory.
const DatabaseFile = "treesor.db"

// Backend implements types.Backend on one SQLite database handle, which it
// owns exclusively.
type Backend struct {
	db      *sql.DB
	path    string
	closed  bool
	log     log.FieldLogger
	tree    *Tree
	columns *Columns
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger for debug traces. The default is the logrus
// standard logger.
func WithLogger(l log.FieldLogger) Option {
	return func(b *Backend) { b.log = l }
}

// NewBackend opens (creating if needed) the database in dataDir.
func NewBackend(dataDir string, opts ...Option) (*Backend, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return Open(filepath.Join(dataDir, DatabaseFile), opts...)
}

// Open opens the database at dsn and applies the schema. dsn may be
// ":memory:" for a throwaway store.
func Open(dsn string, opts ...Option) (*Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// One connection keeps ":memory:" databases coherent and serializes
	// writers on file databases.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	b := &Backend{db: db, path: dsn, log: log.StandardLogger()}
	for _, opt := range opts {
		opt(b)
	}
	b.tree = &Tree{db: db, log: b.log}
	b.columns = &Columns{db: db}
	b.log.WithField("dsn", dsn).Debug("document store opened")
	return b, nil
}

// Tree implements types.Backend.
func (b *Backend) Tree() types.Tree { return b.tree }

// Columns implements types.Backend.
func (b *Backend) Columns() types.ColumnStore { return b.columns }

// Close releases the database handle. Close is idempotent.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.log.WithField("dsn", b.path).Debug("document store closed")
	return b.db.Close()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

// withTx runs fn in a transaction, committing on success.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
