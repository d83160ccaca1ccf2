// Package sqlite provides the public constructors for the document-backed
// Treesor backend while keeping the implementation internal.
//
// Example:
//
//	backend, err := sqlite.NewBackend(".treesor-db")
//	if err != nil {
//	    return err
//	}
//	model, err := treesor.New(backend)
//	defer model.Close()
package sqlite

import (
	log "github.com/sirupsen/logrus"

	"github.com/wgross/treesor/internal/sqlite"
	"github.com/wgross/treesor/pkg/types"
)

// Option configures a backend.
type Option = sqlite.Option

// WithLogger sets the logger for the backend's debug traces.
func WithLogger(l log.FieldLogger) Option {
	return sqlite.WithLogger(l)
}

// NewBackend opens the database file in dataDir, creating directory, file,
// and schema as needed.
func NewBackend(dataDir string, opts ...Option) (types.Backend, error) {
	b, err := sqlite.NewBackend(dataDir, opts...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Open opens the database at dsn. Use ":memory:" for a throwaway store.
func Open(dsn string, opts ...Option) (types.Backend, error) {
	b, err := sqlite.Open(dsn, opts...)
	if err != nil {
		return nil, err
	}
	return b, nil
}
