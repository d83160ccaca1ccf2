package treesor

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/wgross/treesor/pkg/memory"
	"github.com/wgross/treesor/pkg/sqlite"
	"github.com/wgross/treesor/pkg/types"
)

// Model is the item model over one backend. It owns the backend and
// releases it on Close.
type Model struct {
	backend types.Backend
	tree    types.Tree
	columns types.ColumnStore
	log     log.FieldLogger
	closed  bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for debug traces.
func WithLogger(l log.FieldLogger) Option {
	return func(m *Model) { m.log = l }
}

// New builds a model over backend. The root node is given an id if it does
// not have one yet, so the root can carry properties like any other item.
func New(backend types.Backend, opts ...Option) (*Model, error) {
	m := newModel(backend, opts)
	if _, ok, err := m.tree.TryGetValue(types.RootPath); err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	} else if !ok {
		if err := m.tree.Add(types.RootPath, types.NewID()); err != nil {
			return nil, fmt.Errorf("initializing root: %w", err)
		}
	}
	return m, nil
}

func newModel(backend types.Backend, opts []Option) *Model {
	m := &Model{backend: backend, log: log.StandardLogger()}
	if backend != nil {
		m.tree, m.columns = backend.Tree(), backend.Columns()
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open validates cfg and builds a model over the backend it names. The
// logger set with WithLogger also reaches the backend.
func Open(cfg types.Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := newModel(nil, opts).log
	var backend types.Backend
	switch cfg.Backend {
	case types.BackendMemory:
		backend = memory.NewBackend()
	case types.BackendSQLite:
		b, err := sqlite.NewBackend(cfg.DataDir, sqlite.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		backend = b
	}
	m, err := New(backend, opts...)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return m, nil
}

// Close releases the backend. Close is idempotent; every other operation
// fails with types.ErrClosed afterwards.
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.backend.Close()
}

func (m *Model) check() error {
	if m.closed {
		return types.ErrClosed
	}
	return nil
}
