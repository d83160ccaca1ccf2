package memory

import "github.com/wgross/treesor/pkg/types"

// Backend pairs an in-memory Tree with an in-memory column store.
type Backend struct {
	tree    *Tree
	columns *Columns
}

// NewBackend returns an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{tree: NewTree(), columns: NewColumns()}
}

// Tree implements types.Backend.
func (b *Backend) Tree() types.Tree { return b.tree }

// Columns implements types.Backend.
func (b *Backend) Columns() types.ColumnStore { return b.columns }

// Close implements types.Backend. There is nothing to release.
func (b *Backend) Close() error { return nil }
