package types

import "github.com/google/uuid"

// DepthUnlimited makes Tree.RemoveValue detach every value in the subtree.
const DepthUnlimited = -1

// Tree is the tree engine: nodes keyed by segment name, each optionally
// carrying a value. Child keys are unique per parent case-insensitively.
// The root node always exists.
type Tree interface {
	// Add creates missing ancestors as value-less nodes and stores value at
	// path. Returns ErrDuplicateDefinition if path already holds a value.
	Add(path Path, value uuid.UUID) error

	// TryGetValue returns the value at path. ok is false if no node exists
	// there or the node has no value.
	TryGetValue(path Path) (value uuid.UUID, ok bool, err error)

	// RemoveValue detaches the value at path and, down to depth levels
	// below it, the values of its descendants. Nodes are kept.
	RemoveValue(path Path, depth int) error

	// RemoveNode deletes the node at path. Without recursive a node with
	// children is refused with ErrHasChildren. Removing the root removes its
	// children and keeps the root node and its value.
	RemoveNode(path Path, recursive bool) error

	// Reparent moves the node at src with its subtree to dst, keeping every
	// value. Missing ancestors of dst are created.
	Reparent(src, dst Path) error

	// Traverse returns a handle on the node at path, or ErrNodeNotFound.
	Traverse(path Path) (Node, error)
}

// Node is a handle on one tree node. Children and Descendants enumerate in
// breadth-first order, each node's children in insertion order.
type Node interface {
	Path() Path
	Value() (uuid.UUID, bool)
	HasChildren() bool
	Children() ([]Node, error)
	Descendants() ([]Node, error)
}

// ColumnStore holds named, typed, sparse value maps keyed by node id,
// independent of tree structure. Argument validation belongs to the caller.
type ColumnStore interface {
	// CreateColumn adds a column. Returns ErrDuplicateDefinition if the name
	// is taken.
	CreateColumn(col Column) error

	// Column looks a column up by name.
	Column(name string) (col Column, ok bool, err error)

	// Columns lists every column in creation order.
	Columns() ([]Column, error)

	// RemoveColumn drops a column and all of its values.
	RemoveColumn(name string) (bool, error)

	// RenameColumn renames a column, keeping its values.
	RenameColumn(oldName, newName string) error

	// SetValue stores v for node id in the named column. A value that does
	// not match the column's kind fails with ErrTypeMismatch.
	SetValue(column string, id uuid.UUID, v any) error

	// Value returns the value of node id in the named column.
	Value(column string, id uuid.UUID) (v any, ok bool, err error)

	// ClearValue removes the value of node id from the named column.
	ClearValue(column string, id uuid.UUID) (bool, error)

	// ClearNode removes every value of node id.
	ClearNode(id uuid.UUID) error
}

// Backend bundles a Tree with its ColumnStore. A backend owns its storage
// handle; Close releases it and may be called more than once.
type Backend interface {
	Tree() Tree
	Columns() ColumnStore
	Close() error
}
