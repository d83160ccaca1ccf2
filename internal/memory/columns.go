package memory

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/wgross/treesor/pkg/types"
)

type column struct {
	types.Column
	values map[uuid.UUID]any
}

// Columns is the in-memory column store.
type Columns struct {
	byName map[string]*column
	order  []*column
}

// NewColumns returns an empty column store.
func NewColumns() *Columns {
	return &Columns{byName: make(map[string]*column)}
}

// CreateColumn implements types.ColumnStore.
func (c *Columns) CreateColumn(col types.Column) error {
	if _, ok := c.byName[col.Name]; ok {
		return fmt.Errorf("%w: column %q", types.ErrDuplicateDefinition, col.Name)
	}
	entry := &column{Column: col, values: make(map[uuid.UUID]any)}
	c.byName[col.Name] = entry
	c.order = append(c.order, entry)
	return nil
}

// Column implements types.ColumnStore.
func (c *Columns) Column(name string) (types.Column, bool, error) {
	entry, ok := c.byName[name]
	if !ok {
		return types.Column{}, false, nil
	}
	return entry.Column, true, nil
}

// Columns implements types.ColumnStore.
func (c *Columns) Columns() ([]types.Column, error) {
	out := make([]types.Column, 0, len(c.order))
	for _, entry := range c.order {
		out = append(out, entry.Column)
	}
	return out, nil
}

// RemoveColumn implements types.ColumnStore.
func (c *Columns) RemoveColumn(name string) (bool, error) {
	entry, ok := c.byName[name]
	if !ok {
		return false, nil
	}
	delete(c.byName, name)
	for i, e := range c.order {
		if e == entry {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// RenameColumn implements types.ColumnStore.
func (c *Columns) RenameColumn(oldName, newName string) error {
	entry, ok := c.byName[oldName]
	if !ok {
		return fmt.Errorf("column %q: %w", oldName, types.ErrColumnNotFound)
	}
	if _, taken := c.byName[newName]; taken {
		return fmt.Errorf("%w: column %q", types.ErrDuplicateDefinition, newName)
	}
	delete(c.byName, oldName)
	entry.Name = newName
	c.byName[newName] = entry
	return nil
}

// SetValue implements types.ColumnStore. v must match the column's kind,
// as it must to be encoded by the document store.
func (c *Columns) SetValue(name string, id uuid.UUID, v any) error {
	entry, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("column %q: %w", name, types.ErrColumnNotFound)
	}
	if !entry.Kind.Matches(v) {
		return fmt.Errorf("column %q: %w: %T is not %s", name, types.ErrTypeMismatch, v, entry.Kind)
	}
	entry.values[id] = detach(v)
	return nil
}

// Value implements types.ColumnStore.
func (c *Columns) Value(name string, id uuid.UUID) (any, bool, error) {
	entry, ok := c.byName[name]
	if !ok {
		return nil, false, fmt.Errorf("column %q: %w", name, types.ErrColumnNotFound)
	}
	v, ok := entry.values[id]
	return detach(v), ok, nil
}

// detach copies byte slices so the store never shares memory with callers.
func detach(v any) any {
	if b, ok := v.([]byte); ok {
		return bytes.Clone(b)
	}
	return v
}

// ClearValue implements types.ColumnStore.
func (c *Columns) ClearValue(name string, id uuid.UUID) (bool, error) {
	entry, ok := c.byName[name]
	if !ok {
		return false, fmt.Errorf("column %q: %w", name, types.ErrColumnNotFound)
	}
	_, had := entry.values[id]
	delete(entry.values, id)
	return had, nil
}

// ClearNode implements types.ColumnStore.
func (c *Columns) ClearNode(id uuid.UUID) error {
	for _, entry := range c.order {
		delete(entry.values, id)
	}
	return nil
}
