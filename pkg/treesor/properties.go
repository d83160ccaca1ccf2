package treesor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wgross/treesor/pkg/types"
)

// CreateColumn declares a typed column. Declaring an existing column again
// with the same kind returns it unchanged; a different kind fails with
// types.ErrDuplicateDefinition.
func (m *Model) CreateColumn(name string, kind types.ValueKind) (types.Column, error) {
	if err := m.check(); err != nil {
		return types.Column{}, err
	}
	if name == "" {
		return types.Column{}, fmt.Errorf("%w: column name", types.ErrArgumentMissing)
	}
	if kind == "" {
		return types.Column{}, fmt.Errorf("%w: column type", types.ErrArgumentMissing)
	}
	if !kind.Valid() {
		return types.Column{}, fmt.Errorf("column %q: %w %q", name, types.ErrUnknownValueKind, string(kind))
	}
	existing, ok, err := m.columns.Column(name)
	if err != nil {
		return types.Column{}, err
	}
	if ok {
		if existing.Kind != kind {
			return types.Column{}, fmt.Errorf("%w: column %q is %s, not %s",
				types.ErrDuplicateDefinition, name, existing.Kind, kind)
		}
		return existing, nil
	}
	col := types.Column{Name: name, Kind: kind}
	if err := m.columns.CreateColumn(col); err != nil {
		return types.Column{}, err
	}
	return col, nil
}

// RemoveColumn drops a column with all its values and reports whether it
// existed.
func (m *Model) RemoveColumn(name string) (bool, error) {
	if err := m.check(); err != nil {
		return false, err
	}
	if name == "" {
		return false, fmt.Errorf("%w: column name", types.ErrArgumentMissing)
	}
	return m.columns.RemoveColumn(name)
}

// RenameColumn renames a column, keeping its values. It does nothing when
// oldName is not a column.
func (m *Model) RenameColumn(oldName, newName string) error {
	if err := m.check(); err != nil {
		return err
	}
	if oldName == "" || newName == "" {
		return fmt.Errorf("%w: column name", types.ErrArgumentMissing)
	}
	if _, ok, err := m.columns.Column(oldName); err != nil || !ok {
		return err
	}
	if _, ok, err := m.columns.Column(newName); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: column %q", types.ErrDuplicateDefinition, newName)
	}
	return m.columns.RenameColumn(oldName, newName)
}

// GetColumns lists every column in creation order.
func (m *Model) GetColumns() ([]types.Column, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	return m.columns.Columns()
}

func (m *Model) nodeID(path types.Path) (uuid.UUID, error) {
	id, ok, err := m.tree.TryGetValue(path)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, fmt.Errorf("%s: %w", path, types.ErrNodeNotFound)
	}
	return id, nil
}

func (m *Model) column(name string) (types.Column, error) {
	col, ok, err := m.columns.Column(name)
	if err != nil {
		return types.Column{}, err
	}
	if !ok {
		return types.Column{}, fmt.Errorf("%q: %w", name, types.ErrColumnNotFound)
	}
	return col, nil
}

// SetPropertyValue stores value for the item at path in the named column.
// Checks run in a fixed order: name given, node exists, column exists, then
// the value's runtime type equals the column's kind.
func (m *Model) SetPropertyValue(path types.Path, name string, value any) error {
	if err := m.check(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: property name", types.ErrArgumentMissing)
	}
	id, err := m.nodeID(path)
	if err != nil {
		return err
	}
	col, err := m.column(name)
	if err != nil {
		return err
	}
	if !col.Kind.Matches(value) {
		return fmt.Errorf("%w: value %v of type %T can't be assigned to property %q of node %s: %s required",
			types.ErrTypeMismatch, value, value, name, id, col.Kind)
	}
	return m.columns.SetValue(name, id, value)
}

// GetPropertyValue returns the named property of the item at path. ok is
// false when the property is unset. The column is checked before the node.
func (m *Model) GetPropertyValue(path types.Path, name string) (value any, ok bool, err error) {
	if err := m.check(); err != nil {
		return nil, false, err
	}
	if name == "" {
		return nil, false, fmt.Errorf("%w: property name", types.ErrArgumentMissing)
	}
	if _, err := m.column(name); err != nil {
		return nil, false, err
	}
	id, err := m.nodeID(path)
	if err != nil {
		return nil, false, err
	}
	return m.columns.Value(name, id)
}

// ClearPropertyValue unsets the named property of the item at path. The
// node and its other properties are untouched.
func (m *Model) ClearPropertyValue(path types.Path, name string) error {
	if err := m.check(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: property name", types.ErrArgumentMissing)
	}
	if _, err := m.column(name); err != nil {
		return err
	}
	id, err := m.nodeID(path)
	if err != nil {
		return err
	}
	_, err = m.columns.ClearValue(name, id)
	return err
}

// CopyPropertyValue reads a property of one item and sets it on another.
// When the source is unset the destination is still validated but left
// unchanged.
func (m *Model) CopyPropertyValue(srcPath types.Path, srcName string, dstPath types.Path, dstName string) error {
	v, ok, err := m.GetPropertyValue(srcPath, srcName)
	if err != nil {
		return err
	}
	if ok {
		return m.SetPropertyValue(dstPath, dstName, v)
	}
	if dstName == "" {
		return fmt.Errorf("%w: property name", types.ErrArgumentMissing)
	}
	if _, err := m.nodeID(dstPath); err != nil {
		return err
	}
	_, err = m.column(dstName)
	return err
}

// MovePropertyValue copies a property, then clears the source. If the copy
// fails the source is left as it was.
func (m *Model) MovePropertyValue(srcPath types.Path, srcName string, dstPath types.Path, dstName string) error {
	if err := m.CopyPropertyValue(srcPath, srcName, dstPath, dstName); err != nil {
		return err
	}
	return m.ClearPropertyValue(srcPath, srcName)
}
