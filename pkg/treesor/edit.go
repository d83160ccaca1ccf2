package treesor

import (
	"fmt"

	"github.com/wgross/treesor/pkg/types"
)

// RenameItem gives the item at path a new leaf name under the same parent,
// keeping its id and subtree. newName must be a single segment. Nothing
// happens when there is no item at path, when path is the root, or when the
// new name is already taken.
func (m *Model) RenameItem(path types.Path, newName string) error {
	if err := m.check(); err != nil {
		return err
	}
	if err := types.CheckName(newName); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	parent, ok := path.Parent()
	if !ok {
		m.log.WithField("path", path.String()).Debug("rename skipped: root cannot be renamed")
		return nil
	}
	if exists, err := m.ItemExists(path); err != nil || !exists {
		if err == nil {
			m.log.WithField("path", path.String()).Debug("rename skipped: no item")
		}
		return err
	}
	dst := parent.Join(newName)
	if taken, err := m.occupied(dst); err != nil || taken {
		if err == nil {
			m.log.WithField("destination", dst.String()).Debug("rename skipped: name taken")
		}
		return err
	}
	return m.tree.Reparent(path, dst)
}

// resolveDestination picks where src lands for a copy or move to dst: dst
// itself when it is free, otherwise src's leaf name below dst. ok is false
// when that nested path is taken too.
func (m *Model) resolveDestination(src, dst types.Path) (target types.Path, ok bool, err error) {
	taken, err := m.occupied(dst)
	if err != nil {
		return types.Path{}, false, err
	}
	if !taken {
		return dst, true, nil
	}
	leaf, hasLeaf := src.Leaf()
	if !hasLeaf {
		return types.Path{}, false, nil
	}
	nested := dst.Join(leaf)
	if taken, err = m.occupied(nested); err != nil || taken {
		return types.Path{}, false, err
	}
	return nested, true, nil
}

// CopyItem copies the item at source to destination. Every created node gets
// a fresh id; ids are never shared with the source. If destination already
// exists the copy goes below it under the source's name, and nothing happens
// if that spot is taken too. With recursive set, every valued descendant of
// source is copied to the same relative path under the new item. Property
// values are not copied.
func (m *Model) CopyItem(source, destination types.Path, recursive bool) error {
	if err := m.check(); err != nil {
		return err
	}
	if exists, err := m.ItemExists(source); err != nil || !exists {
		if err == nil {
			m.log.WithField("source", source.String()).Debug("copy skipped: no item")
		}
		return err
	}
	target, ok, err := m.resolveDestination(source, destination)
	if err != nil || !ok {
		if err == nil {
			m.log.WithField("destination", destination.String()).Debug("copy skipped: destination taken")
		}
		return err
	}

	var descendants []types.Node
	if recursive {
		n, err := m.tree.Traverse(source)
		if err != nil {
			return err
		}
		if descendants, err = n.Descendants(); err != nil {
			return err
		}
	}

	if err := m.tree.Add(target, types.NewID()); err != nil {
		return err
	}
	for _, d := range descendants {
		if _, ok := d.Value(); !ok {
			continue
		}
		rel, ok := d.Path().RelativeTo(source)
		if !ok {
			continue
		}
		if err := m.tree.Add(target.JoinPath(rel), types.NewID()); err != nil {
			return fmt.Errorf("copying %s: %w", d.Path(), err)
		}
	}
	return nil
}

// MoveItem moves the item at source, with its subtree, to destination. Ids
// are preserved and so are property values. Destination resolution follows
// CopyItem. Moving the root or moving an item into its own subtree does
// nothing.
func (m *Model) MoveItem(source, destination types.Path) error {
	if err := m.check(); err != nil {
		return err
	}
	if source.IsRoot() {
		m.log.Debug("move skipped: root cannot be moved")
		return nil
	}
	if exists, err := m.ItemExists(source); err != nil || !exists {
		if err == nil {
			m.log.WithField("source", source.String()).Debug("move skipped: no item")
		}
		return err
	}
	target, ok, err := m.resolveDestination(source, destination)
	if err != nil || !ok {
		if err == nil {
			m.log.WithField("destination", destination.String()).Debug("move skipped: destination taken")
		}
		return err
	}
	if target.HasPrefix(source) {
		m.log.WithField("destination", target.String()).Debug("move skipped: destination inside source")
		return nil
	}
	return m.tree.Reparent(source, target)
}
