package treesor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wgross/treesor/pkg/types"
)

// NewItem creates an item at path with a fresh id. Missing ancestors are
// created as value-less nodes. Items carry no payload: a non-nil payload
// fails with types.ErrUnsupported.
func (m *Model) NewItem(path types.Path, payload any) (types.Item, error) {
	if err := m.check(); err != nil {
		return types.Item{}, err
	}
	if payload != nil {
		return types.Item{}, fmt.Errorf("%w: items carry no payload", types.ErrUnsupported)
	}
	id := types.NewID()
	if err := m.tree.Add(path, id); err != nil {
		return types.Item{}, err
	}
	return types.Item{Path: path, ID: id}, nil
}

// ItemExists reports whether a valued node exists at path.
func (m *Model) ItemExists(path types.Path) (bool, error) {
	if err := m.check(); err != nil {
		return false, err
	}
	_, ok, err := m.tree.TryGetValue(path)
	return ok, err
}

// GetItem returns the item at path, or nil when there is none.
func (m *Model) GetItem(path types.Path) (*types.Item, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	id, ok, err := m.tree.TryGetValue(path)
	if err != nil || !ok {
		return nil, err
	}
	return &types.Item{Path: path, ID: id}, nil
}

// SetItem always fails: items carry no payload.
func (m *Model) SetItem(path types.Path, value any) error {
	return fmt.Errorf("%w: items carry no payload", types.ErrUnsupported)
}

// ClearItem does nothing: there is no payload to clear.
func (m *Model) ClearItem(path types.Path) error {
	return m.check()
}

// RemoveItem deletes the node at path, and its subtree when recursive is
// set. Property values of every removed node are dropped with it.
func (m *Model) RemoveItem(path types.Path, recursive bool) error {
	if err := m.check(); err != nil {
		return err
	}
	n, err := m.tree.Traverse(path)
	if err != nil {
		return err
	}
	var ids []uuid.UUID
	if !path.IsRoot() {
		if id, ok := n.Value(); ok {
			ids = append(ids, id)
		}
	}
	if recursive {
		desc, err := n.Descendants()
		if err != nil {
			return err
		}
		for _, d := range desc {
			if id, ok := d.Value(); ok {
				ids = append(ids, id)
			}
		}
	}
	if err := m.tree.RemoveNode(path, recursive); err != nil {
		return err
	}
	for _, id := range ids {
		if err := m.columns.ClearNode(id); err != nil {
			return fmt.Errorf("clearing properties of %s: %w", id, err)
		}
	}
	return nil
}

// HasChildItems reports whether the node at path has children. It fails
// with types.ErrNotFound when no node exists at path.
func (m *Model) HasChildItems(path types.Path) (bool, error) {
	if err := m.check(); err != nil {
		return false, err
	}
	n, err := m.tree.Traverse(path)
	if err != nil {
		return false, err
	}
	return n.HasChildren(), nil
}

// GetChildItems returns the valued children of path in insertion order.
func (m *Model) GetChildItems(path types.Path) ([]types.Item, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	n, err := m.tree.Traverse(path)
	if err != nil {
		return nil, err
	}
	kids, err := n.Children()
	if err != nil {
		return nil, err
	}
	return project(kids), nil
}

// GetDescendants returns every valued node below path, breadth-first.
func (m *Model) GetDescendants(path types.Path) ([]types.Item, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	n, err := m.tree.Traverse(path)
	if err != nil {
		return nil, err
	}
	desc, err := n.Descendants()
	if err != nil {
		return nil, err
	}
	return project(desc), nil
}

func project(nodes []types.Node) []types.Item {
	items := make([]types.Item, 0, len(nodes))
	for _, n := range nodes {
		if id, ok := n.Value(); ok {
			items = append(items, types.Item{Path: n.Path(), ID: id})
		}
	}
	return items
}

// occupied reports whether any node, valued or not, exists at path.
func (m *Model) occupied(path types.Path) (bool, error) {
	_, err := m.tree.Traverse(path)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
