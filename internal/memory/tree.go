// Package memory implements the in-process Treesor backend. Nothing is
// durable; state lives for the lifetime of the Backend value.
package memory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wgross/treesor/pkg/types"
)

// node is one tree position. children is keyed by the folded segment name;
// order keeps the insertion order of those keys.
type node struct {
	key      string
	parent   *node
	value    uuid.UUID
	hasValue bool
	children map[string]*node
	order    []string
}

func newNode(key string, parent *node) *node {
	return &node{key: key, parent: parent, children: make(map[string]*node)}
}

func fold(key string) string {
	return strings.ToLower(key)
}

func (n *node) child(key string) *node {
	return n.children[fold(key)]
}

func (n *node) attach(c *node) {
	k := fold(c.key)
	if _, ok := n.children[k]; !ok {
		n.order = append(n.order, k)
	}
	n.children[k] = c
	c.parent = n
}

func (n *node) detach(c *node) {
	k := fold(c.key)
	delete(n.children, k)
	for i, o := range n.order {
		if o == k {
			n.order = append(n.order[:i:i], n.order[i+1:]...)
			break
		}
	}
	c.parent = nil
}

func (n *node) path() types.Path {
	var segs []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		segs = append(segs, cur.key)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return types.NewPath(segs...)
}

// Tree is the in-memory tree engine.
type Tree struct {
	root *node
}

// NewTree returns a tree holding only a value-less root.
func NewTree() *Tree {
	return &Tree{root: newNode("", nil)}
}

func (t *Tree) find(p types.Path) *node {
	cur := t.root
	for _, seg := range p.Segments() {
		if cur = cur.child(seg); cur == nil {
			return nil
		}
	}
	return cur
}

func (t *Tree) ensure(p types.Path) *node {
	cur := t.root
	for _, seg := range p.Segments() {
		next := cur.child(seg)
		if next == nil {
			next = newNode(seg, cur)
			cur.attach(next)
		}
		cur = next
	}
	return cur
}

// Add implements types.Tree.
func (t *Tree) Add(p types.Path, value uuid.UUID) error {
	if n := t.find(p); n != nil && n.hasValue {
		return fmt.Errorf("%w: %s already holds a value", types.ErrDuplicateDefinition, p)
	}
	n := t.ensure(p)
	n.value, n.hasValue = value, true
	return nil
}

// TryGetValue implements types.Tree.
func (t *Tree) TryGetValue(p types.Path) (uuid.UUID, bool, error) {
	n := t.find(p)
	if n == nil || !n.hasValue {
		return uuid.Nil, false, nil
	}
	return n.value, true, nil
}

// RemoveValue implements types.Tree.
func (t *Tree) RemoveValue(p types.Path, depth int) error {
	n := t.find(p)
	if n == nil {
		return nil
	}
	level := []*node{n}
	for d := 0; len(level) > 0; d++ {
		var next []*node
		for _, cur := range level {
			cur.value, cur.hasValue = uuid.Nil, false
			if depth == types.DepthUnlimited || d < depth {
				next = append(next, cur.ordered()...)
			}
		}
		level = next
	}
	return nil
}

// RemoveNode implements types.Tree.
func (t *Tree) RemoveNode(p types.Path, recursive bool) error {
	n := t.find(p)
	if n == nil {
		return fmt.Errorf("%s: %w", p, types.ErrNodeNotFound)
	}
	if len(n.children) > 0 && !recursive {
		return fmt.Errorf("%s: %w", p, types.ErrHasChildren)
	}
	if n == t.root {
		for _, c := range n.ordered() {
			n.detach(c)
		}
		return nil
	}
	n.parent.detach(n)
	return nil
}

// Reparent implements types.Tree.
func (t *Tree) Reparent(src, dst types.Path) error {
	if src.IsRoot() || dst.HasPrefix(src) {
		return fmt.Errorf("%w: %s to %s", types.ErrInvalidMove, src, dst)
	}
	n := t.find(src)
	if n == nil {
		return fmt.Errorf("%s: %w", src, types.ErrNodeNotFound)
	}
	if t.find(dst) != nil {
		return fmt.Errorf("%w: %s already exists", types.ErrDuplicateDefinition, dst)
	}
	parentPath, _ := dst.Parent()
	leaf, _ := dst.Leaf()
	parent := t.ensure(parentPath)
	n.parent.detach(n)
	n.key = leaf
	parent.attach(n)
	return nil
}

// Traverse implements types.Tree.
func (t *Tree) Traverse(p types.Path) (types.Node, error) {
	n := t.find(p)
	if n == nil {
		return nil, fmt.Errorf("%s: %w", p, types.ErrNodeNotFound)
	}
	return &handle{n: n}, nil
}

func (n *node) ordered() []*node {
	out := make([]*node, 0, len(n.order))
	for _, k := range n.order {
		out = append(out, n.children[k])
	}
	return out
}

// handle is a live view of a node; it reflects later mutations.
type handle struct {
	n *node
}

func (h *handle) Path() types.Path { return h.n.path() }

func (h *handle) Value() (uuid.UUID, bool) { return h.n.value, h.n.hasValue }

func (h *handle) HasChildren() bool { return len(h.n.children) > 0 }

func (h *handle) Children() ([]types.Node, error) {
	kids := h.n.ordered()
	out := make([]types.Node, 0, len(kids))
	for _, c := range kids {
		out = append(out, &handle{n: c})
	}
	return out, nil
}

func (h *handle) Descendants() ([]types.Node, error) {
	var out []types.Node
	queue := h.n.ordered()
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, &handle{n: cur})
		queue = append(queue, cur.ordered()...)
	}
	return out, nil
}
