package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/wgross/treesor/pkg/types"
)

// Tree implements types.Tree over the nodes collection. Each node record
// holds its children's record ids, so a path resolves by one primary key
// lookup per segment.
type Tree struct {
	db     *sql.DB
	log    log.FieldLogger
	rootID string
}

func newRecordID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func loadNode(q querier, id string) (*nodeRec, error) {
	var doc string
	err := q.QueryRow("SELECT doc FROM nodes WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("node record %s: %w", id, types.ErrNodeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading node %s: %w", id, err)
	}
	rec := &nodeRec{id: id}
	if err := json.Unmarshal([]byte(doc), &rec.nodeDoc); err != nil {
		return nil, fmt.Errorf("parsing node %s: %w", id, err)
	}
	return rec, nil
}

func saveNode(q querier, rec *nodeRec) error {
	doc, err := json.Marshal(rec.nodeDoc)
	if err != nil {
		return fmt.Errorf("encoding node %s: %w", rec.id, err)
	}
	_, err = q.Exec(`INSERT INTO nodes (id, doc) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`, rec.id, string(doc))
	if err != nil {
		return fmt.Errorf("saving node %s: %w", rec.id, err)
	}
	return nil
}

// root returns the root record, creating it on first access.
func (t *Tree) root(q querier) (*nodeRec, error) {
	if t.rootID == "" {
		var id string
		err := q.QueryRow("SELECT id FROM nodes WHERE json_type(doc, '$.key') IS NULL LIMIT 1").Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			rec := &nodeRec{id: newRecordID()}
			if err := saveNode(q, rec); err != nil {
				return nil, err
			}
			t.log.WithField("id", rec.id).Debug("root node created")
			t.rootID = rec.id
			return rec, nil
		case err != nil:
			return nil, fmt.Errorf("finding root: %w", err)
		}
		t.rootID = id
	}
	return loadNode(q, t.rootID)
}

// update runs fn in a transaction. The root record is created beforehand so
// a rolled-back transaction can never discard it.
func (t *Tree) update(fn func(tx *sql.Tx) error) error {
	if _, err := t.root(t.db); err != nil {
		return err
	}
	return withTx(t.db, fn)
}

// resolve walks path from the root. It returns the chain of records from
// the root to the node, or a nil node when some segment is missing.
func (t *Tree) resolve(q querier, p types.Path) (node *nodeRec, chain []*nodeRec, err error) {
	cur, err := t.root(q)
	if err != nil {
		return nil, nil, err
	}
	chain = []*nodeRec{cur}
	for _, seg := range p.Segments() {
		id, ok := cur.Children.get(seg)
		if !ok {
			return nil, chain, nil
		}
		if cur, err = loadNode(q, id); err != nil {
			return nil, nil, err
		}
		chain = append(chain, cur)
	}
	return cur, chain, nil
}

// ensure resolves p, creating missing nodes as value-less records.
func (t *Tree) ensure(q querier, p types.Path) (*nodeRec, error) {
	cur, err := t.root(q)
	if err != nil {
		return nil, err
	}
	for _, seg := range p.Segments() {
		if id, ok := cur.Children.get(seg); ok {
			if cur, err = loadNode(q, id); err != nil {
				return nil, err
			}
			continue
		}
		key := seg
		child := &nodeRec{id: newRecordID(), nodeDoc: nodeDoc{Key: &key}}
		if err := saveNode(q, child); err != nil {
			return nil, err
		}
		cur.Children.put(seg, child.id)
		if err := saveNode(q, cur); err != nil {
			return nil, err
		}
		cur = child
	}
	return cur, nil
}

// Add implements types.Tree.
func (t *Tree) Add(p types.Path, value uuid.UUID) error {
	return t.update(func(tx *sql.Tx) error {
		n, _, err := t.resolve(tx, p)
		if err != nil {
			return err
		}
		if n != nil && n.Value != nil {
			return fmt.Errorf("%w: %s already holds a value", types.ErrDuplicateDefinition, p)
		}
		if n, err = t.ensure(tx, p); err != nil {
			return err
		}
		n.Value = &value
		return saveNode(tx, n)
	})
}

// TryGetValue implements types.Tree.
func (t *Tree) TryGetValue(p types.Path) (uuid.UUID, bool, error) {
	n, _, err := t.resolve(t.db, p)
	if err != nil {
		return uuid.Nil, false, err
	}
	if n == nil || n.Value == nil {
		return uuid.Nil, false, nil
	}
	return *n.Value, true, nil
}

// RemoveValue implements types.Tree.
func (t *Tree) RemoveValue(p types.Path, depth int) error {
	return t.update(func(tx *sql.Tx) error {
		n, _, err := t.resolve(tx, p)
		if err != nil || n == nil {
			return err
		}
		level := []*nodeRec{n}
		for d := 0; len(level) > 0; d++ {
			var next []*nodeRec
			for _, cur := range level {
				if cur.Value != nil {
					cur.Value = nil
					if err := saveNode(tx, cur); err != nil {
						return err
					}
				}
				if depth != types.DepthUnlimited && d >= depth {
					continue
				}
				kids, err := loadChildren(tx, cur)
				if err != nil {
					return err
				}
				next = append(next, kids...)
			}
			level = next
		}
		return nil
	})
}

// RemoveNode implements types.Tree.
func (t *Tree) RemoveNode(p types.Path, recursive bool) error {
	return t.update(func(tx *sql.Tx) error {
		n, chain, err := t.resolve(tx, p)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("%s: %w", p, types.ErrNodeNotFound)
		}
		if n.Children.len() > 0 && !recursive {
			return fmt.Errorf("%s: %w", p, types.ErrHasChildren)
		}
		subtree, err := collectSubtree(tx, n)
		if err != nil {
			return err
		}
		for _, id := range subtree {
			if _, err := tx.Exec("DELETE FROM nodes WHERE id = ?", id); err != nil {
				return fmt.Errorf("deleting node %s: %w", id, err)
			}
		}
		if p.IsRoot() {
			n.Children = childRefs{}
			return saveNode(tx, n)
		}
		parent := chain[len(chain)-2]
		parent.Children.remove(n.key())
		if _, err := tx.Exec("DELETE FROM nodes WHERE id = ?", n.id); err != nil {
			return fmt.Errorf("deleting node %s: %w", n.id, err)
		}
		return saveNode(tx, parent)
	})
}

// Reparent implements types.Tree. The move happens in one transaction, so
// the value is never observably absent.
func (t *Tree) Reparent(src, dst types.Path) error {
	if src.IsRoot() || dst.HasPrefix(src) {
		return fmt.Errorf("%w: %s to %s", types.ErrInvalidMove, src, dst)
	}
	return t.update(func(tx *sql.Tx) error {
		n, chain, err := t.resolve(tx, src)
		if err != nil {
			return err
		}
		if n == nil {
			return fmt.Errorf("%s: %w", src, types.ErrNodeNotFound)
		}
		existing, _, err := t.resolve(tx, dst)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: %s already exists", types.ErrDuplicateDefinition, dst)
		}

		oldParent := chain[len(chain)-2]
		oldParent.Children.remove(n.key())
		if err := saveNode(tx, oldParent); err != nil {
			return err
		}

		parentPath, _ := dst.Parent()
		leaf, _ := dst.Leaf()
		newParent, err := t.ensure(tx, parentPath)
		if err != nil {
			return err
		}
		n.Key = &leaf
		if err := saveNode(tx, n); err != nil {
			return err
		}
		newParent.Children.put(leaf, n.id)
		return saveNode(tx, newParent)
	})
}

// Traverse implements types.Tree.
func (t *Tree) Traverse(p types.Path) (types.Node, error) {
	n, chain, err := t.resolve(t.db, p)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("%s: %w", p, types.ErrNodeNotFound)
	}
	segs := make([]string, 0, len(chain)-1)
	for _, rec := range chain[1:] {
		segs = append(segs, rec.key())
	}
	return &handle{db: t.db, rec: n, path: types.NewPath(segs...)}, nil
}

func loadChildren(q querier, n *nodeRec) ([]*nodeRec, error) {
	ids := n.Children.ordered()
	out := make([]*nodeRec, 0, len(ids))
	for _, id := range ids {
		c, err := loadNode(q, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// collectSubtree returns the record ids of all descendants of n.
func collectSubtree(q querier, n *nodeRec) ([]string, error) {
	var ids []string
	queue := []*nodeRec{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		kids, err := loadChildren(q, cur)
		if err != nil {
			return nil, err
		}
		for _, k := range kids {
			ids = append(ids, k.id)
		}
		queue = append(queue, kids...)
	}
	return ids, nil
}

// handle is a snapshot of a node taken at Traverse time. Children and
// Descendants read the store again when called.
type handle struct {
	db   *sql.DB
	rec  *nodeRec
	path types.Path
}

func (h *handle) Path() types.Path { return h.path }

func (h *handle) Value() (uuid.UUID, bool) {
	if h.rec.Value == nil {
		return uuid.Nil, false
	}
	return *h.rec.Value, true
}

func (h *handle) HasChildren() bool { return h.rec.Children.len() > 0 }

func (h *handle) Children() ([]types.Node, error) {
	kids, err := loadChildren(h.db, h.rec)
	if err != nil {
		return nil, err
	}
	out := make([]types.Node, 0, len(kids))
	for _, k := range kids {
		out = append(out, &handle{db: h.db, rec: k, path: h.path.Join(k.key())})
	}
	return out, nil
}

func (h *handle) Descendants() ([]types.Node, error) {
	var out []types.Node
	queue := []*handle{h}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		kids, err := cur.Children()
		if err != nil {
			return nil, err
		}
		for _, k := range kids {
			out = append(out, k)
			queue = append(queue, k.(*handle))
		}
	}
	return out, nil
}
