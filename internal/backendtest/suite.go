// Package backendtest holds the contract tests every Treesor backend must
// pass. Backend packages call Run from their own tests.
package backendtest

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgross/treesor/pkg/types"
)

// Factory returns a fresh, empty backend for one test.
type Factory func(t *testing.T) types.Backend

// Run executes the tree and column store contract against newBackend.
func Run(t *testing.T, newBackend Factory) {
	t.Run("Tree", func(t *testing.T) { runTree(t, newBackend) })
	t.Run("Columns", func(t *testing.T) { runColumns(t, newBackend) })
}

func p(text string) types.Path { return types.ParsePath(text) }

func childPaths(t *testing.T, nodes []types.Node) []string {
	t.Helper()
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Path().String())
	}
	return out
}

func runTree(t *testing.T, newBackend Factory) {
	tests := []struct {
		name  string
		check func(t *testing.T, tree types.Tree)
	}{
		{
			name: "add then get value",
			check: func(t *testing.T, tree types.Tree) {
				id := uuid.New()
				require.NoError(t, tree.Add(p("a"), id))
				got, ok, err := tree.TryGetValue(p("a"))
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, id, got)
			},
		},
		{
			name: "add creates value-less ancestors",
			check: func(t *testing.T, tree types.Tree) {
				require.NoError(t, tree.Add(p("a/b/c"), uuid.New()))
				_, ok, err := tree.TryGetValue(p("a/b"))
				require.NoError(t, err)
				assert.False(t, ok)

				n, err := tree.Traverse(p("a/b"))
				require.NoError(t, err)
				_, has := n.Value()
				assert.False(t, has)
				assert.True(t, n.HasChildren())
			},
		},
		{
			name: "add at valued path is a duplicate definition",
			check: func(t *testing.T, tree types.Tree) {
				first := uuid.New()
				require.NoError(t, tree.Add(p("a"), first))
				err := tree.Add(p("a"), uuid.New())
				assert.ErrorIs(t, err, types.ErrDuplicateDefinition)
				got, _, _ := tree.TryGetValue(p("a"))
				assert.Equal(t, first, got)
			},
		},
		{
			name: "add fills a value-less ancestor",
			check: func(t *testing.T, tree types.Tree) {
				require.NoError(t, tree.Add(p("a/b"), uuid.New()))
				id := uuid.New()
				require.NoError(t, tree.Add(p("a"), id))
				got, ok, err := tree.TryGetValue(p("a"))
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, id, got)
			},
		},
		{
			name: "missing path has no value",
			check: func(t *testing.T, tree types.Tree) {
				_, ok, err := tree.TryGetValue(p("nope/deeper"))
				require.NoError(t, err)
				assert.False(t, ok)
			},
		},
		{
			name: "child keys are case-insensitive",
			check: func(t *testing.T, tree types.Tree) {
				id := uuid.New()
				require.NoError(t, tree.Add(p("Alpha"), id))
				got, ok, err := tree.TryGetValue(p("alpha"))
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, id, got)
				assert.ErrorIs(t, tree.Add(p("ALPHA"), uuid.New()), types.ErrDuplicateDefinition)

				n, err := tree.Traverse(p("ALPHA"))
				require.NoError(t, err)
				assert.Equal(t, "Alpha", n.Path().String())
			},
		},
		{
			name: "traverse missing path is not found",
			check: func(t *testing.T, tree types.Tree) {
				_, err := tree.Traverse(p("missing"))
				assert.ErrorIs(t, err, types.ErrNotFound)
			},
		},
		{
			name: "root always exists",
			check: func(t *testing.T, tree types.Tree) {
				n, err := tree.Traverse(types.RootPath)
				require.NoError(t, err)
				assert.True(t, n.Path().IsRoot())
				assert.False(t, n.HasChildren())
			},
		},
		{
			name: "children and descendants are breadth-first in insertion order",
			check: func(t *testing.T, tree types.Tree) {
				for _, text := range []string{"b", "a", "b/y", "a/x", "b/y/z", "c"} {
					require.NoError(t, tree.Add(p(text), uuid.New()))
				}
				root, err := tree.Traverse(types.RootPath)
				require.NoError(t, err)

				kids, err := root.Children()
				require.NoError(t, err)
				assert.Equal(t, []string{"b", "a", "c"}, childPaths(t, kids))

				all, err := root.Descendants()
				require.NoError(t, err)
				assert.Equal(t, []string{"b", "a", "c", "b/y", "a/x", "b/y/z"}, childPaths(t, all))
			},
		},
		{
			name: "remove value keeps the node",
			check: func(t *testing.T, tree types.Tree) {
				require.NoError(t, tree.Add(p("a"), uuid.New()))
				require.NoError(t, tree.Add(p("a/b"), uuid.New()))
				require.NoError(t, tree.RemoveValue(p("a"), 0))

				_, ok, _ := tree.TryGetValue(p("a"))
				assert.False(t, ok)
				_, ok, _ = tree.TryGetValue(p("a/b"))
				assert.True(t, ok, "depth 0 leaves descendants alone")
				_, err := tree.Traverse(p("a"))
				assert.NoError(t, err)
			},
		},
		{
			name: "remove value with depth",
			check: func(t *testing.T, tree types.Tree) {
				for _, text := range []string{"a", "a/b", "a/b/c"} {
					require.NoError(t, tree.Add(p(text), uuid.New()))
				}
				require.NoError(t, tree.RemoveValue(p("a"), 1))
				_, ok, _ := tree.TryGetValue(p("a/b"))
				assert.False(t, ok)
				_, ok, _ = tree.TryGetValue(p("a/b/c"))
				assert.True(t, ok)

				require.NoError(t, tree.RemoveValue(p("a"), types.DepthUnlimited))
				_, ok, _ = tree.TryGetValue(p("a/b/c"))
				assert.False(t, ok)
			},
		},
		{
			name: "remove node recursive",
			check: func(t *testing.T, tree types.Tree) {
				require.NoError(t, tree.Add(p("a/b/c"), uuid.New()))
				require.NoError(t, tree.Add(p("d"), uuid.New()))
				require.NoError(t, tree.RemoveNode(p("a"), true))

				_, err := tree.Traverse(p("a"))
				assert.ErrorIs(t, err, types.ErrNotFound)
				_, err = tree.Traverse(p("a/b/c"))
				assert.ErrorIs(t, err, types.ErrNotFound)
				_, ok, _ := tree.TryGetValue(p("d"))
				assert.True(t, ok)
			},
		},
		{
			name: "remove node without recursion refuses children",
			check: func(t *testing.T, tree types.Tree) {
				require.NoError(t, tree.Add(p("a/b"), uuid.New()))
				assert.ErrorIs(t, tree.RemoveNode(p("a"), false), types.ErrHasChildren)
				_, err := tree.Traverse(p("a/b"))
				assert.NoError(t, err)

				require.NoError(t, tree.RemoveNode(p("a/b"), false))
				_, err = tree.Traverse(p("a/b"))
				assert.ErrorIs(t, err, types.ErrNotFound)
			},
		},
		{
			name: "remove root clears children and keeps root value",
			check: func(t *testing.T, tree types.Tree) {
				rootID := uuid.New()
				require.NoError(t, tree.Add(types.RootPath, rootID))
				require.NoError(t, tree.Add(p("a/b"), uuid.New()))
				require.NoError(t, tree.RemoveNode(types.RootPath, true))

				root, err := tree.Traverse(types.RootPath)
				require.NoError(t, err)
				assert.False(t, root.HasChildren())
				got, ok := root.Value()
				assert.True(t, ok)
				assert.Equal(t, rootID, got)

				require.NoError(t, tree.Add(p("a"), uuid.New()), "removed names are free again")
			},
		},
		{
			name: "reparent moves the subtree with its values",
			check: func(t *testing.T, tree types.Tree) {
				a, b := uuid.New(), uuid.New()
				require.NoError(t, tree.Add(p("a"), a))
				require.NoError(t, tree.Add(p("a/b"), b))
				require.NoError(t, tree.Reparent(p("a"), p("x/y")))

				_, err := tree.Traverse(p("a"))
				assert.ErrorIs(t, err, types.ErrNotFound)
				got, ok, _ := tree.TryGetValue(p("x/y"))
				assert.True(t, ok)
				assert.Equal(t, a, got)
				got, ok, _ = tree.TryGetValue(p("x/y/b"))
				assert.True(t, ok)
				assert.Equal(t, b, got)

				n, err := tree.Traverse(p("x/y/b"))
				require.NoError(t, err)
				assert.Equal(t, "x/y/b", n.Path().String())
			},
		},
		{
			name: "reparent within the same parent renames",
			check: func(t *testing.T, tree types.Tree) {
				for _, text := range []string{"a", "b", "c"} {
					require.NoError(t, tree.Add(p(text), uuid.New()))
				}
				require.NoError(t, tree.Reparent(p("a"), p("z")))
				root, err := tree.Traverse(types.RootPath)
				require.NoError(t, err)
				kids, err := root.Children()
				require.NoError(t, err)
				assert.Equal(t, []string{"b", "c", "z"}, childPaths(t, kids))
			},
		},
		{
			name: "reparent refuses occupied destination and own subtree",
			check: func(t *testing.T, tree types.Tree) {
				require.NoError(t, tree.Add(p("a"), uuid.New()))
				require.NoError(t, tree.Add(p("b"), uuid.New()))
				assert.ErrorIs(t, tree.Reparent(p("a"), p("b")), types.ErrDuplicateDefinition)
				assert.ErrorIs(t, tree.Reparent(p("a"), p("a/inner")), types.ErrInvalidMove)
				assert.ErrorIs(t, tree.Reparent(types.RootPath, p("r")), types.ErrInvalidMove)
				assert.ErrorIs(t, tree.Reparent(p("missing"), p("c")), types.ErrNotFound)
				_, ok, _ := tree.TryGetValue(p("a"))
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			t.Cleanup(func() { _ = b.Close() })
			tt.check(t, b.Tree())
		})
	}
}

func runColumns(t *testing.T, newBackend Factory) {
	tests := []struct {
		name  string
		check func(t *testing.T, cols types.ColumnStore)
	}{
		{
			name: "create and list columns in creation order",
			check: func(t *testing.T, cols types.ColumnStore) {
				require.NoError(t, cols.CreateColumn(types.Column{Name: "b", Kind: types.KindInt}))
				require.NoError(t, cols.CreateColumn(types.Column{Name: "a", Kind: types.KindString}))
				got, err := cols.Columns()
				require.NoError(t, err)
				assert.Equal(t, []types.Column{
					{Name: "b", Kind: types.KindInt},
					{Name: "a", Kind: types.KindString},
				}, got)

				col, ok, err := cols.Column("a")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, types.KindString, col.Kind)
			},
		},
		{
			name: "duplicate column name is refused",
			check: func(t *testing.T, cols types.ColumnStore) {
				require.NoError(t, cols.CreateColumn(types.Column{Name: "a", Kind: types.KindInt}))
				err := cols.CreateColumn(types.Column{Name: "a", Kind: types.KindString})
				assert.ErrorIs(t, err, types.ErrDuplicateDefinition)
			},
		},
		{
			name: "set get and clear values of every kind",
			check: func(t *testing.T, cols types.ColumnStore) {
				id := uuid.New()
				values := map[types.ValueKind]any{
					types.KindString:  "x",
					types.KindInt:     7,
					types.KindInt64:   int64(-9),
					types.KindFloat64: 0.5,
					types.KindBool:    false,
					types.KindUUID:    uuid.New(),
					types.KindBytes:   []byte("raw"),
				}
				for kind, v := range values {
					name := "col-" + string(kind)
					require.NoError(t, cols.CreateColumn(types.Column{Name: name, Kind: kind}))
					require.NoError(t, cols.SetValue(name, id, v))
					got, ok, err := cols.Value(name, id)
					require.NoError(t, err)
					assert.True(t, ok)
					assert.Equal(t, v, got, "kind %s", kind)
				}

				ts := time.Date(2020, 1, 2, 3, 4, 5, 6, time.UTC)
				require.NoError(t, cols.CreateColumn(types.Column{Name: "when", Kind: types.KindTime}))
				require.NoError(t, cols.SetValue("when", id, ts))
				got, ok, err := cols.Value("when", id)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.True(t, ts.Equal(got.(time.Time)))

				had, err := cols.ClearValue("col-int", id)
				require.NoError(t, err)
				assert.True(t, had)
				_, ok, err = cols.Value("col-int", id)
				require.NoError(t, err)
				assert.False(t, ok)
				_, ok, _ = cols.Value("col-string", id)
				assert.True(t, ok, "other columns keep their values")

				had, err = cols.ClearValue("col-int", id)
				require.NoError(t, err)
				assert.False(t, had)

				for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
					err := cols.SetValue("col-float64", id, f)
					assert.ErrorIs(t, err, types.ErrTypeMismatch, "%v", f)
				}
				got, ok, err = cols.Value("col-float64", id)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, 0.5, got, "rejected floats keep the prior value")

				assert.ErrorIs(t, cols.SetValue("col-int", id, "7"), types.ErrTypeMismatch)
			},
		},
		{
			name: "byte values are not shared with the caller",
			check: func(t *testing.T, cols types.ColumnStore) {
				id := uuid.New()
				require.NoError(t, cols.CreateColumn(types.Column{Name: "raw", Kind: types.KindBytes}))
				in := []byte("abc")
				require.NoError(t, cols.SetValue("raw", id, in))
				in[0] = 'X'

				got, _, err := cols.Value("raw", id)
				require.NoError(t, err)
				assert.Equal(t, []byte("abc"), got)

				got.([]byte)[1] = 'Y'
				again, _, err := cols.Value("raw", id)
				require.NoError(t, err)
				assert.Equal(t, []byte("abc"), again)
			},
		},
		{
			name: "overwrite a value",
			check: func(t *testing.T, cols types.ColumnStore) {
				id := uuid.New()
				require.NoError(t, cols.CreateColumn(types.Column{Name: "p", Kind: types.KindString}))
				require.NoError(t, cols.SetValue("p", id, "one"))
				require.NoError(t, cols.SetValue("p", id, "two"))
				got, _, err := cols.Value("p", id)
				require.NoError(t, err)
				assert.Equal(t, "two", got)
			},
		},
		{
			name: "unknown column is not found",
			check: func(t *testing.T, cols types.ColumnStore) {
				_, _, err := cols.Value("missing", uuid.New())
				assert.ErrorIs(t, err, types.ErrColumnNotFound)
				assert.ErrorIs(t, cols.SetValue("missing", uuid.New(), "x"), types.ErrNotFound)
				_, ok, err := cols.Column("missing")
				require.NoError(t, err)
				assert.False(t, ok)
			},
		},
		{
			name: "rename keeps values",
			check: func(t *testing.T, cols types.ColumnStore) {
				id := uuid.New()
				require.NoError(t, cols.CreateColumn(types.Column{Name: "old", Kind: types.KindInt}))
				require.NoError(t, cols.CreateColumn(types.Column{Name: "other", Kind: types.KindInt}))
				require.NoError(t, cols.SetValue("old", id, 3))

				assert.ErrorIs(t, cols.RenameColumn("old", "other"), types.ErrDuplicateDefinition)
				require.NoError(t, cols.RenameColumn("old", "new"))

				_, ok, _ := cols.Column("old")
				assert.False(t, ok)
				got, ok, err := cols.Value("new", id)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, 3, got)
			},
		},
		{
			name: "remove column drops its values",
			check: func(t *testing.T, cols types.ColumnStore) {
				id := uuid.New()
				require.NoError(t, cols.CreateColumn(types.Column{Name: "p", Kind: types.KindInt}))
				require.NoError(t, cols.SetValue("p", id, 1))

				removed, err := cols.RemoveColumn("p")
				require.NoError(t, err)
				assert.True(t, removed)
				removed, err = cols.RemoveColumn("p")
				require.NoError(t, err)
				assert.False(t, removed)

				require.NoError(t, cols.CreateColumn(types.Column{Name: "p", Kind: types.KindInt}))
				_, ok, err := cols.Value("p", id)
				require.NoError(t, err)
				assert.False(t, ok, "a recreated column starts empty")
			},
		},
		{
			name: "clear node drops all values of one node",
			check: func(t *testing.T, cols types.ColumnStore) {
				a, b := uuid.New(), uuid.New()
				require.NoError(t, cols.CreateColumn(types.Column{Name: "p", Kind: types.KindInt}))
				require.NoError(t, cols.SetValue("p", a, 1))
				require.NoError(t, cols.SetValue("p", b, 2))
				require.NoError(t, cols.ClearNode(a))

				_, ok, _ := cols.Value("p", a)
				assert.False(t, ok)
				got, ok, _ := cols.Value("p", b)
				assert.True(t, ok)
				assert.Equal(t, 2, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			t.Cleanup(func() { _ = b.Close() })
			tt.check(t, b.Columns())
		})
	}
}
