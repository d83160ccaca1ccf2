package treesor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgross/treesor/pkg/types"
)

func TestCreateColumn(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		col, err := m.CreateColumn("p", types.KindString)
		require.NoError(t, err)
		assert.Equal(t, types.Column{Name: "p", Kind: types.KindString}, col)

		again, err := m.CreateColumn("p", types.KindString)
		require.NoError(t, err)
		assert.Equal(t, col, again)

		_, err = m.CreateColumn("p", types.KindInt)
		assert.ErrorIs(t, err, types.ErrDuplicateDefinition)

		_, err = m.CreateColumn("", types.KindInt)
		assert.ErrorIs(t, err, types.ErrArgumentMissing)
		_, err = m.CreateColumn("q", "")
		assert.ErrorIs(t, err, types.ErrArgumentMissing)
		_, err = m.CreateColumn("q", "decimal")
		assert.ErrorIs(t, err, types.ErrUnknownValueKind)

		cols, err := m.GetColumns()
		require.NoError(t, err)
		assert.Equal(t, []types.Column{col}, cols)
	})
}

func TestRemoveColumn(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		_, err := m.CreateColumn("p", types.KindString)
		require.NoError(t, err)

		removed, err := m.RemoveColumn("p")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = m.RemoveColumn("p")
		require.NoError(t, err)
		assert.False(t, removed)

		_, err = m.RemoveColumn("")
		assert.ErrorIs(t, err, types.ErrArgumentMissing)
	})
}

func TestRenameColumn(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		_, err := m.CreateColumn("p", types.KindString)
		require.NoError(t, err)
		_, err = m.CreateColumn("q", types.KindString)
		require.NoError(t, err)
		require.NoError(t, m.SetPropertyValue(types.RootPath, "p", "x"))

		assert.ErrorIs(t, m.RenameColumn("p", "q"), types.ErrDuplicateDefinition)
		require.NoError(t, m.RenameColumn("missing", "z"), "missing column is a no-op")

		require.NoError(t, m.RenameColumn("p", "r"))
		v, ok, err := m.GetPropertyValue(types.RootPath, "r")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "x", v)

		_, _, err = m.GetPropertyValue(types.RootPath, "p")
		assert.ErrorIs(t, err, types.ErrColumnNotFound)
	})
}

func TestSetGetPropertyOnRoot(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		_, err := m.CreateColumn("p", types.KindString)
		require.NoError(t, err)
		require.NoError(t, m.SetPropertyValue(types.RootPath, "p", "x"))

		v, ok, err := m.GetPropertyValue(types.RootPath, "p")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "x", v)
	})
}

func TestSetPropertyValueValidationOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		assert.ErrorIs(t, m.SetPropertyValue(p("a"), "", 1), types.ErrArgumentMissing)

		err := m.SetPropertyValue(p("missing"), "missing", 1)
		assert.ErrorIs(t, err, types.ErrNodeNotFound, "node is checked before column")

		mustNewItem(t, m, "a")
		err = m.SetPropertyValue(p("a"), "missing", 1)
		assert.ErrorIs(t, err, types.ErrColumnNotFound)

		_, err = m.CreateColumn("n", types.KindInt)
		require.NoError(t, err)
		require.NoError(t, m.SetPropertyValue(p("a"), "n", 1))

		err = m.SetPropertyValue(p("a"), "n", "2")
		require.ErrorIs(t, err, types.ErrTypeMismatch)
		assert.Contains(t, err.Error(), `"n"`)
		assert.Contains(t, err.Error(), "string")
		assert.Contains(t, err.Error(), mustGetItem(t, m, "a").ID.String())

		assert.ErrorIs(t, m.SetPropertyValue(p("a"), "n", int64(2)), types.ErrTypeMismatch)
		assert.ErrorIs(t, m.SetPropertyValue(p("a"), "n", nil), types.ErrTypeMismatch)

		v, ok, err := m.GetPropertyValue(p("a"), "n")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, v, "rejected sets keep the prior value")
	})
}

func TestSetPropertyValueRejectsNonFiniteFloats(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		_, err := m.CreateColumn("f", types.KindFloat64)
		require.NoError(t, err)
		for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			assert.ErrorIs(t, m.SetPropertyValue(types.RootPath, "f", f), types.ErrTypeMismatch, "%v", f)
		}
		_, ok, err := m.GetPropertyValue(types.RootPath, "f")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGetPropertyValueChecksColumnFirst(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		_, _, err := m.GetPropertyValue(p("missing"), "missing")
		assert.ErrorIs(t, err, types.ErrColumnNotFound)

		_, err = m.CreateColumn("p", types.KindString)
		require.NoError(t, err)
		_, _, err = m.GetPropertyValue(p("missing"), "p")
		assert.ErrorIs(t, err, types.ErrNodeNotFound)

		mustNewItem(t, m, "a")
		_, ok, err := m.GetPropertyValue(p("a"), "p")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestClearPropertyValue(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		assert.ErrorIs(t, m.ClearPropertyValue(p("missing"), "missing"), types.ErrColumnNotFound)

		_, err := m.CreateColumn("p", types.KindString)
		require.NoError(t, err)
		_, err = m.CreateColumn("q", types.KindString)
		require.NoError(t, err)
		assert.ErrorIs(t, m.ClearPropertyValue(p("missing"), "p"), types.ErrNodeNotFound)

		mustNewItem(t, m, "a")
		require.NoError(t, m.SetPropertyValue(p("a"), "p", "x"))
		require.NoError(t, m.SetPropertyValue(p("a"), "q", "y"))
		require.NoError(t, m.ClearPropertyValue(p("a"), "p"))

		_, ok, err := m.GetPropertyValue(p("a"), "p")
		require.NoError(t, err)
		assert.False(t, ok)
		v, ok, err := m.GetPropertyValue(p("a"), "q")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "y", v)
		assertExists(t, m, "a", true)

		require.NoError(t, m.ClearPropertyValue(p("a"), "p"), "clearing twice is fine")
	})
}

func TestCopyPropertyValue(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		_, err := m.CreateColumn("p", types.KindInt)
		require.NoError(t, err)
		_, err = m.CreateColumn("s", types.KindString)
		require.NoError(t, err)
		mustNewItem(t, m, "a")
		require.NoError(t, m.SetPropertyValue(types.RootPath, "p", 3))

		require.NoError(t, m.CopyPropertyValue(types.RootPath, "p", p("a"), "p"))
		for _, target := range []types.Path{types.RootPath, p("a")} {
			v, ok, err := m.GetPropertyValue(target, "p")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 3, v)
		}

		err = m.CopyPropertyValue(types.RootPath, "p", p("a"), "s")
		assert.ErrorIs(t, err, types.ErrTypeMismatch)
		_, ok, err := m.GetPropertyValue(p("a"), "s")
		require.NoError(t, err)
		assert.False(t, ok)

		err = m.CopyPropertyValue(types.RootPath, "p", p("missing"), "p")
		assert.ErrorIs(t, err, types.ErrNodeNotFound)
		err = m.CopyPropertyValue(p("a"), "s", p("missing"), "s")
		assert.ErrorIs(t, err, types.ErrNodeNotFound, "unset source still validates the destination")
	})
}

func TestMovePropertyValue(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		_, err := m.CreateColumn("p", types.KindInt)
		require.NoError(t, err)
		_, err = m.CreateColumn("q", types.KindInt)
		require.NoError(t, err)
		mustNewItem(t, m, "child")
		require.NoError(t, m.SetPropertyValue(types.RootPath, "p", 7))

		require.NoError(t, m.MovePropertyValue(types.RootPath, "p", p("child"), "q"))

		_, ok, err := m.GetPropertyValue(types.RootPath, "p")
		require.NoError(t, err)
		assert.False(t, ok)
		v, ok, err := m.GetPropertyValue(p("child"), "q")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 7, v)
	})
}

func TestMovePropertyValueFailureKeepsSource(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		_, err := m.CreateColumn("p", types.KindInt)
		require.NoError(t, err)
		_, err = m.CreateColumn("s", types.KindString)
		require.NoError(t, err)
		require.NoError(t, m.SetPropertyValue(types.RootPath, "p", 7))

		assert.ErrorIs(t, m.MovePropertyValue(types.RootPath, "p", p("missing"), "p"), types.ErrNodeNotFound)
		assert.ErrorIs(t, m.MovePropertyValue(types.RootPath, "p", types.RootPath, "s"), types.ErrTypeMismatch)
		assert.ErrorIs(t, m.MovePropertyValue(types.RootPath, "p", types.RootPath, "none"), types.ErrColumnNotFound)

		v, ok, err := m.GetPropertyValue(types.RootPath, "p")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 7, v)
	})
}

func TestPropertiesAreIndependentOfNodes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Model) {
		_, err := m.CreateColumn("p", types.KindString)
		require.NoError(t, err)
		mustNewItem(t, m, "a")
		require.NoError(t, m.SetPropertyValue(p("a"), "p", "x"))

		removed, err := m.RemoveColumn("p")
		require.NoError(t, err)
		assert.True(t, removed)
		assertExists(t, m, "a", true)
	})
}
