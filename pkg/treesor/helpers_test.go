package treesor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wgross/treesor/pkg/memory"
	"github.com/wgross/treesor/pkg/sqlite"
	"github.com/wgross/treesor/pkg/types"
)

// backends lists the factories every model test runs against.
var backends = []struct {
	name string
	open func(t *testing.T) types.Backend
}{
	{"memory", func(t *testing.T) types.Backend { return memory.NewBackend() }},
	{"sqlite", func(t *testing.T) types.Backend {
		b, err := sqlite.NewBackend(t.TempDir())
		require.NoError(t, err)
		return b
	}},
}

// forEachBackend runs fn once per backend with a fresh model.
func forEachBackend(t *testing.T, fn func(t *testing.T, m *Model)) {
	for _, be := range backends {
		t.Run(be.name, func(t *testing.T) {
			m, err := New(be.open(t))
			require.NoError(t, err)
			t.Cleanup(func() { _ = m.Close() })
			fn(t, m)
		})
	}
}

func p(text string) types.Path { return types.ParsePath(text) }

func mustNewItem(t *testing.T, m *Model, text string) types.Item {
	t.Helper()
	item, err := m.NewItem(p(text), nil)
	require.NoError(t, err)
	return item
}

func mustGetItem(t *testing.T, m *Model, text string) *types.Item {
	t.Helper()
	item, err := m.GetItem(p(text))
	require.NoError(t, err)
	require.NotNil(t, item, "item %s", text)
	return item
}

func itemPaths(items []types.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Path.String())
	}
	return out
}
