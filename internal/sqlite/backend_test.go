package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wgross/treesor/internal/backendtest"
	"github.com/wgross/treesor/pkg/types"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := NewBackend(t.TempDir())
	require.NoError(t, err)
	return b
}

func TestBackendContract(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) types.Backend {
		return newTestBackend(t)
	})
}

func TestBackendInMemoryDSN(t *testing.T) {
	b, err := Open(":memory:")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Tree().Add(types.ParsePath("a"), uuid.New()))
	_, ok, err := b.Tree().TryGetValue(types.ParsePath("a"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBackendCloseIsIdempotent(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
}

func TestBackendPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	id := uuid.New()

	b, err := NewBackend(dir)
	require.NoError(t, err)
	require.NoError(t, b.Tree().Add(types.ParsePath("a/b"), id))
	require.NoError(t, b.Columns().CreateColumn(types.Column{Name: "p", Kind: types.KindString}))
	require.NoError(t, b.Columns().SetValue("p", id, "kept"))
	require.NoError(t, b.Close())

	b, err = NewBackend(dir)
	require.NoError(t, err)
	defer b.Close()

	got, ok, err := b.Tree().TryGetValue(types.ParsePath("a/b"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	v, ok, err := b.Columns().Value("p", id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kept", v)

	assert.FileExists(t, filepath.Join(dir, DatabaseFile))
}

func TestBackendUsesInjectedLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	b, err := NewBackend(t.TempDir(), WithLogger(logger))
	require.NoError(t, err)
	_, err = b.Tree().Traverse(types.RootPath)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{"document store opened", "root node created", "document store closed"}, messages)
}

func TestRootRecordCreatedLazily(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	var count int
	require.NoError(t, b.db.QueryRow("SELECT count(*) FROM nodes").Scan(&count))
	assert.Equal(t, 0, count)

	_, err := b.Tree().Traverse(types.RootPath)
	require.NoError(t, err)
	require.NoError(t, b.db.QueryRow("SELECT count(*) FROM nodes").Scan(&count))
	assert.Equal(t, 1, count, "root is the only record until items are added")

	_, err = b.Tree().Traverse(types.RootPath)
	require.NoError(t, err)
	require.NoError(t, b.db.QueryRow("SELECT count(*) FROM nodes").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNodeDocumentLayout(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	id := uuid.New()
	require.NoError(t, b.Tree().Add(types.ParsePath("Child"), id))

	var rootKeyType, childRef string
	require.NoError(t, b.db.QueryRow(
		`SELECT coalesce(json_type(doc, '$.key'), 'absent'), json_extract(doc, '$.children.child')
		 FROM nodes WHERE id = ?`, b.tree.rootID).Scan(&rootKeyType, &childRef))
	assert.Equal(t, "absent", rootKeyType)

	var key, value string
	require.NoError(t, b.db.QueryRow(
		"SELECT json_extract(doc, '$.key'), json_extract(doc, '$.value') FROM nodes WHERE id = ?",
		childRef).Scan(&key, &value))
	assert.Equal(t, "Child", key)
	assert.Equal(t, id.String(), value)
}

func TestValueDocumentSurvivesClear(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	id := uuid.New()
	cols := b.Columns()
	require.NoError(t, cols.CreateColumn(types.Column{Name: "p", Kind: types.KindInt}))
	require.NoError(t, cols.SetValue("p", id, 7))

	var doc string
	require.NoError(t, b.db.QueryRow("SELECT doc FROM node_values WHERE id = ?", id.String()).Scan(&doc))
	assert.JSONEq(t, `{"1": 7}`, doc)

	had, err := cols.ClearValue("p", id)
	require.NoError(t, err)
	assert.True(t, had)

	require.NoError(t, b.db.QueryRow("SELECT doc FROM node_values WHERE id = ?", id.String()).Scan(&doc))
	assert.JSONEq(t, `{}`, doc)
}

func TestColumnNameIsUnique(t *testing.T) {
	b := newTestBackend(t)
	defer b.Close()

	require.NoError(t, b.Columns().CreateColumn(types.Column{Name: "p", Kind: types.KindInt}))
	_, err := b.db.Exec("INSERT INTO columns (name, type_name) VALUES ('p', 'string')")
	assert.Error(t, err)
}
