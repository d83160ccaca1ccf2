package sqlite

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildRefsKeepInsertionOrder(t *testing.T) {
	var c childRefs
	c.put("Zeta", "1")
	c.put("alpha", "2")
	c.put("Mid", "3")

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"2","mid":"3"}`, string(data))

	var back childRefs
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"1", "2", "3"}, back.ordered())

	id, ok := back.get("ZETA")
	assert.True(t, ok)
	assert.Equal(t, "1", id)
}

func TestChildRefsRemove(t *testing.T) {
	var c childRefs
	c.put("a", "1")
	c.put("b", "2")
	c.remove("A")
	c.remove("missing")
	assert.Equal(t, []string{"2"}, c.ordered())
	assert.Equal(t, 1, c.len())
}

func TestNodeDocRoundTrip(t *testing.T) {
	key := "k"
	rec := nodeDoc{Key: &key}
	rec.Children.put("c", "id-c")

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var back nodeDoc
	require.NoError(t, json.Unmarshal(data, &back))
	require.NotNil(t, back.Key)
	assert.Equal(t, "k", *back.Key)
	assert.Nil(t, back.Value)
	assert.Equal(t, []string{"id-c"}, back.Children.ordered())
}

func TestEmptyChildrenMarshalAsObject(t *testing.T) {
	data, err := json.Marshal(nodeDoc{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"children":{}}`, string(data))
}
