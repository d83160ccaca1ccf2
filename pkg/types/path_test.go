package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Path
	}{
		{"empty string is root", "", RootPath},
		{"slash is root", "/", RootPath},
		{"backslash is root", `\`, RootPath},
		{"single segment", "a", NewPath("a")},
		{"forward slashes", "a/b/c", NewPath("a", "b", "c")},
		{"backslashes", `a\b\c`, NewPath("a", "b", "c")},
		{"mixed separators", `a\b/c`, NewPath("a", "b", "c")},
		{"leading separator", "/a/b", NewPath("a", "b")},
		{"doubled separators", "a//b", NewPath("a", "b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePath(tt.text)
			assert.True(t, tt.want.Equal(got), "ParsePath(%q) = %v, want %v", tt.text, got, tt.want)
		})
	}
}

func TestParsePathRoundTrip(t *testing.T) {
	for _, text := range []string{"", "a", "a/b", `x\y\z`, `one/two\three`} {
		p := ParsePath(text)
		assert.True(t, p.Equal(ParsePath(p.String())), "round trip of %q", text)
	}
}

func TestNewPath(t *testing.T) {
	assert.True(t, NewPath().IsRoot())
	assert.True(t, NewPath("").IsRoot())
	assert.False(t, NewPath("a").IsRoot())
	assert.Equal(t, []string{"a", "b"}, NewPath("a", "b").Segments())
}

func TestPathSegmentsNeverHoldSeparators(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want []string
	}{
		{"NewPath splits a slash", NewPath("x/y"), []string{"x", "y"}},
		{"NewPath splits a backslash", NewPath("a", `x\y`), []string{"a", "x", "y"}},
		{"NewPath drops empty segments", NewPath("a", "", "b"), []string{"a", "b"}},
		{"Join splits", NewPath("a").Join("x/y"), []string{"a", "x", "y"}},
		{"Join of a bare separator", NewPath("a").Join("/"), []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.Segments())
			assert.True(t, ParsePath(tt.path.String()).Equal(tt.path), "%s round-trips", tt.path)
		})
	}
}

func TestCheckName(t *testing.T) {
	assert.NoError(t, CheckName("leaf"))
	assert.ErrorIs(t, CheckName(""), ErrArgumentMissing)
	assert.ErrorIs(t, CheckName("x/y"), ErrInvalidName)
	assert.ErrorIs(t, CheckName(`x\y`), ErrInvalidName)
}

func TestPathEqual(t *testing.T) {
	assert.True(t, NewPath("a", "b").Equal(ParsePath(`a\b`)))
	assert.False(t, NewPath("a", "b").Equal(NewPath("a")))
	assert.False(t, NewPath("a", "b").Equal(NewPath("b", "a")))
	assert.False(t, NewPath("a").Equal(NewPath("A")), "equality is case-sensitive")
	assert.Equal(t, NewPath("a", "b").Key(), ParsePath("a/b").Key())
	assert.NotEqual(t, NewPath("a", "b").Key(), NewPath("ab").Key())
}

func TestPathParentAndLeaf(t *testing.T) {
	_, ok := RootPath.Parent()
	assert.False(t, ok)
	_, ok = RootPath.Leaf()
	assert.False(t, ok)

	p := NewPath("a", "b", "c")
	parent, ok := p.Parent()
	require.True(t, ok)
	assert.True(t, NewPath("a", "b").Equal(parent))
	leaf, ok := p.Leaf()
	require.True(t, ok)
	assert.Equal(t, "c", leaf)

	parent, ok = NewPath("a").Parent()
	require.True(t, ok)
	assert.True(t, parent.IsRoot())
}

func TestPathJoinDoesNotAlias(t *testing.T) {
	base := NewPath("a", "b", "c")
	parent, _ := base.Parent()
	x := parent.Join("x")
	y := parent.Join("y")
	assert.Equal(t, "a/b/x", x.String())
	assert.Equal(t, "a/b/y", y.String())
	assert.Equal(t, "a/b/c", base.String())
}

func TestPathRelativeTo(t *testing.T) {
	rel, ok := NewPath("a", "b", "c").RelativeTo(NewPath("a"))
	require.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, rel.Segments())

	rel, ok = NewPath("a", "b").RelativeTo(NewPath("a", "b"))
	require.True(t, ok)
	assert.True(t, rel.IsRoot())

	rel, ok = NewPath("a", "b").RelativeTo(RootPath)
	require.True(t, ok)
	assert.True(t, NewPath("a", "b").Equal(rel))

	_, ok = NewPath("a", "b").RelativeTo(NewPath("x"))
	assert.False(t, ok)
}

func TestPathHasPrefix(t *testing.T) {
	assert.True(t, NewPath("a", "b").HasPrefix(NewPath("A")))
	assert.True(t, NewPath("a").HasPrefix(RootPath))
	assert.False(t, NewPath("a").HasPrefix(NewPath("a", "b")))
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "/", RootPath.String())
	assert.Equal(t, "a/b", ParsePath(`a\b`).String())
}
