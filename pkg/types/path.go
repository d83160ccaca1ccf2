package types

import (
	"fmt"
	"strings"
)

// Path separators accepted by ParsePath. String always emits PathSeparator.
const (
	PathSeparator    = '/'
	AltPathSeparator = '\\'
)

// Path is an ordered sequence of segment names addressing a node from the
// root. The zero value is the root path. Paths are immutable: every method
// returns a new Path.
type Path struct {
	segments []string
}

// RootPath addresses the root node.
var RootPath = Path{}

// ParsePath splits text on either separator. Mixed separators are tolerated
// and empty segments are dropped, so "", "/" and "\\" all parse to RootPath.
func ParsePath(text string) Path {
	return NewPath(text)
}

// NewPath builds a path from segments. Segments that contain a separator are
// split as ParsePath would split them and empty segments are dropped, so a
// path always round-trips through its String form.
func NewPath(segments ...string) Path {
	segs := split(segments)
	if len(segs) == 0 {
		return RootPath
	}
	return Path{segments: segs}
}

func isSeparator(r rune) bool {
	return r == PathSeparator || r == AltPathSeparator
}

func split(parts []string) []string {
	var segs []string
	for _, part := range parts {
		segs = append(segs, strings.FieldsFunc(part, isSeparator)...)
	}
	return segs
}

// CheckName validates a single segment name: it must be non-empty and must
// not contain a separator.
func CheckName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name", ErrArgumentMissing)
	}
	if strings.ContainsFunc(name, isSeparator) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// Join returns p extended by more. Segments of more are split like NewPath
// splits them.
func (p Path) Join(more ...string) Path {
	extra := split(more)
	if len(extra) == 0 {
		return p
	}
	segs := make([]string, 0, len(p.segments)+len(extra))
	segs = append(segs, p.segments...)
	segs = append(segs, extra...)
	return Path{segments: segs}
}

// JoinPath appends all segments of other to p.
func (p Path) JoinPath(other Path) Path {
	return p.Join(other.segments...)
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// Segments returns a copy of the segment sequence.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Parent drops the last segment. ok is false for the root path.
func (p Path) Parent() (parent Path, ok bool) {
	if p.IsRoot() {
		return RootPath, false
	}
	if len(p.segments) == 1 {
		return RootPath, true
	}
	return Path{segments: p.segments[:len(p.segments)-1 : len(p.segments)-1]}, true
}

// Leaf returns the last segment. ok is false for the root path.
func (p Path) Leaf() (leaf string, ok bool) {
	if p.IsRoot() {
		return "", false
	}
	return p.segments[len(p.segments)-1], true
}

// HasPrefix reports whether ancestor is p itself or one of its ancestors.
// Segments compare case-insensitively, like child keys in the tree.
func (p Path) HasPrefix(ancestor Path) bool {
	if len(ancestor.segments) > len(p.segments) {
		return false
	}
	for i, s := range ancestor.segments {
		if !strings.EqualFold(s, p.segments[i]) {
			return false
		}
	}
	return true
}

// RelativeTo returns the segments of p beyond ancestor. ok is false when
// ancestor is not a prefix of p.
func (p Path) RelativeTo(ancestor Path) (rel Path, ok bool) {
	if !p.HasPrefix(ancestor) {
		return RootPath, false
	}
	return NewPath(p.segments[len(ancestor.segments):]...), true
}

// Equal compares the segment sequences case-sensitively.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// Key returns a comparable form of p usable as a map key. Two paths have the
// same key exactly when they are Equal.
func (p Path) Key() string {
	return strings.Join(p.segments, "\x00")
}

// String joins the segments with PathSeparator. The root renders as "/".
func (p Path) String() string {
	if p.IsRoot() {
		return string(PathSeparator)
	}
	return strings.Join(p.segments, string(PathSeparator))
}
