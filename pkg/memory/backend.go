// Package memory provides the public constructor for the in-process
// Treesor backend.
package memory

import (
	"github.com/wgross/treesor/internal/memory"
	"github.com/wgross/treesor/pkg/types"
)

// NewBackend returns an empty, non-durable backend.
func NewBackend() types.Backend {
	return memory.NewBackend()
}
