package memory

import (
	"testing"

	"github.com/wgross/treesor/internal/backendtest"
	"github.com/wgross/treesor/pkg/types"
)

func TestBackendContract(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) types.Backend {
		return NewBackend()
	})
}
