// Package paths locates the directory treesor reads config.yaml from and
// the directory a backend keeps its data in.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wgross/treesor/pkg/types"
)

// Environment overrides.
const (
	EnvConfigDir = "TREESOR_CONFIG_DIR"
	EnvDataDir   = "TREESOR_DATA_DIR"
)

const (
	appDirName = "treesor"

	// DataDirName is the data directory created below the working directory
	// when nothing else names one.
	DataDirName = ".treesor-db"
)

// userConfigDir is replaced in tests.
var userConfigDir = os.UserConfigDir

// ConfigDir resolves the configuration directory: flag, then
// TREESOR_CONFIG_DIR, then the user config dir (XDG_CONFIG_HOME on Linux,
// Application Support on macOS, %AppData% on Windows) joined with "treesor".
func ConfigDir(flag string) (string, error) {
	if dir := firstSet(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	base, err := userConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// DataDir resolves the data directory of the named backend. The memory
// backend keeps nothing on disk and gets "". Otherwise the order is flag,
// the data_dir config value, TREESOR_DATA_DIR, then DataDirName below the
// working directory. The result is absolute.
func DataDir(backend, flag, configured string) (string, error) {
	if backend == types.BackendMemory {
		return "", nil
	}
	if dir := firstSet(flag, configured, os.Getenv(EnvDataDir)); dir != "" {
		return filepath.Abs(dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working dir: %w", err)
	}
	return filepath.Join(cwd, DataDirName), nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
