// Package cli implements the treesor command-line interface: a thin cobra
// surface over the item model, configured with viper.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wgross/treesor/internal/paths"
	"github.com/wgross/treesor/pkg/treesor"
	"github.com/wgross/treesor/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Version is the treesor release.
const Version = "0.1.0"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	verbose   bool
}

// app carries the state shared by one command tree.
type app struct {
	flags rootFlags
}

// NewRootCmd creates the top-level "treesor" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "treesor",
		Short: "A path-addressable item tree with typed properties",
		Long: "Treesor keeps a tree of items addressed by path, each with a stable id,\n" +
			"and lets you attach typed properties to any item.",
		Version:      Version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.treesor-db)")
	root.PersistentFlags().StringVar(&a.flags.backend, "backend", "", "storage backend: sqlite or memory")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.itemCmds()...)
	root.AddCommand(a.newColumnCmd())
	root.AddCommand(a.newPropCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps model errors to user errors and everything else to
// system errors.
func exitCode(err error) int {
	for _, userErr := range []error{
		types.ErrArgumentMissing, types.ErrNotFound, types.ErrDuplicateDefinition,
		types.ErrTypeMismatch, types.ErrUnsupported, types.ErrHasChildren, types.ErrInvalidName,
		types.ErrUnknownValueKind, types.ErrBackendUnknown,
	} {
		if errors.Is(err, userErr) {
			return exitUserError
		}
	}
	return exitSysError
}

// settings loads config.yaml from the resolved config directory, applies
// flag overrides, and resolves the data directory for the chosen backend.
func (a *app) settings() (settings, error) {
	configDir, err := paths.ConfigDir(a.flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}
	s, err := loadSettings(configDir)
	if err != nil {
		return settings{}, err
	}
	if a.flags.backend != "" {
		s.Backend = a.flags.backend
	}
	if s.DataDir, err = paths.DataDir(s.Backend, a.flags.dataDir, s.DataDir); err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}
	if a.flags.verbose {
		s.LogLevel = log.DebugLevel.String()
	}
	return s, nil
}

// openModel loads settings, configures logging, and opens the model. The
// caller must Close it.
func (a *app) openModel() (*treesor.Model, error) {
	s, err := a.settings()
	if err != nil {
		return nil, err
	}
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	log.SetLevel(level)
	log.WithFields(log.Fields{"backend": s.Backend, "data_dir": s.DataDir}).Debug("opening model")

	return treesor.Open(types.Config{Backend: s.Backend, DataDir: s.DataDir})
}

// withModel opens the model, runs fn, and closes the model.
func (a *app) withModel(fn func(m *treesor.Model) error) error {
	m, err := a.openModel()
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

// emit writes v as JSON in --json mode, otherwise calls plain.
func (a *app) emit(w io.Writer, v any, plain func()) error {
	if !a.flags.jsonMode {
		plain()
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}
