// Package cli implements the storage-quest command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storagequest/internal/config"
	"github.com/mesh-intelligence/storagequest/internal/logging"
	"github.com/mesh-intelligence/storagequest/internal/paths"
	"github.com/mesh-intelligence/storagequest/internal/persist"
	"github.com/mesh-intelligence/storagequest/pkg/storagequest"
	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// app is the state shared by the commands of one root command.
type app struct {
	flags    rootFlags
	settings config.Settings
	log      *logrus.Logger
	stderr   io.Writer
}

// exitErr carries the process exit code for an error.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

// NewRootCmd creates the top-level "storage-quest" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{stderr: os.Stderr}

	root := &cobra.Command{
		Use:     "storage-quest",
		Short:   "Organize items into grid-shaped storage units",
		Long:    "Storage Quest keeps a catalogue of items and the shelves, bins and\ndrawers they live in, and moves items between slots and the inventory pool.",
		Version: storagequest.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.stderr = cmd.ErrOrStderr()
			if cmd.Name() == "version" || cmd.Name() == "init" {
				return nil
			}
			return a.loadSettings()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.storage-quest)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(a.newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newUnitCmd())
	root.AddCommand(a.newDefCmd())
	root.AddCommand(a.newItemCmd())
	root.AddCommand(a.newPlaceCmd())
	root.AddCommand(a.newRemoveCmd())
	root.AddCommand(a.newReturnCmd())
	root.AddCommand(a.newLocateCmd())
	root.AddCommand(a.newUnplacedCmd())
	root.AddCommand(a.newServeCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Stderr))
}

// run executes root and returns the exit code, printing the error to
// stderr.
func run(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "error:", err)
	return exitCode(err)
}

// exitCode classifies err: missing entities, bad geometry and bad input are
// user errors; everything else is a system error.
func exitCode(err error) int {
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidGeometry) {
		return exitUserError
	}
	return exitSysError
}

func userError(format string, args ...any) error {
	return &exitErr{code: exitUserError, err: fmt.Errorf(format, args...)}
}

// loadSettings resolves the config directory, reads config.yaml, builds the
// logger and resolves the data directory.
func (a *app) loadSettings() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := config.Load(configDir)
	if err != nil {
		return err
	}
	settings, err := config.Decode(v)
	if err != nil {
		return &exitErr{code: exitUserError, err: err}
	}
	configDataDir, err := config.DataDir(v)
	if err != nil {
		return err
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, configDataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	settings.Store.DataDir = dataDir

	a.settings = settings
	a.log = logging.New(settings.LogLevel, settings.LogFormat, a.stderr)
	a.log.WithFields(logrus.Fields{
		"config_dir": configDir,
		"data_dir":   dataDir,
		"backend":    settings.Store.Backend,
	}).Debug("configuration loaded")
	return nil
}

// withInventory opens the persisted inventory, runs fn and closes it,
// flushing any pending snapshot.
func (a *app) withInventory(ctx context.Context, fn func(inv *persist.Inventory) error) (err error) {
	inv, err := persist.Open(ctx, a.settings.Store, a.log)
	if err != nil {
		return err
	}
	defer func() {
		// Flush even when ctx was canceled by a signal.
		if cerr := inv.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = fmt.Errorf("close inventory: %w", cerr)
		}
	}()
	return fn(inv)
}

// emit prints v as indented JSON in --json mode, otherwise calls text.
func (a *app) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if !a.flags.jsonMode {
		text(out)
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
