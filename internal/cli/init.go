package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storagequest/internal/config"
	"github.com/mesh-intelligence/storagequest/internal/paths"
	"github.com/mesh-intelligence/storagequest/internal/persist"
)

type initResult struct {
	ConfigFile    string `json:"config_file"`
	ConfigWritten bool   `json:"config_written"`
	DataDir       string `json:"data_dir"`
	Backend       string `json:"backend"`
	Seeded        bool   `json:"seeded"`
}

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize storage-quest configuration and storage",
		Long:  "Create the configuration and data directories, write config.yaml if missing,\nthen open the store, seeding the starter inventory on first run.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	// Only pin data_dir in the new config when the flag names one.
	pinned := ""
	if a.flags.dataDir != "" {
		if pinned, err = filepath.Abs(a.flags.dataDir); err != nil {
			return err
		}
	}
	configPath := filepath.Join(configDir, config.FileBase)
	written, err := config.WriteIfMissing(configPath, config.DefaultFile(pinned))
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if err := a.loadSettings(); err != nil {
		return err
	}

	var seeded bool
	err = a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
		seeded = inv.Seeded
		return nil
	})
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}

	res := initResult{
		ConfigFile:    configPath,
		ConfigWritten: written,
		DataDir:       a.settings.Store.DataDir,
		Backend:       a.settings.Store.Backend,
		Seeded:        seeded,
	}
	return a.emit(cmd, res, func(w io.Writer) {
		fmt.Fprintln(w, "Storage Quest initialized")
		fmt.Fprintf(w, "  config:  %s\n", res.ConfigFile)
		fmt.Fprintf(w, "  data:    %s (%s)\n", res.DataDir, res.Backend)
		if res.Seeded {
			fmt.Fprintln(w, "  seeded starter inventory")
		}
	})
}
