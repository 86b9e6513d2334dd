package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storagequest/internal/persist"
)

func (a *app) newDefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "def",
		Short: "Manage item definitions",
	}
	cmd.AddCommand(a.newDefCreateCmd())
	cmd.AddCommand(a.newDefListCmd())
	return cmd
}

func (a *app) newDefCreateCmd() *cobra.Command {
	var emoji, color string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an item definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				id, err := inv.Store.CreateDefinition(args[0], emoji, color)
				if err != nil {
					return err
				}
				return a.emit(cmd, map[string]string{"id": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Created definition %s (%s)\n", id, args[0])
				})
			})
		},
	}
	cmd.Flags().StringVar(&emoji, "emoji", "", "glyph shown for instances (default 🎮)")
	cmd.Flags().StringVar(&color, "color", "", "optional display color")
	return cmd
}

func (a *app) newDefListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List item definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				defs := inv.Store.Definitions()
				return a.emit(cmd, defs, func(w io.Writer) {
					for _, d := range defs {
						fmt.Fprintf(w, "%s  %s %s\n", d.ID, d.Emoji, d.Name)
					}
				})
			})
		},
	}
}
