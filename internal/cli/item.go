package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storagequest/internal/persist"
	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// itemRow is one line of "item list".
type itemRow struct {
	types.ItemInstance
	Location types.ItemLocation `json:"location"`
}

func (a *app) newItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage item instances",
	}
	cmd.AddCommand(a.newItemCreateCmd())
	cmd.AddCommand(a.newItemUpdateCmd())
	cmd.AddCommand(a.newItemDeleteCmd())
	cmd.AddCommand(a.newItemListCmd())
	return cmd
}

func (a *app) newItemCreateCmd() *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "create <def-id>",
		Short: "Create an item instance in the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				if _, err := inv.Store.Definition(args[0]); err != nil {
					return userError("unknown definition %q", args[0])
				}
				id, err := inv.Store.CreateItem(args[0], label)
				if err != nil {
					return err
				}
				return a.emit(cmd, map[string]string{"id": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Created item %s\n", id)
				})
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "item label")
	return cmd
}

func (a *app) newItemUpdateCmd() *cobra.Command {
	var label, notes string
	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Update an item's label and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				it, err := inv.Store.Item(args[0])
				if err != nil {
					return fmt.Errorf("update %s: %w", args[0], err)
				}
				if cmd.Flags().Changed("label") {
					it.Label = label
				}
				if cmd.Flags().Changed("notes") {
					it.Notes = notes
				}
				if err := inv.Store.UpdateItem(it.ID, it.Label, it.Notes); err != nil {
					return fmt.Errorf("update %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s\n", it.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "new label")
	cmd.Flags().StringVar(&notes, "notes", "", "new notes")
	return cmd
}

func (a *app) newItemDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item instance, clearing its slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				if err := inv.Store.DeleteItem(args[0]); err != nil {
					return fmt.Errorf("delete %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", args[0])
				return nil
			})
		},
	}
}

func (a *app) newItemListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List item instances with their locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				st := inv.Store.Snapshot()
				var rows []itemRow
				for _, it := range inv.Store.Items() {
					loc, err := inv.Store.FindItemLocation(it.ID)
					if err != nil {
						return err
					}
					rows = append(rows, itemRow{ItemInstance: it, Location: loc})
				}
				return a.emit(cmd, rows, func(w io.Writer) {
					for _, r := range rows {
						fmt.Fprintf(w, "%s  %s %-20s %s\n", r.ID, glyph(st, r.ID), itemTitle(st, r.ID), r.Location)
					}
				})
			})
		},
	}
}
