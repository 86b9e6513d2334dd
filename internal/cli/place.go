package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storagequest/internal/persist"
)

// parseCell parses row and column arguments.
func parseCell(rowArg, colArg string) (int, int, error) {
	row, err := strconv.Atoi(rowArg)
	if err != nil {
		return 0, 0, userError("invalid row %q", rowArg)
	}
	col, err := strconv.Atoi(colArg)
	if err != nil {
		return 0, 0, userError("invalid col %q", colArg)
	}
	return row, col, nil
}

func (a *app) newPlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place <item-id> <unit-id> <row> <col>",
		Short: "Place an item in a slot, moving it if already placed",
		Long:  "Place an item in a slot. An item already in the slot is returned to the inventory.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := parseCell(args[2], args[3])
			if err != nil {
				return err
			}
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				if err := inv.Store.PlaceItem(args[0], args[1], row, col); err != nil {
					return fmt.Errorf("place %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Placed %s at %s (%d,%d)\n", args[0], args[1], row, col)
				return nil
			})
		},
	}
}

func (a *app) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <unit-id> <row> <col>",
		Short: "Clear a slot, returning its item to the inventory",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := parseCell(args[1], args[2])
			if err != nil {
				return err
			}
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				if err := inv.Store.RemoveItemFromSlot(args[0], row, col); err != nil {
					return fmt.Errorf("remove: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s (%d,%d)\n", args[0], row, col)
				return nil
			})
		},
	}
}

func (a *app) newReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <item-id>",
		Short: "Return an item to the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				if err := inv.Store.ReturnToInventory(args[0]); err != nil {
					return fmt.Errorf("return %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Returned %s to inventory\n", args[0])
				return nil
			})
		},
	}
}

func (a *app) newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <item-id>",
		Short: "Show where an item is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				loc, err := inv.Store.FindItemLocation(args[0])
				if err != nil {
					return fmt.Errorf("locate %s: %w", args[0], err)
				}
				return a.emit(cmd, loc, func(w io.Writer) {
					fmt.Fprintln(w, loc)
				})
			})
		},
	}
}

func (a *app) newUnplacedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unplaced",
		Short: "List items in the inventory pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				ids := inv.Store.ListUnplacedItems()
				st := inv.Store.Snapshot()
				return a.emit(cmd, ids, func(w io.Writer) {
					for _, id := range ids {
						fmt.Fprintf(w, "%s  %s %s\n", id, glyph(st, id), itemTitle(st, id))
					}
				})
			})
		},
	}
}
