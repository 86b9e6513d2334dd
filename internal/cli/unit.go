package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storagequest/internal/persist"
	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// Defaults of the UI's "+ Unit" button.
const (
	defaultUnitName = "New Unit"
	defaultUnitRows = 3
	defaultUnitCols = 6
)

const emptyCell = "·"

func (a *app) newUnitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Manage storage units",
	}
	cmd.AddCommand(a.newUnitCreateCmd())
	cmd.AddCommand(a.newUnitRenameCmd())
	cmd.AddCommand(a.newUnitDeleteCmd())
	cmd.AddCommand(a.newUnitListCmd())
	cmd.AddCommand(a.newUnitShowCmd())
	return cmd
}

func (a *app) newUnitCreateCmd() *cobra.Command {
	var rows, cols int
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a storage unit with an empty grid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultUnitName
			if len(args) == 1 {
				name = args[0]
			}
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				id, err := inv.Store.CreateUnit(name, rows, cols)
				if err != nil {
					return err
				}
				return a.emit(cmd, map[string]string{"id": id}, func(w io.Writer) {
					fmt.Fprintf(w, "Created unit %s (%s, %dx%d)\n", id, name, rows, cols)
				})
			})
		},
	}
	cmd.Flags().IntVar(&rows, "rows", defaultUnitRows, "number of rows")
	cmd.Flags().IntVar(&cols, "cols", defaultUnitCols, "number of columns")
	return cmd
}

func (a *app) newUnitRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <unit-id> <name>",
		Short: "Rename a storage unit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				if err := inv.Store.RenameUnit(args[0], args[1]); err != nil {
					return fmt.Errorf("rename %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed unit %s to %q\n", args[0], args[1])
				return nil
			})
		},
	}
}

func (a *app) newUnitDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <unit-id>",
		Short: "Delete a storage unit; its items return to the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				released, err := inv.Store.DeleteUnit(args[0])
				if err != nil {
					return fmt.Errorf("delete %s: %w", args[0], err)
				}
				if released == nil {
					released = []string{}
				}
				return a.emit(cmd, map[string][]string{"released": released}, func(w io.Writer) {
					fmt.Fprintf(w, "Deleted unit %s; %d item(s) returned to inventory\n", args[0], len(released))
				})
			})
		},
	}
}

func (a *app) newUnitListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List storage units in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				units := inv.Store.Units()
				return a.emit(cmd, units, func(w io.Writer) {
					for _, u := range units {
						fmt.Fprintf(w, "%s  %-16s %dx%d  %d/%d used\n",
							u.ID, u.Name, u.Rows, u.Cols, u.Occupied(), u.Rows*u.Cols)
					}
				})
			})
		},
	}
}

func (a *app) newUnitShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <unit-id>",
		Short: "Show a storage unit's grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withInventory(cmd.Context(), func(inv *persist.Inventory) error {
				u, err := inv.Store.Unit(args[0])
				if err != nil {
					return fmt.Errorf("show %s: %w", args[0], err)
				}
				st := inv.Store.Snapshot()
				return a.emit(cmd, u, func(w io.Writer) {
					renderGrid(w, u, st)
				})
			})
		},
	}
}

// renderGrid prints the unit as rows of glyphs, one per cell, followed by a
// legend of the placed items.
func renderGrid(w io.Writer, u types.StorageUnit, st types.State) {
	fmt.Fprintf(w, "%s (%dx%d)\n", u.Name, u.Rows, u.Cols)
	var legend []string
	for r, row := range u.Slots {
		cells := make([]string, len(row))
		for c, id := range row {
			if id == "" {
				cells[c] = emptyCell
				continue
			}
			cells[c] = glyph(st, id)
			legend = append(legend, fmt.Sprintf("  (%d,%d) %s %s", r, c, cells[c], itemTitle(st, id)))
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
	for _, line := range legend {
		fmt.Fprintln(w, line)
	}
}

// glyph returns the emoji of the item's definition, or "?" when the
// definition is missing.
func glyph(st types.State, itemID string) string {
	it, ok := st.ItemInstances[itemID]
	if !ok {
		return "?"
	}
	def, ok := st.ItemDefinitions[it.DefID]
	if !ok || def.Emoji == "" {
		return "?"
	}
	return def.Emoji
}

// itemTitle returns the label of an item, falling back to its definition
// name and then its id.
func itemTitle(st types.State, itemID string) string {
	it := st.ItemInstances[itemID]
	if it.Label != "" {
		return it.Label
	}
	if def, ok := st.ItemDefinitions[it.DefID]; ok {
		return def.Name
	}
	return itemID
}
