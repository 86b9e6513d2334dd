package inventory

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// ErrInconsistent is wrapped by every violation Check reports.
var ErrInconsistent = errors.New("inconsistent state")

// Check verifies the structural invariants of a state: every order slice is
// a permutation of its id set, every grid is rows x cols, every occupied
// cell references a known instance, and no instance occupies more than one
// cell. All violations are returned together.
func Check(st types.State) error {
	var result *multierror.Error

	result = checkOrder(result, "unit", st.UnitOrder, st.Units)
	result = checkOrder(result, "definition", st.DefinitionOrder, st.ItemDefinitions)
	result = checkOrder(result, "item", st.ItemOrder, st.ItemInstances)

	seen := make(map[string]string)
	for _, uid := range scanOrder(st) {
		u := st.Units[uid]
		if u.ID != uid {
			result = violation(result, "unit %s stored under key %s", u.ID, uid)
		}
		if !types.ValidGeometry(u.Rows, u.Cols) {
			result = violation(result, "unit %s has geometry %dx%d", uid, u.Rows, u.Cols)
		}
		if len(u.Slots) != u.Rows {
			result = violation(result, "unit %s has %d rows, want %d", uid, len(u.Slots), u.Rows)
		}
		for r, row := range u.Slots {
			if len(row) != u.Cols {
				result = violation(result, "unit %s row %d has %d cells, want %d", uid, r, len(row), u.Cols)
			}
			for c, cell := range row {
				if cell == "" {
					continue
				}
				here := fmt.Sprintf("%s(%d,%d)", uid, r, c)
				if _, ok := st.ItemInstances[cell]; !ok {
					result = violation(result, "cell %s holds unknown item %s", here, cell)
				}
				if prev, dup := seen[cell]; dup {
					result = violation(result, "item %s placed at %s and %s", cell, prev, here)
					continue
				}
				seen[cell] = here
			}
		}
	}

	return result.ErrorOrNil()
}

// Repair clears the placement violations Check reports: cells naming an
// unknown instance are emptied, and an instance found in several cells keeps
// only the first one in scan order. It returns the repaired copy and the
// number of cells cleared. Other violations are left for Check.
func Repair(st types.State) (types.State, int) {
	out := st.Clone()
	cleared := 0
	seen := make(map[string]bool)
	for _, uid := range scanOrder(out) {
		for _, row := range out.Units[uid].Slots {
			for c, cell := range row {
				if cell == "" {
					continue
				}
				if _, ok := out.ItemInstances[cell]; !ok || seen[cell] {
					row[c] = ""
					cleared++
					continue
				}
				seen[cell] = true
			}
		}
	}
	return out, cleared
}

// scanOrder returns the ids of every unit: those in UnitOrder first, then
// any others sorted by id.
func scanOrder(st types.State) []string {
	ids := make([]string, 0, len(st.Units))
	listed := make(map[string]bool, len(st.Units))
	for _, uid := range st.UnitOrder {
		if _, ok := st.Units[uid]; ok && !listed[uid] {
			listed[uid] = true
			ids = append(ids, uid)
		}
	}
	var rest []string
	for uid := range st.Units {
		if !listed[uid] {
			rest = append(rest, uid)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

func checkOrder[V any](result *multierror.Error, kind string, order []string, set map[string]V) *multierror.Error {
	listed := make(map[string]bool, len(order))
	for _, id := range order {
		if listed[id] {
			result = violation(result, "%s %s listed twice in order", kind, id)
		}
		listed[id] = true
		if _, ok := set[id]; !ok {
			result = violation(result, "%s order references missing %s %s", kind, kind, id)
		}
	}
	for id := range set {
		if !listed[id] {
			result = violation(result, "%s %s missing from order", kind, id)
		}
	}
	return result
}

func violation(result *multierror.Error, format string, args ...any) *multierror.Error {
	return multierror.Append(result, fmt.Errorf("%w: "+format, append([]any{ErrInconsistent}, args...)...))
}
