// Package filter implements the dashboard's row filtering. The three
// predicates (country, owner, capacity range) combine with AND semantics
// and never mutate the base table: every application produces a new table
// so the unfiltered data stays available for the next query.
package filter

import (
	"github.com/plantaxis/plantaxis/pkg/types"
)

// predicate reports whether a plant row passes one criterion.
type predicate func(r *types.PlantRecord) bool

// buildPredicates turns criteria into the active predicates for a table
// with the given columns. Inactive criteria contribute nothing; the
// capacity predicate is skipped entirely when the table has no capacity
// column.
func buildPredicates(c types.FilterCriteria, cols types.PlantColumns) []predicate {
	var preds []predicate

	if c.CountryActive() {
		country := c.Country
		preds = append(preds, func(r *types.PlantRecord) bool {
			return r.Country == country
		})
	}

	if c.OwnerActive() {
		owner := c.Owner
		preds = append(preds, func(r *types.PlantRecord) bool {
			return r.Owner == owner
		})
	}

	if c.Capacity != nil && cols.Capacity {
		rng := *c.Capacity
		preds = append(preds, func(r *types.PlantRecord) bool {
			// Null capacity fails an active capacity predicate
			return r.Capacity != nil && rng.Contains(*r.Capacity)
		})
	}

	return preds
}

func matches(r *types.PlantRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// Apply filters the plant table by the given criteria. The result is a
// fresh table sharing no row slice with the input; rows keep their
// relative order.
func Apply(t *types.PlantTable, c types.FilterCriteria) *types.PlantTable {
	preds := buildPredicates(c, t.Columns)

	out := &types.PlantTable{
		Columns: t.Columns,
		Rows:    make([]types.PlantRecord, 0, len(t.Rows)),
	}
	for i := range t.Rows {
		if matches(&t.Rows[i], preds) {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	return out
}

// ApplyEnv filters the environmental table with the same three predicates,
// applied independently against its own row set. The environmental join
// may lack columns the plant table has, which is why this is a separate
// pass rather than composition.
func ApplyEnv(t *types.EnvTable, c types.FilterCriteria) *types.EnvTable {
	preds := buildPredicates(c, t.Columns.PlantColumns)

	out := &types.EnvTable{
		Columns: t.Columns,
		Rows:    make([]types.EnvironmentalRecord, 0, len(t.Rows)),
	}
	for i := range t.Rows {
		if matches(&t.Rows[i].PlantRecord, preds) {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	return out
}
