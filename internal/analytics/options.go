package analytics

import (
	"sort"

	"github.com/plantaxis/plantaxis/pkg/types"
)

// FilterOptions feeds the sidebar widgets. Option lists always enumerate
// the full unfiltered base table, never a filtered view, and lead with
// the All sentinel.
type FilterOptions struct {
	Countries []string            `json:"countries"`
	Owners    []string            `json:"owners"`
	Capacity  types.CapacityRange `json:"capacity"`
}

// Options computes the sidebar data from the base plant table and the
// observed capacity bounds recorded at load time.
func Options(t *types.PlantTable, bounds types.CapacityRange) FilterOptions {
	return FilterOptions{
		Countries: sentinelList(t, t.Columns.Country, func(r *types.PlantRecord) string { return r.Country }),
		Owners:    sentinelList(t, t.Columns.Owner, func(r *types.PlantRecord) string { return r.Owner }),
		Capacity:  bounds,
	}
}

// sentinelList returns "All" followed by the sorted distinct non-null
// values of one column, or just the sentinel when the column is absent.
func sentinelList(t *types.PlantTable, present bool, value func(*types.PlantRecord) string) []string {
	out := []string{types.All}
	if !present {
		return out
	}

	seen := make(map[string]struct{})
	for i := range t.Rows {
		if v := value(&t.Rows[i]); v != "" {
			seen[v] = struct{}{}
		}
	}

	distinct := make([]string, 0, len(seen))
	for v := range seen {
		distinct = append(distinct, v)
	}
	sort.Strings(distinct)
	return append(out, distinct...)
}
