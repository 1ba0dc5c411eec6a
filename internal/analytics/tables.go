package analytics

import (
	"github.com/plantaxis/plantaxis/pkg/types"
)

const summaryTopN = 10

// OwnerCapacity is one owner's summed capacity in the filtered plant set.
type OwnerCapacity struct {
	Owner         string  `json:"owner"`
	TotalCapacity float64 `json:"total_capacity"`
}

// TablesView holds the data-tables tab: top-10 summary tables computed
// from the filtered plant set plus the plant-age statistics block.
type TablesView struct {
	// TopOwners is the top 10 owners by summed capacity. Empty when the
	// owner or capacity column is absent.
	TopOwners []OwnerCapacity `json:"top_owners"`

	// TopCountries is the top 10 countries by plant count.
	TopCountries []CountryCount `json:"top_countries"`

	// AgeStats is the describe() block for plant age. Nil when the age
	// column is absent.
	AgeStats *Describe `json:"age_stats,omitempty"`
}

// DataTables computes the data-tables view from the filtered plant table.
func DataTables(t *types.PlantTable) TablesView {
	var view TablesView

	if t.Columns.Owner && t.Columns.Capacity {
		sums := make(map[string]float64)
		var order []string
		for _, r := range t.Rows {
			if r.Owner == "" || r.Capacity == nil {
				continue
			}
			if _, seen := sums[r.Owner]; !seen {
				order = append(order, r.Owner)
			}
			sums[r.Owner] += *r.Capacity
		}
		owners := make([]OwnerCapacity, 0, len(order))
		for _, o := range order {
			owners = append(owners, OwnerCapacity{Owner: o, TotalCapacity: sums[o]})
		}
		view.TopOwners = TopNBy(owners, summaryTopN, func(r OwnerCapacity) float64 {
			return r.TotalCapacity
		})
	}

	if t.Columns.Country {
		view.TopCountries = TopNBy(CountryRankings(t).ByCount, summaryTopN,
			func(r CountryCount) float64 { return float64(r.PlantCount) })
	}

	if t.Columns.AgeYears {
		ages := make([]float64, 0, len(t.Rows))
		for _, r := range t.Rows {
			if r.AgeYears != nil {
				ages = append(ages, *r.AgeYears)
			}
		}
		stats := DescribeValues(ages)
		view.AgeStats = &stats
	}

	return view
}
