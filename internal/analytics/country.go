package analytics

import (
	"github.com/plantaxis/plantaxis/pkg/types"
)

const countryTopN = 15

// CountryCount is one country's plant count.
type CountryCount struct {
	Country    string `json:"country"`
	PlantCount int    `json:"plant_count"`
}

// CountryCapacity is one country's summed capacity.
type CountryCapacity struct {
	Country       string  `json:"country"`
	TotalCapacity float64 `json:"total_capacity"`
}

// CountryView holds the country analysis tab's two rankings.
type CountryView struct {
	// ByCount is the top 15 countries by number of plants.
	ByCount []CountryCount `json:"by_count"`

	// ByCapacity is the top 15 countries by summed capacity. Empty when
	// the capacity column is absent.
	ByCapacity []CountryCapacity `json:"by_capacity"`
}

// CountryRankings groups the filtered plant table per country. Grouping
// order follows first appearance in the table so ties rank
// deterministically.
func CountryRankings(t *types.PlantTable) CountryView {
	var view CountryView
	if !t.Columns.Country {
		return view
	}

	counts := make(map[string]int)
	sums := make(map[string]float64)
	var order []string

	for _, r := range t.Rows {
		if r.Country == "" {
			continue
		}
		if _, seen := counts[r.Country]; !seen {
			order = append(order, r.Country)
		}
		counts[r.Country]++
		if r.Capacity != nil {
			sums[r.Country] += *r.Capacity
		}
	}

	byCount := make([]CountryCount, 0, len(order))
	for _, c := range order {
		byCount = append(byCount, CountryCount{Country: c, PlantCount: counts[c]})
	}
	view.ByCount = TopNBy(byCount, countryTopN, func(r CountryCount) float64 {
		return float64(r.PlantCount)
	})

	if t.Columns.Capacity {
		byCap := make([]CountryCapacity, 0, len(order))
		for _, c := range order {
			byCap = append(byCap, CountryCapacity{Country: c, TotalCapacity: sums[c]})
		}
		view.ByCapacity = TopNBy(byCap, countryTopN, func(r CountryCapacity) float64 {
			return r.TotalCapacity
		})
	}

	return view
}
