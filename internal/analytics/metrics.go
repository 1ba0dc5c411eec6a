package analytics

import (
	"github.com/plantaxis/plantaxis/pkg/types"
)

// MetricsSummary is the dashboard's key-metrics row.
type MetricsSummary struct {
	PlantCount      int     `json:"plant_count"`
	TotalCapacity   float64 `json:"total_capacity"`
	AverageCapacity float64 `json:"average_capacity"`
	CountryCount    int     `json:"country_count"`
}

// Summarize computes the metrics row for a (usually filtered) plant
// table. Capacity metrics are 0 when the column is absent; nulls are
// skipped, not zero-counted, so the average matches the mean of the
// present values.
func Summarize(t *types.PlantTable) MetricsSummary {
	s := MetricsSummary{PlantCount: len(t.Rows)}

	if t.Columns.Capacity {
		caps := capacityValues(t)
		for _, v := range caps {
			s.TotalCapacity += v
		}
		s.AverageCapacity = Mean(caps)
	}

	if t.Columns.Country {
		seen := make(map[string]struct{})
		for _, r := range t.Rows {
			if r.Country != "" {
				seen[r.Country] = struct{}{}
			}
		}
		s.CountryCount = len(seen)
	}

	return s
}

// capacityValues collects the non-null capacities of a plant table.
func capacityValues(t *types.PlantTable) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Capacity != nil {
			out = append(out, *r.Capacity)
		}
	}
	return out
}
