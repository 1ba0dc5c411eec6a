package analytics

import (
	apperrors "github.com/plantaxis/plantaxis/internal/errors"
	"github.com/plantaxis/plantaxis/pkg/types"
)

// CompanyMetric selects the ranking key for the company view.
type CompanyMetric string

const (
	MetricCapacity  CompanyMetric = "capacity"
	MetricPlants    CompanyMetric = "plants"
	MetricCountries CompanyMetric = "countries"
)

const companyTopN = 20

// CompanyView holds the three top-20 rankings of the company analysis
// tab. Each list is independently sorted descending by its metric, ties
// keeping the aggregation file's row order.
type CompanyView struct {
	ByCapacity  []types.CompanyAggregate `json:"by_capacity"`
	ByPlants    []types.CompanyAggregate `json:"by_plants"`
	ByCountries []types.CompanyAggregate `json:"by_countries"`
}

// CompanyRankings restricts the pre-aggregated company table and ranks
// it. owner narrows to a single company when it is not the All sentinel.
// observedOwners, when non-nil, keeps only owners present in the
// currently filtered plant set (the country filter's effect on the
// company view).
func CompanyRankings(t *types.CompanyTable, owner string, observedOwners map[string]struct{}) CompanyView {
	rows := make([]types.CompanyAggregate, 0, len(t.Rows))
	for _, r := range t.Rows {
		if owner != "" && owner != types.All && r.Owner != owner {
			continue
		}
		if observedOwners != nil {
			if _, ok := observedOwners[r.Owner]; !ok {
				continue
			}
		}
		rows = append(rows, r)
	}

	return CompanyView{
		ByCapacity: TopNBy(rows, companyTopN, func(r types.CompanyAggregate) float64 {
			return r.TotalCapacity
		}),
		ByPlants: TopNBy(rows, companyTopN, func(r types.CompanyAggregate) float64 {
			return float64(r.PlantCount)
		}),
		ByCountries: TopNBy(rows, companyTopN, func(r types.CompanyAggregate) float64 {
			return float64(r.CountryCount)
		}),
	}
}

// Ranking returns the single list selected by metric.
func (v CompanyView) Ranking(metric CompanyMetric) ([]types.CompanyAggregate, error) {
	switch metric {
	case MetricCapacity:
		return v.ByCapacity, nil
	case MetricPlants:
		return v.ByPlants, nil
	case MetricCountries:
		return v.ByCountries, nil
	default:
		return nil, apperrors.New(apperrors.ErrCategoryAggregate,
			apperrors.CodeUnknownView, string(metric))
	}
}

// ObservedOwners collects the distinct owners of a plant table, used to
// restrict the company view to the filtered plant set.
func ObservedOwners(t *types.PlantTable) map[string]struct{} {
	owners := make(map[string]struct{})
	for _, r := range t.Rows {
		if r.Owner != "" {
			owners[r.Owner] = struct{}{}
		}
	}
	return owners
}
