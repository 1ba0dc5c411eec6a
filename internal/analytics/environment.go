package analytics

import (
	apperrors "github.com/plantaxis/plantaxis/internal/errors"
	"github.com/plantaxis/plantaxis/pkg/types"
)

// EnvMapType selects an environmental map variant.
type EnvMapType string

const (
	// EnvMapRisk is one point per row, colored and sized by risk value.
	EnvMapRisk EnvMapType = "risk"
	// EnvMapCapacity sizes points by zero-filled capacity, colored by value.
	EnvMapCapacity EnvMapType = "capacity"
	// EnvMapDensity is a density estimate weighted by value.
	EnvMapDensity EnvMapType = "density"
)

const (
	envHistogramBins = 30
	envTopPlants     = 20
	envSummaryRows   = 10
	highRiskQuantile = 0.75
)

// EnvMetrics is the environmental risk metrics row. The high-risk count
// is the number of rows whose value exceeds the 75th percentile of the
// currently filtered value column; the threshold is recomputed per
// filter, never cached globally.
type EnvMetrics struct {
	Mean          float64 `json:"mean"`
	Max           float64 `json:"max"`
	Min           float64 `json:"min"`
	HighRiskCount int     `json:"high_risk_count"`
	Threshold     float64 `json:"threshold"`
}

// EnvironmentalMetrics computes the metrics row for the filtered
// environmental table, zeros when the value column is absent or empty.
func EnvironmentalMetrics(t *types.EnvTable) EnvMetrics {
	var m EnvMetrics
	if !t.Columns.Value {
		return m
	}

	values := envValues(t)
	if len(values) == 0 {
		return m
	}

	m.Mean = Mean(values)
	m.Min = Quantile(values, 0)
	m.Max = Quantile(values, 1)
	m.Threshold = Quantile(values, highRiskQuantile)
	for _, v := range values {
		if v > m.Threshold {
			m.HighRiskCount++
		}
	}
	return m
}

// EnvMapPoint is one renderable environmental map point.
type EnvMapPoint struct {
	Name      string  `json:"name,omitempty"`
	Owner     string  `json:"owner,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Value     float64 `json:"value"`
	Capacity  float64 `json:"capacity"`
}

// EnvMapView is the output of an environmental map aggregation.
type EnvMapView struct {
	Type      EnvMapType    `json:"type"`
	Available bool          `json:"available"`
	Points    []EnvMapPoint `json:"points"`
}

// EnvironmentalMap builds map input from the filtered environmental
// table, over the join's left-hand-side coordinates. Rows missing a
// coordinate or the risk value are dropped; capacity is zero-filled for
// display sizing.
func EnvironmentalMap(t *types.EnvTable, mapType EnvMapType) (EnvMapView, error) {
	switch mapType {
	case EnvMapRisk, EnvMapCapacity, EnvMapDensity:
	default:
		return EnvMapView{}, apperrors.New(apperrors.ErrCategoryAggregate,
			apperrors.CodeUnknownMapType, string(mapType))
	}

	view := EnvMapView{Type: mapType}
	if !t.Columns.LatitudeLeft || !t.Columns.LongitudeLeft || !t.Columns.Value {
		return view, nil
	}
	view.Available = true
	view.Points = make([]EnvMapPoint, 0, len(t.Rows))

	for _, r := range t.Rows {
		if r.LatitudeLeft == nil || r.LongitudeLeft == nil || r.Value == nil {
			continue
		}

		p := EnvMapPoint{
			Latitude:  *r.LatitudeLeft,
			Longitude: *r.LongitudeLeft,
			Value:     *r.Value,
		}
		switch mapType {
		case EnvMapRisk:
			p.Name = r.Name
			p.Owner = r.Owner
			p.Country = r.Country
			if r.Capacity != nil {
				p.Capacity = *r.Capacity
			}
		case EnvMapCapacity:
			p.Name = r.Name
			p.Owner = r.Owner
			if r.Capacity != nil {
				p.Capacity = *r.Capacity
			}
		case EnvMapDensity:
			// Coordinates and value weight only
		}
		view.Points = append(view.Points, p)
	}
	return view, nil
}

// EnvRankRow is one plant in the environmental rankings.
type EnvRankRow struct {
	Name     string   `json:"name,omitempty"`
	Owner    string   `json:"owner,omitempty"`
	Country  string   `json:"country,omitempty"`
	Value    float64  `json:"value"`
	Capacity *float64 `json:"capacity,omitempty"`
}

// EnvGroupStats is per-country or per-region risk statistics.
type EnvGroupStats struct {
	Group string  `json:"group"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// EnvAnalysis is the environmental analysis tab's chart and table inputs.
type EnvAnalysis struct {
	// Histogram is the 30-bin distribution of the risk value.
	Histogram []HistogramBin `json:"histogram"`

	// TopPlants is the top 20 rows by risk value.
	TopPlants []EnvRankRow `json:"top_plants"`

	// ByCountry is per-country mean/max/count, top 15 by mean.
	ByCountry []EnvGroupStats `json:"by_country"`

	// ByRegion is per-region mean/max/count, all regions, sorted by
	// mean descending. Nil when the region column is absent.
	ByRegion []EnvGroupStats `json:"by_region,omitempty"`

	// SummaryRows is the top 10 plants by value for the summary table.
	SummaryRows []EnvRankRow `json:"summary_rows"`

	// ValueStats is the describe() block for the risk value.
	ValueStats Describe `json:"value_stats"`
}

// EnvironmentalAnalysis computes the analysis tab from the filtered
// environmental table. Everything degrades to empty output when the
// value column is absent.
func EnvironmentalAnalysis(t *types.EnvTable) EnvAnalysis {
	var a EnvAnalysis
	if !t.Columns.Value {
		return a
	}

	values := envValues(t)
	a.Histogram = Histogram(values, envHistogramBins)
	a.ValueStats = DescribeValues(values)

	ranked := make([]EnvRankRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Value == nil {
			continue
		}
		ranked = append(ranked, EnvRankRow{
			Name:     r.Name,
			Owner:    r.Owner,
			Country:  r.Country,
			Value:    *r.Value,
			Capacity: r.Capacity,
		})
	}
	byValue := func(r EnvRankRow) float64 { return r.Value }
	a.TopPlants = TopNBy(ranked, envTopPlants, byValue)
	a.SummaryRows = TopNBy(ranked, envSummaryRows, byValue)

	if t.Columns.Country {
		a.ByCountry = TopNBy(
			groupEnvStats(t, func(r *types.EnvironmentalRecord) (string, bool) {
				return r.Country, r.Country != ""
			}),
			countryTopN,
			func(g EnvGroupStats) float64 { return g.Mean },
		)
	}

	if t.Columns.Region {
		regions := groupEnvStats(t, func(r *types.EnvironmentalRecord) (string, bool) {
			if r.Region == nil {
				return "", false
			}
			return *r.Region, true
		})
		// All regions, not top-N
		a.ByRegion = TopNBy(regions, len(regions), func(g EnvGroupStats) float64 {
			return g.Mean
		})
	}

	return a
}

// groupEnvStats aggregates mean/max/count of the risk value per group.
// Group order follows first appearance so ties rank deterministically.
func groupEnvStats(t *types.EnvTable, groupOf func(*types.EnvironmentalRecord) (string, bool)) []EnvGroupStats {
	type acc struct {
		sum, max float64
		count    int
	}
	groups := make(map[string]*acc)
	var order []string

	for i := range t.Rows {
		r := &t.Rows[i]
		if r.Value == nil {
			continue
		}
		key, ok := groupOf(r)
		if !ok {
			continue
		}
		g, exists := groups[key]
		if !exists {
			g = &acc{max: *r.Value}
			groups[key] = g
			order = append(order, key)
		}
		g.sum += *r.Value
		if *r.Value > g.max {
			g.max = *r.Value
		}
		g.count++
	}

	out := make([]EnvGroupStats, 0, len(order))
	for _, key := range order {
		g := groups[key]
		out = append(out, EnvGroupStats{
			Group: key,
			Mean:  g.sum / float64(g.count),
			Max:   g.max,
			Count: g.count,
		})
	}
	return out
}

// envValues collects the non-null risk values of an environmental table.
func envValues(t *types.EnvTable) []float64 {
	out := make([]float64, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Value != nil {
			out = append(out, *r.Value)
		}
	}
	return out
}
