package analytics

import (
	"testing"

	"github.com/plantaxis/plantaxis/internal/filter"
	"github.com/plantaxis/plantaxis/pkg/types"
)

func strp(s string) *string { return &s }

func envTable() *types.EnvTable {
	return &types.EnvTable{
		Columns: types.EnvColumns{
			PlantColumns: types.PlantColumns{
				Name: true, Owner: true, Country: true, Capacity: true,
			},
			Value: true, LatitudeLeft: true, LongitudeLeft: true, Region: true,
		},
		Rows: []types.EnvironmentalRecord{
			{
				PlantRecord: types.PlantRecord{Name: "P1", Owner: "O1", Country: "China", Capacity: f(8000)},
				Value:       f(10), LatitudeLeft: f(41), LongitudeLeft: f(122), Region: strp("Asia"),
			},
			{
				PlantRecord: types.PlantRecord{Name: "P2", Owner: "O2", Country: "USA", Capacity: f(5600)},
				Value:       f(20), LatitudeLeft: f(41.6), LongitudeLeft: f(-87.3), Region: strp("Americas"),
			},
			{
				PlantRecord: types.PlantRecord{Name: "P3", Owner: "O1", Country: "China", Capacity: nil},
				Value:       f(30), LatitudeLeft: f(30), LongitudeLeft: f(120), Region: strp("Asia"),
			},
			{
				PlantRecord: types.PlantRecord{Name: "P4", Owner: "O3", Country: "Germany", Capacity: f(4000)},
				Value:       f(40), LatitudeLeft: nil, LongitudeLeft: f(6.7), Region: strp("Europe"),
			},
		},
	}
}

func TestEnvironmentalMetricsHighRisk(t *testing.T) {
	m := EnvironmentalMetrics(envTable())

	// Values [10, 20, 30, 40]: interpolated 75th percentile is 32.5, and
	// only 40 exceeds it.
	if m.Threshold != 32.5 {
		t.Fatalf("threshold = %v, want 32.5", m.Threshold)
	}
	if m.HighRiskCount != 1 {
		t.Fatalf("high-risk count = %d, want 1", m.HighRiskCount)
	}
	if m.Mean != 25 || m.Min != 10 || m.Max != 40 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestEnvironmentalMetricsRecomputeAfterFilter(t *testing.T) {
	base := envTable()
	c := types.AllCriteria()
	c.Country = "China"
	filtered := filter.ApplyEnv(base, c)

	m := EnvironmentalMetrics(filtered)
	// Values [10, 30]: threshold 25, one value above it
	if m.Threshold != 25 {
		t.Fatalf("threshold = %v, want 25", m.Threshold)
	}
	if m.HighRiskCount != 1 {
		t.Fatalf("high-risk count = %d, want 1", m.HighRiskCount)
	}
}

func TestEnvironmentalMetricsNoValueColumn(t *testing.T) {
	table := &types.EnvTable{
		Columns: types.EnvColumns{PlantColumns: types.PlantColumns{Name: true}},
		Rows:    []types.EnvironmentalRecord{{PlantRecord: types.PlantRecord{Name: "P1"}}},
	}
	if m := EnvironmentalMetrics(table); m != (EnvMetrics{}) {
		t.Fatalf("metrics without value column = %+v", m)
	}
}

func TestEnvironmentalMapDropsIncompleteRows(t *testing.T) {
	view, err := EnvironmentalMap(envTable(), EnvMapRisk)
	if err != nil {
		t.Fatal(err)
	}
	if !view.Available {
		t.Fatal("view should be available")
	}
	// P4 has a null left-latitude
	if len(view.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(view.Points))
	}
	// P3's null capacity zero-fills
	if view.Points[2].Name != "P3" || view.Points[2].Capacity != 0 {
		t.Fatalf("points[2] = %+v", view.Points[2])
	}
}

func TestEnvironmentalMapUnknownType(t *testing.T) {
	if _, err := EnvironmentalMap(envTable(), EnvMapType("contour")); err == nil {
		t.Fatal("expected error for unknown map type")
	}
}

func TestEnvironmentalMapMissingColumns(t *testing.T) {
	table := &types.EnvTable{
		Columns: types.EnvColumns{Value: true},
		Rows:    []types.EnvironmentalRecord{{Value: f(1)}},
	}
	view, err := EnvironmentalMap(table, EnvMapDensity)
	if err != nil {
		t.Fatal(err)
	}
	if view.Available {
		t.Fatal("view without coordinates should be unavailable")
	}
}

func TestEnvironmentalAnalysis(t *testing.T) {
	a := EnvironmentalAnalysis(envTable())

	if len(a.Histogram) != envHistogramBins {
		t.Fatalf("bins = %d, want %d", len(a.Histogram), envHistogramBins)
	}
	if a.TopPlants[0].Name != "P4" || a.TopPlants[0].Value != 40 {
		t.Fatalf("top plant = %+v", a.TopPlants[0])
	}
	if len(a.SummaryRows) != 4 {
		t.Fatalf("summary rows = %d, want 4", len(a.SummaryRows))
	}

	// By-country mean: Germany 40, USA 20, China 20 (ties keep first appearance)
	if a.ByCountry[0].Group != "Germany" || a.ByCountry[0].Mean != 40 {
		t.Fatalf("by_country leader = %+v", a.ByCountry[0])
	}
	if a.ByCountry[1].Group != "China" || a.ByCountry[1].Mean != 20 || a.ByCountry[1].Count != 2 {
		t.Fatalf("by_country[1] = %+v", a.ByCountry[1])
	}
	if a.ByCountry[1].Max != 30 {
		t.Fatalf("China max = %v, want 30", a.ByCountry[1].Max)
	}

	if len(a.ByRegion) != 3 {
		t.Fatalf("regions = %d, want 3", len(a.ByRegion))
	}
	if a.ByRegion[0].Group != "Europe" {
		t.Fatalf("by_region leader = %+v", a.ByRegion[0])
	}

	if a.ValueStats.Count != 4 || a.ValueStats.Mean != 25 {
		t.Fatalf("value stats = %+v", a.ValueStats)
	}
}

func TestEnvironmentalAnalysisNoRegionColumn(t *testing.T) {
	table := envTable()
	table.Columns.Region = false
	a := EnvironmentalAnalysis(table)
	if a.ByRegion != nil {
		t.Fatalf("by_region without the column = %+v", a.ByRegion)
	}
	if len(a.ByCountry) == 0 {
		t.Fatal("by_country should still compute")
	}
}
