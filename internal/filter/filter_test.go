package filter

import (
	"testing"

	"github.com/plantaxis/plantaxis/pkg/types"
)

func f(v float64) *float64 { return &v }

func baseTable() *types.PlantTable {
	return &types.PlantTable{
		Columns: types.PlantColumns{
			Name: true, Owner: true, Country: true, Capacity: true,
		},
		Rows: []types.PlantRecord{
			{Name: "P1", Owner: "O1", Country: "A", Capacity: f(100)},
			{Name: "P2", Owner: "O2", Country: "A", Capacity: f(200)},
			{Name: "P3", Owner: "O1", Country: "B", Capacity: f(300)},
			{Name: "P4", Owner: "O2", Country: "B", Capacity: nil},
		},
	}
}

func TestAllCriteriaReturnsFullTable(t *testing.T) {
	base := baseTable()
	got := Apply(base, types.AllCriteria())

	if len(got.Rows) != len(base.Rows) {
		t.Fatalf("rows = %d, want %d", len(got.Rows), len(base.Rows))
	}
	for i := range base.Rows {
		if got.Rows[i].Name != base.Rows[i].Name {
			t.Fatalf("row %d = %q, want %q", i, got.Rows[i].Name, base.Rows[i].Name)
		}
	}
}

func TestCountryFilterExactMatch(t *testing.T) {
	got := Apply(baseTable(), types.FilterCriteria{Country: "A", Owner: types.All})
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	for _, r := range got.Rows {
		if r.Country != "A" {
			t.Fatalf("unexpected country %q", r.Country)
		}
	}

	// Case-sensitive, no normalization
	got = Apply(baseTable(), types.FilterCriteria{Country: "a", Owner: types.All})
	if len(got.Rows) != 0 {
		t.Fatalf("lowercase country should match nothing, got %d rows", len(got.Rows))
	}
}

func TestConjunctiveSemantics(t *testing.T) {
	c := types.FilterCriteria{Country: "B", Owner: "O1"}
	got := Apply(baseTable(), c)
	if len(got.Rows) != 1 || got.Rows[0].Name != "P3" {
		t.Fatalf("rows = %+v, want only P3", got.Rows)
	}

	// Conjunction equals intersecting the single-predicate filters
	base := baseTable()
	byCountry := Apply(base, types.FilterCriteria{Country: "B", Owner: types.All})
	both := Apply(byCountry, types.FilterCriteria{Country: types.All, Owner: "O1"})
	if len(both.Rows) != len(got.Rows) || both.Rows[0].Name != got.Rows[0].Name {
		t.Fatal("chained single filters should equal the combined filter")
	}
}

func TestCapacityBoundsInclusive(t *testing.T) {
	c := types.FilterCriteria{
		Country:  types.All,
		Owner:    types.All,
		Capacity: &types.CapacityRange{Min: 100, Max: 200},
	}
	got := Apply(baseTable(), c)
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2 (both bounds inclusive)", len(got.Rows))
	}
	if got.Rows[0].Name != "P1" || got.Rows[1].Name != "P2" {
		t.Fatalf("rows = %+v", got.Rows)
	}
}

func TestActiveCapacityFilterExcludesNulls(t *testing.T) {
	c := types.FilterCriteria{
		Country:  types.All,
		Owner:    types.All,
		Capacity: &types.CapacityRange{Min: 0, Max: 10000},
	}
	got := Apply(baseTable(), c)
	for _, r := range got.Rows {
		if r.Capacity == nil {
			t.Fatal("null-capacity row survived an active capacity filter")
		}
	}
	if len(got.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(got.Rows))
	}
}

func TestCapacityFilterSkippedWhenColumnAbsent(t *testing.T) {
	base := baseTable()
	base.Columns.Capacity = false

	c := types.FilterCriteria{
		Country:  types.All,
		Owner:    types.All,
		Capacity: &types.CapacityRange{Min: 150, Max: 250},
	}
	got := Apply(base, c)
	if len(got.Rows) != len(base.Rows) {
		t.Fatalf("rows = %d, want %d (capacity filter skipped)", len(got.Rows), len(base.Rows))
	}
}

func BenchmarkApply(b *testing.B) {
	table := randomTable(1, 10000)
	c := types.FilterCriteria{
		Country:  "A",
		Owner:    types.All,
		Capacity: &types.CapacityRange{Min: 100, Max: 900},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Apply(table, c)
	}
}

func TestNormalizeCapacityDropsFullRange(t *testing.T) {
	bounds := types.CapacityRange{Min: 100, Max: 300}

	c := types.FilterCriteria{
		Country:  types.All,
		Owner:    types.All,
		Capacity: &types.CapacityRange{Min: 100, Max: 300},
	}
	if norm := c.NormalizeCapacity(bounds); norm.Capacity != nil {
		t.Fatal("full-range selection should normalize to inactive")
	}

	c.Capacity = &types.CapacityRange{Min: 150, Max: 300}
	if norm := c.NormalizeCapacity(bounds); norm.Capacity == nil {
		t.Fatal("narrower selection must stay active")
	}
}

func TestApplyDoesNotMutateBase(t *testing.T) {
	base := baseTable()
	before := len(base.Rows)

	got := Apply(base, types.FilterCriteria{Country: "A", Owner: types.All})
	got.Rows[0].Name = "mutated"

	if len(base.Rows) != before || base.Rows[0].Name != "P1" {
		t.Fatal("filtering must not touch the base table")
	}
}

func TestApplyEnvIndependentPredicates(t *testing.T) {
	env := &types.EnvTable{
		Columns: types.EnvColumns{
			PlantColumns: types.PlantColumns{Owner: true, Country: true}, // no capacity column
			Value:        true,
		},
		Rows: []types.EnvironmentalRecord{
			{PlantRecord: types.PlantRecord{Owner: "O1", Country: "A"}, Value: f(10)},
			{PlantRecord: types.PlantRecord{Owner: "O2", Country: "A"}, Value: f(20)},
			{PlantRecord: types.PlantRecord{Owner: "O1", Country: "B"}, Value: f(30)},
		},
	}

	c := types.FilterCriteria{
		Country:  "A",
		Owner:    types.All,
		Capacity: &types.CapacityRange{Min: 500, Max: 600},
	}
	got := ApplyEnv(env, c)

	// Capacity predicate skipped (column absent); country applied
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
}

func TestEmptyResult(t *testing.T) {
	got := Apply(baseTable(), types.FilterCriteria{Country: "Z", Owner: types.All})
	if len(got.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(got.Rows))
	}
}
