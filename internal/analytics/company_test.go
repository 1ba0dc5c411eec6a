package analytics

import (
	"testing"

	"github.com/plantaxis/plantaxis/pkg/types"
)

func companyTable() *types.CompanyTable {
	return &types.CompanyTable{
		Rows: []types.CompanyAggregate{
			{Owner: "Ansteel", TotalCapacity: 9000, PlantCount: 4, CountryCount: 1},
			{Owner: "US Steel", TotalCapacity: 7000, PlantCount: 6, CountryCount: 2},
			{Owner: "ThyssenKrupp", TotalCapacity: 5000, PlantCount: 3, CountryCount: 3},
		},
	}
}

func TestCompanyRankingsIndependentMetrics(t *testing.T) {
	view := CompanyRankings(companyTable(), types.All, nil)

	if view.ByCapacity[0].Owner != "Ansteel" {
		t.Fatalf("by_capacity leader = %s", view.ByCapacity[0].Owner)
	}
	if view.ByPlants[0].Owner != "US Steel" {
		t.Fatalf("by_plants leader = %s", view.ByPlants[0].Owner)
	}
	if view.ByCountries[0].Owner != "ThyssenKrupp" {
		t.Fatalf("by_countries leader = %s", view.ByCountries[0].Owner)
	}
	if len(view.ByCapacity) != 3 {
		t.Fatalf("rows = %d, want 3", len(view.ByCapacity))
	}
}

func TestCompanyRankingsSingleOwner(t *testing.T) {
	view := CompanyRankings(companyTable(), "US Steel", nil)
	if len(view.ByCapacity) != 1 || view.ByCapacity[0].Owner != "US Steel" {
		t.Fatalf("owner filter result = %+v", view.ByCapacity)
	}
}

func TestCompanyRankingsObservedOwners(t *testing.T) {
	observed := map[string]struct{}{"Ansteel": {}, "ThyssenKrupp": {}}
	view := CompanyRankings(companyTable(), types.All, observed)
	if len(view.ByCapacity) != 2 {
		t.Fatalf("rows = %d, want 2", len(view.ByCapacity))
	}
	for _, r := range view.ByCapacity {
		if r.Owner == "US Steel" {
			t.Fatal("US Steel not in the filtered plant set")
		}
	}
}

func TestCompanyRankingsTop20Cap(t *testing.T) {
	table := &types.CompanyTable{}
	for i := 0; i < 30; i++ {
		table.Rows = append(table.Rows, types.CompanyAggregate{
			Owner:         string(rune('A' + i)),
			TotalCapacity: float64(30 - i),
		})
	}
	view := CompanyRankings(table, types.All, nil)
	if len(view.ByCapacity) != companyTopN {
		t.Fatalf("rows = %d, want %d", len(view.ByCapacity), companyTopN)
	}
	if view.ByCapacity[0].Owner != "A" {
		t.Fatalf("leader = %s", view.ByCapacity[0].Owner)
	}
}

func TestObservedOwners(t *testing.T) {
	table := &types.PlantTable{
		Columns: types.PlantColumns{Owner: true},
		Rows: []types.PlantRecord{
			{Owner: "Ansteel"},
			{Owner: "Ansteel"},
			{Owner: ""},
			{Owner: "US Steel"},
		},
	}
	owners := ObservedOwners(table)
	if len(owners) != 2 {
		t.Fatalf("owners = %v", owners)
	}
	if _, ok := owners[""]; ok {
		t.Fatal("empty owner should not be collected")
	}
}
