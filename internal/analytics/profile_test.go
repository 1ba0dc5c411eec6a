package analytics

import (
	"testing"

	"github.com/plantaxis/plantaxis/pkg/types"
)

func TestProfile(t *testing.T) {
	table := &types.PlantTable{
		Columns: types.PlantColumns{
			Name: true, Owner: true, Country: true,
			Capacity: true, Latitude: true, Longitude: true, AgeYears: true,
		},
		Rows: []types.PlantRecord{
			{Name: "P1", Owner: "O1", Country: "China", Capacity: f(8000), Latitude: f(41), Longitude: f(122), AgeYears: f(30)},
			{Name: "P2", Owner: "", Country: "USA", Capacity: nil, Latitude: f(41.6), Longitude: f(-87.3), AgeYears: nil},
		},
	}
	p := Profile(table)

	if p.RowCount != 2 || p.ColumnCount != 7 {
		t.Fatalf("shape = %d x %d", p.RowCount, p.ColumnCount)
	}

	byName := make(map[string]ColumnProfile)
	for _, c := range p.Columns {
		byName[c.Name] = c
	}

	owner := byName["Owner"]
	if owner.Type != "text" || owner.NonNull != 1 || owner.Null != 1 {
		t.Fatalf("owner profile = %+v", owner)
	}
	capacity := byName["Nominal crude steel capacity (ttpa)"]
	if capacity.Type != "float" || capacity.NonNull != 1 || capacity.Null != 1 {
		t.Fatalf("capacity profile = %+v", capacity)
	}
	country := byName["Country/Area_x"]
	if country.NonNull != 2 || country.Null != 0 {
		t.Fatalf("country profile = %+v", country)
	}

	if p.MemoryBytes <= 0 {
		t.Fatalf("memory bytes = %d", p.MemoryBytes)
	}
}

func TestProfileOnlyPresentColumns(t *testing.T) {
	table := &types.PlantTable{
		Columns: types.PlantColumns{Name: true, Country: true},
		Rows:    []types.PlantRecord{{Name: "P1", Country: "China"}},
	}
	p := Profile(table)
	if p.ColumnCount != 2 {
		t.Fatalf("columns = %d, want 2", p.ColumnCount)
	}
	for _, c := range p.Columns {
		if c.Name == "Owner" {
			t.Fatal("absent column should not be profiled")
		}
	}
}

func TestProfileEmptyTable(t *testing.T) {
	p := Profile(&types.PlantTable{Columns: types.PlantColumns{Name: true}})
	if p.RowCount != 0 || p.MemoryBytes != 0 {
		t.Fatalf("profile = %+v", p)
	}
	if p.Columns[0].NonNull != 0 || p.Columns[0].Null != 0 {
		t.Fatalf("column = %+v", p.Columns[0])
	}
}
