package analytics

import (
	"testing"

	"github.com/plantaxis/plantaxis/pkg/types"
)

func geoTable() *types.PlantTable {
	return &types.PlantTable{
		Columns: types.PlantColumns{
			Name: true, Owner: true, Country: true,
			Capacity: true, Latitude: true, Longitude: true,
		},
		Rows: []types.PlantRecord{
			{Name: "P1", Owner: "O1", Country: "A", Capacity: f(100), Latitude: f(1), Longitude: f(2)},
			{Name: "P2", Owner: "O2", Country: "B", Capacity: nil, Latitude: f(3), Longitude: f(4)},
			{Name: "P3", Owner: "O1", Country: "A", Capacity: f(300), Latitude: f(5), Longitude: nil},
		},
	}
}

func TestGeographicViewDropsNullCoordinates(t *testing.T) {
	view, err := GeographicView(geoTable(), MapScatter)
	if err != nil {
		t.Fatal(err)
	}
	if !view.Available {
		t.Fatal("view should be available")
	}
	// One of three rows has a null longitude
	if len(view.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(view.Points))
	}
	if view.Points[0].Country != "A" || view.Points[1].Country != "B" {
		t.Fatalf("points = %+v", view.Points)
	}
}

func TestGeographicViewCapacityZeroFill(t *testing.T) {
	view, err := GeographicView(geoTable(), MapCapacity)
	if err != nil {
		t.Fatal(err)
	}
	// P2 has null capacity: zero-filled for sizing, not dropped
	if len(view.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(view.Points))
	}
	if view.Points[1].Capacity != 0 {
		t.Fatalf("null capacity should size as 0, got %v", view.Points[1].Capacity)
	}
	if view.Points[0].Owner != "O1" {
		t.Fatalf("capacity map keeps owner: %+v", view.Points[0])
	}
}

func TestGeographicViewDensityBareCoordinates(t *testing.T) {
	view, err := GeographicView(geoTable(), MapDensity)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range view.Points {
		if p.Name != "" || p.Owner != "" || p.Country != "" || p.Capacity != 0 {
			t.Fatalf("density points carry no encodings: %+v", p)
		}
	}
}

func TestGeographicViewMissingCoordinateColumns(t *testing.T) {
	table := &types.PlantTable{
		Columns: types.PlantColumns{Name: true},
		Rows:    []types.PlantRecord{{Name: "P1"}},
	}
	view, err := GeographicView(table, MapScatter)
	if err != nil {
		t.Fatal(err)
	}
	if view.Available || len(view.Points) != 0 {
		t.Fatalf("view without coordinates should be unavailable: %+v", view)
	}
}

func TestGeographicViewUnknownType(t *testing.T) {
	if _, err := GeographicView(geoTable(), MapType("globe")); err == nil {
		t.Fatal("expected error for unknown map type")
	}
}
