package analytics

import (
	apperrors "github.com/plantaxis/plantaxis/internal/errors"
	"github.com/plantaxis/plantaxis/pkg/types"
)

// MapType selects a geographic view variant.
type MapType string

const (
	// MapScatter is one point per plant, colored by country.
	MapScatter MapType = "scatter"
	// MapCapacity is one point per plant, sized by capacity, colored by owner.
	MapCapacity MapType = "capacity"
	// MapDensity is a coordinate density estimate with no size/color encoding.
	MapDensity MapType = "density"
)

// MapPoint is one renderable point. Which fields carry meaning depends on
// the map type; the adapter picks the encodings.
type MapPoint struct {
	Name      string  `json:"name,omitempty"`
	Owner     string  `json:"owner,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Capacity  float64 `json:"capacity"`
}

// GeoView is the output of a geographic aggregation.
type GeoView struct {
	Type MapType `json:"type"`

	// Available is false when the table lacks coordinate columns; the
	// adapter shows a warning instead of a map.
	Available bool `json:"available"`

	Points []MapPoint `json:"points"`
}

// GeographicView builds map input from the filtered plant table. Rows
// with a missing latitude or longitude are dropped. Null capacities are
// zero-filled for display sizing only; an active capacity filter has
// already excluded them upstream.
func GeographicView(t *types.PlantTable, mapType MapType) (GeoView, error) {
	switch mapType {
	case MapScatter, MapCapacity, MapDensity:
	default:
		return GeoView{}, apperrors.New(apperrors.ErrCategoryAggregate,
			apperrors.CodeUnknownMapType, string(mapType))
	}

	view := GeoView{Type: mapType}
	if !t.Columns.Latitude || !t.Columns.Longitude {
		return view, nil
	}
	view.Available = true
	view.Points = make([]MapPoint, 0, len(t.Rows))

	for _, r := range t.Rows {
		if r.Latitude == nil || r.Longitude == nil {
			continue
		}

		p := MapPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}
		switch mapType {
		case MapScatter:
			p.Name = r.Name
			p.Owner = r.Owner
			p.Country = r.Country
			if r.Capacity != nil {
				p.Capacity = *r.Capacity
			}
		case MapCapacity:
			p.Name = r.Name
			p.Owner = r.Owner
			if r.Capacity != nil {
				p.Capacity = *r.Capacity
			}
		case MapDensity:
			// Coordinates only
		}
		view.Points = append(view.Points, p)
	}
	return view, nil
}
