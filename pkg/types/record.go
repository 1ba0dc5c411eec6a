// Package types provides core data types for Plantaxis.
package types

// PlantRecord is one operating steel plant from the base dataset.
// Optional source columns map to pointer fields; a nil pointer means the
// value was absent (or unparseable) in the source row.
type PlantRecord struct {
	// Name is the plant name in English
	Name string `json:"name"`

	// Owner is the company operating the plant
	Owner string `json:"owner"`

	// Country is the country/area the plant operates in
	Country string `json:"country"`

	// Capacity is the nominal crude steel capacity in thousand tonnes per annum
	Capacity *float64 `json:"capacity,omitempty"`

	// Latitude and Longitude are the plant coordinates in degrees
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// AgeYears is the plant age in years
	AgeYears *float64 `json:"age_years,omitempty"`
}

// PlantColumns records which source columns were present in the plants file.
// Aggregations branch on presence instead of probing rows.
type PlantColumns struct {
	Name      bool `json:"name"`
	Owner     bool `json:"owner"`
	Country   bool `json:"country"`
	Capacity  bool `json:"capacity"`
	Latitude  bool `json:"latitude"`
	Longitude bool `json:"longitude"`
	AgeYears  bool `json:"age_years"`
}

// PlantTable is the loaded plants dataset. Rows keep source order; row
// identity is positional. The table is immutable after load; filters
// produce new tables.
type PlantTable struct {
	Rows    []PlantRecord `json:"rows"`
	Columns PlantColumns  `json:"columns"`
}

// CompanyAggregate is one owner's precomputed rollup from the company
// aggregation file.
type CompanyAggregate struct {
	Owner         string  `json:"owner"`
	TotalCapacity float64 `json:"total_capacity"`
	PlantCount    int     `json:"number_of_plants"`
	CountryCount  int     `json:"number_of_countries"`
}

// CompanyTable is the loaded company aggregation dataset.
type CompanyTable struct {
	Rows []CompanyAggregate `json:"rows"`
}

// EnvironmentalRecord is a plant joined with an environmental risk value
// and the join's left-hand-side coordinates. The join may be one-to-many,
// so the same plant can appear more than once.
type EnvironmentalRecord struct {
	PlantRecord

	// Value is the environmental risk score; higher means greater exposure
	Value *float64 `json:"value,omitempty"`

	// LatitudeLeft and LongitudeLeft are the join's left-side coordinates
	LatitudeLeft  *float64 `json:"latitude_left,omitempty"`
	LongitudeLeft *float64 `json:"longitude_left,omitempty"`

	// Region is the plant's region, when the join carried one
	Region *string `json:"region,omitempty"`
}

// EnvColumns records which source columns were present in the
// environmental file.
type EnvColumns struct {
	PlantColumns

	Value         bool `json:"value"`
	LatitudeLeft  bool `json:"latitude_left"`
	LongitudeLeft bool `json:"longitude_left"`
	Region        bool `json:"region"`
}

// EnvTable is the loaded environmental dataset.
type EnvTable struct {
	Rows    []EnvironmentalRecord `json:"rows"`
	Columns EnvColumns            `json:"columns"`
}
