package analytics

import (
	"github.com/plantaxis/plantaxis/pkg/types"
)

// ColumnProfile describes one column of the filtered plant table.
type ColumnProfile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NonNull int    `json:"non_null"`
	Null    int    `json:"null"`
}

// TableProfile is the raw-data tab's dataset information block.
type TableProfile struct {
	RowCount    int             `json:"row_count"`
	ColumnCount int             `json:"column_count"`
	MemoryBytes int64           `json:"memory_bytes"`
	Columns     []ColumnProfile `json:"columns"`
}

// recordOverhead approximates the fixed in-memory footprint of one
// PlantRecord: three string headers, four float pointers.
const recordOverhead = 3*16 + 4*8

// Profile reports shape, approximate in-memory size, and per-column null
// counts for the filtered plant table. Only columns present in the
// source file are profiled. Empty strings count as nulls, matching the
// loader's treatment of absent cells.
func Profile(t *types.PlantTable) TableProfile {
	p := TableProfile{RowCount: len(t.Rows)}

	type column struct {
		name    string
		typ     string
		present bool
		nonNull func(*types.PlantRecord) bool
	}
	columns := []column{
		{"Plant name (English)_x", "text", t.Columns.Name,
			func(r *types.PlantRecord) bool { return r.Name != "" }},
		{"Owner", "text", t.Columns.Owner,
			func(r *types.PlantRecord) bool { return r.Owner != "" }},
		{"Country/Area_x", "text", t.Columns.Country,
			func(r *types.PlantRecord) bool { return r.Country != "" }},
		{"Nominal crude steel capacity (ttpa)", "float", t.Columns.Capacity,
			func(r *types.PlantRecord) bool { return r.Capacity != nil }},
		{"latitude", "float", t.Columns.Latitude,
			func(r *types.PlantRecord) bool { return r.Latitude != nil }},
		{"longitude", "float", t.Columns.Longitude,
			func(r *types.PlantRecord) bool { return r.Longitude != nil }},
		{"Plant age (years)", "float", t.Columns.AgeYears,
			func(r *types.PlantRecord) bool { return r.AgeYears != nil }},
	}

	for _, col := range columns {
		if !col.present {
			continue
		}
		cp := ColumnProfile{Name: col.name, Type: col.typ}
		for i := range t.Rows {
			if col.nonNull(&t.Rows[i]) {
				cp.NonNull++
			} else {
				cp.Null++
			}
		}
		p.Columns = append(p.Columns, cp)
	}
	p.ColumnCount = len(p.Columns)

	var bytes int64
	for i := range t.Rows {
		r := &t.Rows[i]
		bytes += recordOverhead
		bytes += int64(len(r.Name) + len(r.Owner) + len(r.Country))
		for _, f := range []*float64{r.Capacity, r.Latitude, r.Longitude, r.AgeYears} {
			if f != nil {
				bytes += 8
			}
		}
	}
	p.MemoryBytes = bytes

	return p
}
