package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/plantaxis/plantaxis/pkg/types"
)

// WritePlantsCSV renders a plant table back to CSV with the source
// file's header names. Only columns present in the loaded file are
// written; null cells come out empty, matching the input convention.
func WritePlantsCSV(w io.Writer, t *types.PlantTable) error {
	type column struct {
		header  string
		present bool
		value   func(*types.PlantRecord) string
	}
	columns := []column{
		{colPlantName, t.Columns.Name,
			func(r *types.PlantRecord) string { return r.Name }},
		{colOwner, t.Columns.Owner,
			func(r *types.PlantRecord) string { return r.Owner }},
		{colCountry, t.Columns.Country,
			func(r *types.PlantRecord) string { return r.Country }},
		{colCapacity, t.Columns.Capacity,
			func(r *types.PlantRecord) string { return formatFloat(r.Capacity) }},
		{colLatitude, t.Columns.Latitude,
			func(r *types.PlantRecord) string { return formatFloat(r.Latitude) }},
		{colLongitude, t.Columns.Longitude,
			func(r *types.PlantRecord) string { return formatFloat(r.Longitude) }},
		{colAgeYears, t.Columns.AgeYears,
			func(r *types.PlantRecord) string { return formatFloat(r.AgeYears) }},
	}

	var present []column
	for _, c := range columns {
		if c.present {
			present = append(present, c)
		}
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(present))
	for i, c := range present {
		header[i] = c.header
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(present))
	for i := range t.Rows {
		for j, c := range present {
			row[j] = c.value(&t.Rows[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
