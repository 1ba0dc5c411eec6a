// Package dataset loads the dashboard's CSV datasets into immutable
// in-memory tables and memoizes them per directory.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang/snappy"

	apperrors "github.com/plantaxis/plantaxis/internal/errors"
	"github.com/plantaxis/plantaxis/pkg/types"
)

// Dataset file names inside the data directory.
const (
	PlantsFile    = "operating_plants.csv"
	EnvFile       = "merged_environmental_data.csv"
	CompaniesFile = "company_aggregation.csv"
)

// Source column headers, exactly as they appear in the CSV files.
const (
	colPlantName = "Plant name (English)_x"
	colOwner     = "Owner"
	colCountry   = "Country/Area_x"
	colCapacity  = "Nominal crude steel capacity (ttpa)"
	colLatitude  = "latitude"
	colLongitude = "longitude"
	colAgeYears  = "Plant age (years)"

	colValue         = "value"
	colLatitudeLeft  = "latitude_left"
	colLongitudeLeft = "longitude_left"
	colRegion        = "Region"

	colTotalCapacity = "total_capacity"
	colPlantCount    = "number_of_plants"
	colCountryCount  = "number_of_countries"
)

// FileReport describes one dataset file's load outcome.
type FileReport struct {
	Name        string `json:"name"`
	Present     bool   `json:"present"`
	Rows        int    `json:"rows"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// LoadReport summarizes a completed load pass.
type LoadReport struct {
	Dir      string       `json:"dir"`
	LoadedAt time.Time    `json:"loaded_at"`
	Files    []FileReport `json:"files"`
}

// rawFile keeps a dataset file's original bytes, snappy-compressed, plus
// its content fingerprint. The raw copy backs the full-CSV export and the
// reload fast path.
type rawFile struct {
	compressed  []byte
	fingerprint Fingerprint
	size        int
}

// Bundle holds one directory's loaded datasets. Plants is always non-nil
// after a successful load; Companies and Env are nil when their files are
// absent. Tables are immutable once loaded.
type Bundle struct {
	Plants    *types.PlantTable
	Companies *types.CompanyTable
	Env       *types.EnvTable

	Bounds types.CapacityRange // observed capacity range of the plant table
	Report LoadReport

	raw map[string]rawFile
}

// HasEnv reports whether the environmental dataset was present.
func (b *Bundle) HasEnv() bool { return b.Env != nil }

// HasCompanies reports whether the company aggregation dataset was present.
func (b *Bundle) HasCompanies() bool { return b.Companies != nil }

// RawCSV returns the original bytes of a loaded dataset file.
func (b *Bundle) RawCSV(name string) ([]byte, bool) {
	rf, ok := b.raw[name]
	if !ok {
		return nil, false
	}
	data, err := snappy.Decode(nil, rf.compressed)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Load reads the dataset directory into a Bundle. The plants file is
// required; its absence is fatal. The environmental and company files are
// optional and their absence only leaves the corresponding table nil.
//
// prev, when non-nil, is the previously loaded bundle for the same
// directory: files whose content fingerprints are unchanged reuse the
// already-parsed tables instead of being reparsed.
func Load(dir string, prev *Bundle) (*Bundle, error) {
	b := &Bundle{
		raw: make(map[string]rawFile),
		Report: LoadReport{
			Dir:      dir,
			LoadedAt: time.Now(),
		},
	}

	plantsRaw, err := readRaw(filepath.Join(dir, PlantsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewDatasetError(apperrors.CodeDatasetNotFound,
				fmt.Sprintf("%s not found in %s", PlantsFile, dir), nil)
		}
		return nil, apperrors.NewDatasetError(apperrors.CodeDatasetCorrupt,
			fmt.Sprintf("failed to read %s", PlantsFile), err)
	}
	b.raw[PlantsFile] = plantsRaw

	if t := reusePlants(prev, plantsRaw.fingerprint); t != nil {
		b.Plants = t
	} else {
		b.Plants, err = parsePlants(decompress(plantsRaw))
		if err != nil {
			return nil, apperrors.NewDatasetError(apperrors.CodeDatasetCorrupt,
				fmt.Sprintf("failed to parse %s", PlantsFile), err)
		}
	}
	b.Bounds = observedCapacityRange(b.Plants)
	b.Report.Files = append(b.Report.Files, FileReport{
		Name:        PlantsFile,
		Present:     true,
		Rows:        len(b.Plants.Rows),
		Fingerprint: plantsRaw.fingerprint.String(),
	})

	// Optional: environmental join
	if envRaw, err := readRaw(filepath.Join(dir, EnvFile)); err == nil {
		b.raw[EnvFile] = envRaw
		if t := reuseEnv(prev, envRaw.fingerprint); t != nil {
			b.Env = t
		} else {
			b.Env, err = parseEnv(decompress(envRaw))
			if err != nil {
				return nil, apperrors.NewDatasetError(apperrors.CodeDatasetCorrupt,
					fmt.Sprintf("failed to parse %s", EnvFile), err)
			}
		}
		b.Report.Files = append(b.Report.Files, FileReport{
			Name:        EnvFile,
			Present:     true,
			Rows:        len(b.Env.Rows),
			Fingerprint: envRaw.fingerprint.String(),
		})
	} else if os.IsNotExist(err) {
		b.Report.Files = append(b.Report.Files, FileReport{Name: EnvFile})
	} else {
		return nil, apperrors.NewDatasetError(apperrors.CodeDatasetCorrupt,
			fmt.Sprintf("failed to read %s", EnvFile), err)
	}

	// Optional: company aggregation
	if compRaw, err := readRaw(filepath.Join(dir, CompaniesFile)); err == nil {
		b.raw[CompaniesFile] = compRaw
		if t := reuseCompanies(prev, compRaw.fingerprint); t != nil {
			b.Companies = t
		} else {
			b.Companies, err = parseCompanies(decompress(compRaw))
			if err != nil {
				return nil, apperrors.NewDatasetError(apperrors.CodeDatasetCorrupt,
					fmt.Sprintf("failed to parse %s", CompaniesFile), err)
			}
		}
		b.Report.Files = append(b.Report.Files, FileReport{
			Name:        CompaniesFile,
			Present:     true,
			Rows:        len(b.Companies.Rows),
			Fingerprint: compRaw.fingerprint.String(),
		})
	} else if os.IsNotExist(err) {
		b.Report.Files = append(b.Report.Files, FileReport{Name: CompaniesFile})
	} else {
		return nil, apperrors.NewDatasetError(apperrors.CodeDatasetCorrupt,
			fmt.Sprintf("failed to read %s", CompaniesFile), err)
	}

	return b, nil
}

func readRaw(path string) (rawFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rawFile{}, err
	}
	return rawFile{
		compressed:  snappy.Encode(nil, data),
		fingerprint: FingerprintBytes(data),
		size:        len(data),
	}, nil
}

func decompress(rf rawFile) []byte {
	data, err := snappy.Decode(nil, rf.compressed)
	if err != nil {
		// The compressed copy was produced in this process; a decode
		// failure means memory corruption, not bad input.
		panic(fmt.Sprintf("dataset: snappy decode failed: %v", err))
	}
	return data
}

func reusePlants(prev *Bundle, fp Fingerprint) *types.PlantTable {
	if prev == nil {
		return nil
	}
	if rf, ok := prev.raw[PlantsFile]; ok && rf.fingerprint == fp {
		return prev.Plants
	}
	return nil
}

func reuseEnv(prev *Bundle, fp Fingerprint) *types.EnvTable {
	if prev == nil || prev.Env == nil {
		return nil
	}
	if rf, ok := prev.raw[EnvFile]; ok && rf.fingerprint == fp {
		return prev.Env
	}
	return nil
}

func reuseCompanies(prev *Bundle, fp Fingerprint) *types.CompanyTable {
	if prev == nil || prev.Companies == nil {
		return nil
	}
	if rf, ok := prev.raw[CompaniesFile]; ok && rf.fingerprint == fp {
		return prev.Companies
	}
	return nil
}

// header maps column names to indices for one CSV file.
type header map[string]int

func (h header) index(name string) int {
	if i, ok := h[name]; ok {
		return i
	}
	return -1
}

func readCSV(data []byte) (header, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // tolerate ragged rows

	head, err := r.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, nil, err
	}

	h := make(header, len(head))
	for i, name := range head {
		h[strings.TrimSpace(name)] = i
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, rec)
	}
	return h, rows, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// floatField parses an optional numeric cell. Empty or unparseable cells
// become nil, matching the loader's no-validation contract.
func floatField(row []string, idx int) *float64 {
	s := field(row, idx)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

func intField(row []string, idx int) int {
	if v := floatField(row, idx); v != nil {
		return int(*v)
	}
	return 0
}

func parsePlants(data []byte) (*types.PlantTable, error) {
	h, rows, err := readCSV(data)
	if err != nil {
		return nil, err
	}

	idxName := h.index(colPlantName)
	idxOwner := h.index(colOwner)
	idxCountry := h.index(colCountry)
	idxCap := h.index(colCapacity)
	idxLat := h.index(colLatitude)
	idxLon := h.index(colLongitude)
	idxAge := h.index(colAgeYears)

	t := &types.PlantTable{
		Columns: types.PlantColumns{
			Name:      idxName >= 0,
			Owner:     idxOwner >= 0,
			Country:   idxCountry >= 0,
			Capacity:  idxCap >= 0,
			Latitude:  idxLat >= 0,
			Longitude: idxLon >= 0,
			AgeYears:  idxAge >= 0,
		},
		Rows: make([]types.PlantRecord, 0, len(rows)),
	}

	for _, row := range rows {
		t.Rows = append(t.Rows, types.PlantRecord{
			Name:      field(row, idxName),
			Owner:     field(row, idxOwner),
			Country:   field(row, idxCountry),
			Capacity:  floatField(row, idxCap),
			Latitude:  floatField(row, idxLat),
			Longitude: floatField(row, idxLon),
			AgeYears:  floatField(row, idxAge),
		})
	}
	return t, nil
}

func parseEnv(data []byte) (*types.EnvTable, error) {
	h, rows, err := readCSV(data)
	if err != nil {
		return nil, err
	}

	idxName := h.index(colPlantName)
	idxOwner := h.index(colOwner)
	idxCountry := h.index(colCountry)
	idxCap := h.index(colCapacity)
	idxLat := h.index(colLatitude)
	idxLon := h.index(colLongitude)
	idxAge := h.index(colAgeYears)
	idxValue := h.index(colValue)
	idxLatL := h.index(colLatitudeLeft)
	idxLonL := h.index(colLongitudeLeft)
	idxRegion := h.index(colRegion)

	t := &types.EnvTable{
		Columns: types.EnvColumns{
			PlantColumns: types.PlantColumns{
				Name:      idxName >= 0,
				Owner:     idxOwner >= 0,
				Country:   idxCountry >= 0,
				Capacity:  idxCap >= 0,
				Latitude:  idxLat >= 0,
				Longitude: idxLon >= 0,
				AgeYears:  idxAge >= 0,
			},
			Value:         idxValue >= 0,
			LatitudeLeft:  idxLatL >= 0,
			LongitudeLeft: idxLonL >= 0,
			Region:        idxRegion >= 0,
		},
		Rows: make([]types.EnvironmentalRecord, 0, len(rows)),
	}

	for _, row := range rows {
		rec := types.EnvironmentalRecord{
			PlantRecord: types.PlantRecord{
				Name:      field(row, idxName),
				Owner:     field(row, idxOwner),
				Country:   field(row, idxCountry),
				Capacity:  floatField(row, idxCap),
				Latitude:  floatField(row, idxLat),
				Longitude: floatField(row, idxLon),
				AgeYears:  floatField(row, idxAge),
			},
			Value:         floatField(row, idxValue),
			LatitudeLeft:  floatField(row, idxLatL),
			LongitudeLeft: floatField(row, idxLonL),
		}
		if region := field(row, idxRegion); region != "" {
			rec.Region = &region
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func parseCompanies(data []byte) (*types.CompanyTable, error) {
	h, rows, err := readCSV(data)
	if err != nil {
		return nil, err
	}

	idxOwner := h.index(colOwner)
	idxCap := h.index(colTotalCapacity)
	idxPlants := h.index(colPlantCount)
	idxCountries := h.index(colCountryCount)

	t := &types.CompanyTable{Rows: make([]types.CompanyAggregate, 0, len(rows))}
	for _, row := range rows {
		agg := types.CompanyAggregate{
			Owner:        field(row, idxOwner),
			PlantCount:   intField(row, idxPlants),
			CountryCount: intField(row, idxCountries),
		}
		if v := floatField(row, idxCap); v != nil {
			agg.TotalCapacity = *v
		}
		t.Rows = append(t.Rows, agg)
	}
	return t, nil
}

// observedCapacityRange returns the min/max capacity over non-null rows,
// or the zero range when no row carries a capacity.
func observedCapacityRange(t *types.PlantTable) types.CapacityRange {
	var r types.CapacityRange
	seen := false
	for _, row := range t.Rows {
		if row.Capacity == nil {
			continue
		}
		if !seen {
			r.Min, r.Max = *row.Capacity, *row.Capacity
			seen = true
			continue
		}
		if *row.Capacity < r.Min {
			r.Min = *row.Capacity
		}
		if *row.Capacity > r.Max {
			r.Max = *row.Capacity
		}
	}
	return r
}
