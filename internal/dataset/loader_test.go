package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/plantaxis/plantaxis/internal/errors"
)

const plantsCSV = `Plant name (English)_x,Owner,Country/Area_x,Nominal crude steel capacity (ttpa),latitude,longitude,Plant age (years)
Anshan Works,Ansteel,China,8000,41.1,122.9,35
Gary Works,US Steel,United States,5600,41.6,-87.3,
Duisburg Works,Thyssenkrupp,Germany,,51.4,6.7,50
Small Mill,US Steel,United States,300,,-87.0,12
`

const envCSV = `Plant name (English)_x,Owner,Country/Area_x,Nominal crude steel capacity (ttpa),value,latitude_left,longitude_left,Region
Anshan Works,Ansteel,China,8000,10,41.1,122.9,Asia
Gary Works,US Steel,United States,5600,20,41.6,-87.3,Americas
Duisburg Works,Thyssenkrupp,Germany,2000,30,51.4,6.7,Europe
Small Mill,US Steel,United States,300,40,41.5,-87.0,Americas
`

const companiesCSV = `Owner,total_capacity,number_of_plants,number_of_countries
Ansteel,8000,1,1
US Steel,5900,2,1
Thyssenkrupp,2000,1,1
`

func writeDataset(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func fullDataset(t *testing.T) string {
	return writeDataset(t, map[string]string{
		PlantsFile:    plantsCSV,
		EnvFile:       envCSV,
		CompaniesFile: companiesCSV,
	})
}

func TestLoadFullBundle(t *testing.T) {
	dir := fullDataset(t)

	b, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(b.Plants.Rows) != 4 {
		t.Fatalf("plants rows = %d, want 4", len(b.Plants.Rows))
	}
	if !b.HasEnv() || len(b.Env.Rows) != 4 {
		t.Fatal("env table should be present with 4 rows")
	}
	if !b.HasCompanies() || len(b.Companies.Rows) != 3 {
		t.Fatal("company table should be present with 3 rows")
	}

	// Null handling: empty capacity and age become nil
	duisburg := b.Plants.Rows[2]
	if duisburg.Capacity != nil {
		t.Errorf("empty capacity should be nil, got %v", *duisburg.Capacity)
	}
	gary := b.Plants.Rows[1]
	if gary.AgeYears != nil {
		t.Errorf("empty age should be nil, got %v", *gary.AgeYears)
	}
	if gary.Capacity == nil || *gary.Capacity != 5600 {
		t.Errorf("gary capacity = %v", gary.Capacity)
	}

	// Observed capacity range from non-null rows
	if b.Bounds.Min != 300 || b.Bounds.Max != 8000 {
		t.Errorf("bounds = %+v, want [300, 8000]", b.Bounds)
	}

	// Env extras
	if b.Env.Rows[0].Region == nil || *b.Env.Rows[0].Region != "Asia" {
		t.Errorf("region = %v", b.Env.Rows[0].Region)
	}
	if !b.Env.Columns.Value || !b.Env.Columns.Capacity {
		t.Error("env column flags should mark value and capacity present")
	}
}

func TestLoadMissingRequiredFileIsFatal(t *testing.T) {
	dir := writeDataset(t, map[string]string{CompaniesFile: companiesCSV})

	_, err := Load(dir, nil)
	if err == nil {
		t.Fatal("expected error for missing plants file")
	}
	want := apperrors.New(apperrors.ErrCategoryDataset, apperrors.CodeDatasetNotFound, "")
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want DATASET_NOT_FOUND", err)
	}
}

func TestLoadMissingOptionalFilesDegrade(t *testing.T) {
	dir := writeDataset(t, map[string]string{PlantsFile: plantsCSV})

	b, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.HasEnv() || b.HasCompanies() {
		t.Fatal("optional tables should be nil when files are absent")
	}

	var present int
	for _, f := range b.Report.Files {
		if f.Present {
			present++
		}
	}
	if present != 1 {
		t.Fatalf("report present count = %d, want 1", present)
	}
}

func TestLoadMissingColumnsFlagged(t *testing.T) {
	// Plants file with no coordinates and no capacity
	csv := "Plant name (English)_x,Owner,Country/Area_x\nA,O1,X\nB,O2,Y\n"
	dir := writeDataset(t, map[string]string{PlantsFile: csv})

	b, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cols := b.Plants.Columns
	if cols.Capacity || cols.Latitude || cols.Longitude || cols.AgeYears {
		t.Fatalf("absent columns should be flagged false: %+v", cols)
	}
	if !cols.Name || !cols.Owner || !cols.Country {
		t.Fatalf("present columns should be flagged true: %+v", cols)
	}
	if b.Bounds.Min != 0 || b.Bounds.Max != 0 {
		t.Fatalf("bounds without capacity column = %+v, want zero", b.Bounds)
	}
}

func TestRawCSVRoundTrip(t *testing.T) {
	dir := fullDataset(t)

	b, err := Load(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	raw, ok := b.RawCSV(PlantsFile)
	if !ok {
		t.Fatal("raw plants csv should be retained")
	}
	if string(raw) != plantsCSV {
		t.Fatal("raw csv does not round-trip through snappy")
	}
	if _, ok := b.RawCSV("nope.csv"); ok {
		t.Fatal("unknown file should not have raw bytes")
	}
}

func TestCacheMemoizes(t *testing.T) {
	dir := fullDataset(t)
	c := NewCache()

	b1, err := c.Get(dir)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := c.Get(dir)
	if err != nil {
		t.Fatal(err)
	}
	if b1 != b2 {
		t.Fatal("second Get should return the memoized bundle")
	}
}

func TestCacheReloadReusesUnchangedTables(t *testing.T) {
	dir := fullDataset(t)
	c := NewCache()

	b1, err := c.Get(dir)
	if err != nil {
		t.Fatal(err)
	}

	b2, err := c.Reload(dir)
	if err != nil {
		t.Fatal(err)
	}
	if b1 == b2 {
		t.Fatal("reload should produce a fresh bundle")
	}
	if b1.Plants != b2.Plants {
		t.Fatal("unchanged plants table should be reused across reload")
	}

	// Change the plants file; reload must reparse it
	changed := plantsCSV + "New Mill,Ansteel,China,1000,40.0,120.0,1\n"
	if err := os.WriteFile(filepath.Join(dir, PlantsFile), []byte(changed), 0644); err != nil {
		t.Fatal(err)
	}

	b3, err := c.Reload(dir)
	if err != nil {
		t.Fatal(err)
	}
	if b3.Plants == b2.Plants {
		t.Fatal("changed plants table should be reparsed")
	}
	if len(b3.Plants.Rows) != 5 {
		t.Fatalf("reloaded rows = %d, want 5", len(b3.Plants.Rows))
	}
	if b3.Env != b2.Env {
		t.Fatal("untouched env table should still be reused")
	}
}

func TestCacheInvalidate(t *testing.T) {
	dir := fullDataset(t)
	c := NewCache()

	b1, err := c.Get(dir)
	if err != nil {
		t.Fatal(err)
	}
	c.Invalidate(dir)

	b2, err := c.Get(dir)
	if err != nil {
		t.Fatal(err)
	}
	if b1 == b2 {
		t.Fatal("Get after Invalidate should load a fresh bundle")
	}
}

func TestFingerprintStability(t *testing.T) {
	a := FingerprintBytes([]byte("hello"))
	b := FingerprintBytes([]byte("hello"))
	cfp := FingerprintBytes([]byte("world"))

	if a != b {
		t.Fatal("identical bytes should fingerprint identically")
	}
	if a == cfp {
		t.Fatal("different bytes should fingerprint differently")
	}
	if len(a.String()) != 32 {
		t.Fatalf("fingerprint hex length = %d, want 32", len(a.String()))
	}
}
