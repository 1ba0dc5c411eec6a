package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalSourceDownload(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	content := []byte("Owner,total_capacity\nAcme Steel,1200\n")
	if err := os.WriteFile(filepath.Join(srcDir, "company_aggregation.csv"), content, 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewLocalSource(srcDir)
	if err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dstDir, "company_aggregation.csv")
	if err := src.Download(context.Background(), "company_aggregation.csv", dst); err != nil {
		t.Fatalf("Download: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("downloaded content mismatch: %q", got)
	}
}

func TestLocalSourceDownloadMissing(t *testing.T) {
	src, err := NewLocalSource(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	err = src.Download(context.Background(), "nope.csv", filepath.Join(t.TempDir(), "nope.csv"))
	if err != ErrObjectNotFound {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestLocalSourceExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "operating_plants.csv"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewLocalSource(dir)
	if err != nil {
		t.Fatal(err)
	}

	ok, err := src.Exists(context.Background(), "operating_plants.csv")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true, nil", ok, err)
	}
	ok, err = src.Exists(context.Background(), "missing.csv")
	if err != nil || ok {
		t.Fatalf("Exists = %v, %v; want false, nil", ok, err)
	}
}

func TestLocalSourceList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"operating_plants.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	src, err := NewLocalSource(dir)
	if err != nil {
		t.Fatal(err)
	}

	objects, err := src.ListObjects(context.Background(), "operating")
	if err != nil {
		t.Fatal(err)
	}
	if len(objects) != 1 || objects[0] != "operating_plants.csv" {
		t.Fatalf("ListObjects = %v", objects)
	}
}

func TestSyncDatasets(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	// Only the required file and one optional file present
	for _, name := range []string{"operating_plants.csv", "company_aggregation.csv"} {
		if err := os.WriteFile(filepath.Join(srcDir, name), []byte("h\nv\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	src, err := NewLocalSource(srcDir)
	if err != nil {
		t.Fatal(err)
	}

	synced, err := SyncDatasets(context.Background(), src, "", dstDir)
	if err != nil {
		t.Fatalf("SyncDatasets: %v", err)
	}
	if len(synced) != 2 {
		t.Fatalf("synced = %v, want 2 files", synced)
	}
	if _, err := os.Stat(filepath.Join(dstDir, "merged_environmental_data.csv")); !os.IsNotExist(err) {
		t.Fatal("absent optional file should not be synced")
	}
}
