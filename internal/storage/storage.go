// Package storage provides dataset source abstractions. The dashboard's
// datasets are plain CSV files; a source knows how to fetch them into the
// local data directory before the loader reads them.
package storage

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrDownloadFailed = errors.New("download failed")
)

// DatasetSource abstracts where dataset files come from.
// Implementations include S3 and the local filesystem.
type DatasetSource interface {
	// Download fetches an object into a local file.
	// objectPath is the source path in the backing store.
	// localPath is the destination path on the local filesystem.
	Download(ctx context.Context, objectPath, localPath string) error

	// Exists checks if an object exists in the backing store.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// ListObjects returns all object paths under the given prefix.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// DatasetFiles lists the known dataset file names, required first.
// The loader treats the first entry as mandatory and the rest as optional.
var DatasetFiles = []string{
	"operating_plants.csv",
	"merged_environmental_data.csv",
	"company_aggregation.csv",
}
