package storage

import (
	"context"
	"errors"
	"log"
	"path"
	"path/filepath"
)

// SyncDatasets downloads the known dataset files that exist under prefix
// into destDir. Missing files are skipped; the loader decides whether a
// missing file is fatal. Returns the file names that were downloaded.
func SyncDatasets(ctx context.Context, src DatasetSource, prefix, destDir string) ([]string, error) {
	var synced []string
	for _, name := range DatasetFiles {
		objectPath := path.Join(prefix, name)
		ok, err := src.Exists(ctx, objectPath)
		if err != nil {
			return synced, err
		}
		if !ok {
			continue
		}

		localPath := filepath.Join(destDir, name)
		if err := src.Download(ctx, objectPath, localPath); err != nil {
			if errors.Is(err, ErrObjectNotFound) {
				// Deleted between Exists and Download; treat as absent
				continue
			}
			return synced, err
		}
		log.Printf("Synced dataset %s -> %s", objectPath, localPath)
		synced = append(synced, name)
	}
	return synced, nil
}
