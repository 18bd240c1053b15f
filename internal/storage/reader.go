package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoIndex is returned when the output directory holds no index.json.
var ErrNoIndex = errors.New("no index found")

// ReadManifest loads index.json from outDir.
func ReadManifest(outDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(outDir, IndexFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w in %s", ErrNoIndex, outDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}
	if m.Schema != SchemaVersion {
		return nil, fmt.Errorf("unsupported index schema %q (want %q)", m.Schema, SchemaVersion)
	}
	return &m, nil
}
