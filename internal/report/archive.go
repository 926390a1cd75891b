// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/threat-digest/pkg/types"
)

const metadataDir = "metadata"

// Archive writes a YAML record of a processed digest under
// <digests_dir>/metadata/week-W-YYYY.yaml and returns the path.
func Archive(cfg types.ArchiveConfig, d types.Digest) (string, error) {
	dir := filepath.Join(cfg.DigestsDir, metadataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshaling digest record: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("week-%d-%d.yaml", d.Week, d.Year))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing digest record: %w", err)
	}
	return path, nil
}

// ReadArchived loads a previously archived digest record.
func ReadArchived(path string) (*types.Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d types.Digest
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing digest record %s: %w", path, err)
	}
	return &d, nil
}
