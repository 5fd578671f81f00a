// Package snapshot versions generated wrappers: it runs a generation pass,
// records the declaration dump in the manifest and can diff the current
// declarations against the previous snapshot.
package snapshot

import (
	"context"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/jerer/cythonwrapper/pkg/action/generate"
	"github.com/jerer/cythonwrapper/pkg/config"
	"github.com/jerer/cythonwrapper/pkg/manifest"
)

// Generate runs a wrapper pass for cfg and records the resulting declaration
// dump in the manifest under the given version label. It returns the dump path.
func Generate(ctx context.Context, cfg *config.Config, manifestPath, version string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	res, err := generate.Run(ctx, cfg)
	if err != nil {
		return "", err
	}
	if len(res.Files) == 0 {
		return "", fmt.Errorf("generation produced no files")
	}

	// The declaration tree dump is written first and is the file worth
	// diffing across versions.
	dump := res.Files[0]
	m.AddSnapshot(manifest.Snapshot{Module: cfg.ModuleName, Version: version, File: dump})

	if err := m.Save(manifestPath); err != nil {
		return "", err
	}

	return dump, nil
}

// List returns all snapshots recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// DiffCurrentWithPrevious loads the manifest, locates the current and
// previous declaration dumps, and returns a textual diff of their contents.
func DiffCurrentWithPrevious(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", err
	}

	if m.CurrentVersion == "" || m.PreviousVersion == "" {
		return "", fmt.Errorf("no current/previous snapshots recorded")
	}

	currentPath := m.SnapshotFile(m.CurrentVersion)
	previousPath := m.SnapshotFile(m.PreviousVersion)

	if currentPath == "" || previousPath == "" {
		return "", fmt.Errorf("snapshot files not found in manifest")
	}

	current, err := os.ReadFile(currentPath)
	if err != nil {
		return "", fmt.Errorf("read current snapshot: %w", err)
	}

	previous, err := os.ReadFile(previousPath)
	if err != nil {
		return "", fmt.Errorf("read previous snapshot: %w", err)
	}

	return cmp.Diff(string(previous), string(current)), nil
}
