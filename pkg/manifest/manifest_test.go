package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingManifest(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Empty(t, m.Snapshots)
	require.Empty(t, m.CurrentVersion)
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "manifest.yaml")

	m := &Manifest{}
	m.AddSnapshot(Snapshot{Module: "geometry", Version: "v1", File: "out/geometry.json"})
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestAddSnapshotRotatesVersions(t *testing.T) {
	m := &Manifest{}

	m.AddSnapshot(Snapshot{Module: "geometry", Version: "v1", File: "a.json"})
	require.Equal(t, "v1", m.CurrentVersion)
	require.Empty(t, m.PreviousVersion)

	m.AddSnapshot(Snapshot{Module: "geometry", Version: "v2", File: "b.json"})
	require.Equal(t, "v2", m.CurrentVersion)
	require.Equal(t, "v1", m.PreviousVersion)
	require.Len(t, m.Snapshots, 2)

	// Same module and version replaces the entry instead of duplicating it.
	m.AddSnapshot(Snapshot{Module: "geometry", Version: "v2", File: "c.json"})
	require.Len(t, m.Snapshots, 2)
	require.Equal(t, "c.json", m.SnapshotFile("v2"))
	require.Equal(t, "a.json", m.SnapshotFile("v1"))
	require.Empty(t, m.SnapshotFile("v3"))
}
