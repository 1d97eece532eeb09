package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

func writeArtifact(t *testing.T, dir, name, content string, mode os.FileMode) m.Path {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), mode))

	return m.Path(path)
}

func TestBackupNaming(t *testing.T) {
	at := time.UnixMilli(1756100000000)
	manager := NewBackupManagerAt(NewLocalBundleFSAdapter(), func() time.Time { return at })

	dir := t.TempDir()
	path := writeArtifact(t, dir, "bundle.js", "content", 0o644)

	backupPath, err := manager.Backup(path)
	require.NoError(t, err)

	assert.Equal(t, m.Path(string(path)+".backup.1756100000000"), backupPath)

	data, err := os.ReadFile(string(backupPath))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestListBackupsNewestFirst(t *testing.T) {
	fs := NewLocalBundleFSAdapter()

	dir := t.TempDir()
	path := writeArtifact(t, dir, "bundle.js", "v3", 0o644)

	clock := time.UnixMilli(1756100000000)
	manager := NewBackupManagerAt(fs, func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})

	first, err := manager.Backup(path)
	require.NoError(t, err)

	second, err := manager.Backup(path)
	require.NoError(t, err)

	// An unrelated artifact's backups must not leak into the listing.
	other := writeArtifact(t, dir, "other.js", "x", 0o644)
	_, err = manager.Backup(other)
	require.NoError(t, err)

	backups, err := manager.ListBackups(path)
	require.NoError(t, err)

	assert.Equal(t, []m.Path{second, first}, backups)

	latest, ok := manager.FindLatestBackup(path)
	require.True(t, ok)
	assert.Equal(t, second, latest)
}

func TestFindLatestBackupMissing(t *testing.T) {
	manager := NewBackupManager(NewLocalBundleFSAdapter())

	_, ok := manager.FindLatestBackup(m.Path(filepath.Join(t.TempDir(), "bundle.js")))
	assert.False(t, ok)
}

func TestRestoreIsVerbatim(t *testing.T) {
	manager := NewBackupManager(NewLocalBundleFSAdapter())

	dir := t.TempDir()
	path := writeArtifact(t, dir, "cli", "original bytes", 0o755)

	backupPath, err := manager.Backup(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(string(path), []byte("patched bytes"), 0o755))

	require.NoError(t, manager.Restore(path, backupPath))

	data, err := os.ReadFile(string(path))
	require.NoError(t, err)
	assert.Equal(t, "original bytes", string(data))

	info, err := os.Stat(string(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}
