package adapter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// backupInfix sits between the artifact name and the millisecond timestamp.
const backupInfix = ".backup."

// BackupManager snapshots artifacts before mutation and restores them on
// request. Backups are plain byte-for-byte copies named
// `<path>.backup.<unix-millis>`; millisecond timestamps share a fixed width
// for the foreseeable future, so lexical order equals chronological order.
type BackupManager struct {
	fs  BundleFSAdapter
	now func() time.Time
}

// NewBackupManager constructs a BackupManager over the given filesystem.
func NewBackupManager(fs BundleFSAdapter) *BackupManager {
	return &BackupManager{fs: fs, now: time.Now}
}

// NewBackupManagerAt pins the clock, for tests that need stable names.
func NewBackupManagerAt(fs BundleFSAdapter, now func() time.Time) *BackupManager {
	return &BackupManager{fs: fs, now: now}
}

// Backup copies the artifact aside and returns the backup path.
func (b *BackupManager) Backup(path m.Path) (m.Path, error) {
	backupPath := m.Path(fmt.Sprintf("%s%s%d", path, backupInfix, b.now().UnixMilli()))

	if err := b.fs.CopyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("backing up %s: %w", path, err)
	}

	return backupPath, nil
}

// ListBackups returns the artifact's backups, newest first.
func (b *BackupManager) ListBackups(path m.Path) ([]m.Path, error) {
	dir := DirOf(path)
	prefix := filepath.Base(string(path)) + backupInfix

	names, err := b.fs.ListDir(dir)
	if err != nil {
		return nil, err
	}

	var matches []string

	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(matches)))

	backups := make([]m.Path, 0, len(matches))
	for _, name := range matches {
		backups = append(backups, m.Path(filepath.Join(string(dir), name)))
	}

	return backups, nil
}

// FindLatestBackup returns the most recent backup for the artifact, if any.
func (b *BackupManager) FindLatestBackup(path m.Path) (m.Path, bool) {
	backups, err := b.ListBackups(path)
	if err != nil || len(backups) == 0 {
		return "", false
	}

	return backups[0], true
}

// Restore copies a backup over the artifact verbatim. No transformation is
// ever applied to backup contents.
func (b *BackupManager) Restore(path, backupPath m.Path) error {
	if err := b.fs.CopyFile(backupPath, path); err != nil {
		return fmt.Errorf("restoring %s from %s: %w", path, backupPath, err)
	}

	return nil
}
