// Package adapter contains infrastructure adapters for the gatewrench CLI.
package adapter

import (
	"io"
	"os"
	"path/filepath"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// BundleFSAdapter abstracts the filesystem operations the domain layer needs
// to resolve, back up and rewrite artifacts. It hides direct `os` access so
// patch logic can be tested without touching the disk.
type BundleFSAdapter interface {
	// ReadFile loads a file from disk and returns its raw bytes.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// CopyFile copies src to dst byte for byte, preserving the source mode
	// so patched binaries stay executable.
	CopyFile(src, dst m.Path) error

	// FileInfo returns metadata for a path so callers can check existence
	// or distinguish files from directories.
	FileInfo(path m.Path) (os.FileInfo, error)

	// ListDir returns the entry names of a directory.
	ListDir(dir m.Path) ([]string, error)
}

// LocalBundleFSAdapter is the os-backed implementation of BundleFSAdapter.
type LocalBundleFSAdapter struct{}

// NewLocalBundleFSAdapter constructs a LocalBundleFSAdapter ready to be wired
// into the workflow.
func NewLocalBundleFSAdapter() *LocalBundleFSAdapter {
	return &LocalBundleFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalBundleFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalBundleFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// CopyFile copies a single file verbatim, carrying over the source mode.
func (a *LocalBundleFSAdapter) CopyFile(src, dst m.Path) error {
	// #nosec G304 - src is a resolved artifact path, not raw user input
	sourceFile, err := os.Open(string(src))
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	info, err := sourceFile.Stat()
	if err != nil {
		return err
	}

	// #nosec G304 - dst is derived from the artifact path
	destFile, err := os.Create(string(dst))
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(string(dst), info.Mode())
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalBundleFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// ListDir returns the names of the entries in dir.
func (a *LocalBundleFSAdapter) ListDir(dir m.Path) ([]string, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names, nil
}

// DirOf returns the directory containing path.
func DirOf(path m.Path) m.Path {
	return m.Path(filepath.Dir(string(path)))
}
