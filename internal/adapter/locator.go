package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// InstallLocator finds a deployed artifact when the caller gives no explicit
// path. Implementations are heuristic by nature; resolution falls back to
// them only as a convenience.
type InstallLocator interface {
	Locate() (m.Path, error)
}

// LocalInstallLocator probes a fixed candidate list, first match wins.
// Candidates may contain `~` for the user home directory.
type LocalInstallLocator struct {
	fs         BundleFSAdapter
	candidates []m.Path
}

// NewLocalInstallLocator constructs a locator over the given candidates.
func NewLocalInstallLocator(fs BundleFSAdapter, candidates []m.Path) *LocalInstallLocator {
	return &LocalInstallLocator{fs: fs, candidates: candidates}
}

// Locate returns the first candidate that exists and is a regular file.
func (l *LocalInstallLocator) Locate() (m.Path, error) {
	for _, candidate := range l.candidates {
		path := expandHome(candidate)

		info, err := l.fs.FileInfo(path)
		if err != nil || info.IsDir() {
			continue
		}

		return path, nil
	}

	return "", fmt.Errorf("no installed artifact found in %d candidate locations", len(l.candidates))
}

func expandHome(path m.Path) m.Path {
	p := string(path)
	if len(p) < 2 || p[0] != '~' || p[1] != '/' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return m.Path(filepath.Join(home, p[2:]))
}
