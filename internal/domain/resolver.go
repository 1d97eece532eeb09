// Package domain implements gate detection and byte-exact patching over
// resolved bundles.
package domain

import (
	"path/filepath"

	"gatewrench.dev/pkg/gatewrench/internal/adapter"
	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// scriptExtensions are the file extensions treated as plain-text bundles.
// Anything else is assumed to be a compiled binary with an embedded script.
var scriptExtensions = map[string]bool{
	".js":  true,
	".mjs": true,
	".cjs": true,
}

// Resolver produces a consistent view of one artifact's bytes: a string for
// regex matching and, for binary targets, the raw buffer for byte-exact
// writes. The content string is always string(raw bytes) with no transcoding;
// Go regexp indices are byte offsets, so a match's character offset equals
// its byte offset in the buffer. That equality is the central correctness
// constraint of byte-mode patching.
type Resolver struct {
	fs      adapter.BundleFSAdapter
	locator adapter.InstallLocator
}

// NewResolver constructs a Resolver.
func NewResolver(fs adapter.BundleFSAdapter, locator adapter.InstallLocator) *Resolver {
	return &Resolver{fs: fs, locator: locator}
}

// Resolve reads the artifact at explicitPath, or at the located installation
// when explicitPath is empty. BundleInfo is re-derived on every call; callers
// must re-resolve after any mutation because a write invalidates offsets
// computed against stale content. Failures are classified, never raised.
func (r *Resolver) Resolve(explicitPath m.Path) (m.BundleInfo, *m.PatchError) {
	path := explicitPath

	if path == "" {
		located, err := r.locator.Locate()
		if err != nil {
			return m.BundleInfo{}, m.NewPatchError(m.ErrArtifactNotFound, err)
		}

		path = located
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return m.BundleInfo{}, m.Patchf(m.ErrArtifactNotFound, "reading %s: %w", path, err)
	}

	if scriptExtensions[filepath.Ext(string(path))] {
		return m.BundleInfo{
			Path:     path,
			Content:  string(data),
			Encoding: m.EncodingText,
		}, nil
	}

	return m.BundleInfo{
		Path:     path,
		Content:  string(data),
		Raw:      data,
		Encoding: m.EncodingRaw,
	}, nil
}
