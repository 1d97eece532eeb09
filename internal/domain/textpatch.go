package domain

import (
	"os"

	"gatewrench.dev/pkg/gatewrench/internal/adapter"
	"gatewrench.dev/pkg/gatewrench/internal/domain/gates"
	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// PatchOptions control mutation behavior shared by both patchers.
type PatchOptions struct {
	// NoBackup skips the pre-mutation snapshot. Only a backup makes a
	// patch reliably reversible.
	NoBackup bool
}

// defaultFileMode is used when the artifact's own mode cannot be read.
const defaultFileMode os.FileMode = 0o644

// TextPatcher rewrites matched gate fragments in a plain-text bundle.
// Replacements may grow the file; there is no length constraint.
//
// The patcher assumes exclusive access to the artifact path. It performs no
// file locking; callers embedding it outside a one-shot CLI invocation must
// serialize writers themselves.
type TextPatcher struct {
	fs       adapter.BundleFSAdapter
	backups  *adapter.BackupManager
	registry *gates.Registry
}

// NewTextPatcher constructs a TextPatcher.
func NewTextPatcher(fs adapter.BundleFSAdapter, backups *adapter.BackupManager, registry *gates.Registry) *TextPatcher {
	return &TextPatcher{fs: fs, backups: backups, registry: registry}
}

// Enable forces one gate on. The operation is idempotent: a bundle already
// carrying the gate's marker is reported as success without a write.
func (p *TextPatcher) Enable(nameOrCodename string, bundle m.BundleInfo, opts PatchOptions) m.PatchOutcome {
	gate, perr := p.patchableGate(nameOrCodename)
	if perr != nil {
		return m.Failure(perr)
	}

	if gates.HasLongMarker(bundle.Content, gate.Codename) {
		return m.NoOpSuccess()
	}

	newContent, matched, perr := applyTextGate(gate, bundle.Content)
	if perr != nil {
		return m.Failure(perr)
	}

	if !matched {
		// A tight byte-mode patch from an earlier run leaves only the
		// short marker behind; treat that as already patched.
		if gates.HasShortMarker(bundle.Content) {
			return m.NoOpSuccess()
		}

		return m.Failure(m.Patchf(m.ErrSignatureNotFound,
			"gate %s: no signature variant matched %s (artifact version drift?)", gate.Codename, bundle.Path))
	}

	return p.commit(bundle, []byte(newContent), opts, []m.GateStatus{enabledStatus(gate)})
}

// EnableAll forces every text-patchable gate on, with one shared backup and a
// single write. Gates whose signature is absent from this artifact version
// are silently skipped.
func (p *TextPatcher) EnableAll(bundle m.BundleInfo, opts PatchOptions) m.PatchOutcome {
	content := bundle.Content

	var changed []m.GateStatus

	for _, gate := range p.registry.ListPatchable(m.EncodingText) {
		if gates.HasLongMarker(content, gate.Codename) {
			continue
		}

		next, matched, perr := applyTextGate(gate, content)
		if perr != nil {
			return m.Failure(perr)
		}

		if !matched {
			continue
		}

		content = next

		changed = append(changed, enabledStatus(gate))
	}

	if len(changed) == 0 {
		return m.NoOpSuccess()
	}

	return p.commit(bundle, []byte(content), opts, changed)
}

// Disable undoes a patch. A backup restore is the only guaranteed inverse;
// when no usable backup exists the gate's best-effort unpatch transform is
// applied, which may be a no-op.
func (p *TextPatcher) Disable(nameOrCodename string, bundle m.BundleInfo, opts PatchOptions) m.PatchOutcome {
	gate, ok := p.registry.Find(nameOrCodename)
	if !ok {
		return m.Failure(m.Patchf(m.ErrUnknownGate, "no gate named %q", nameOrCodename))
	}

	if !gates.HasMarker(bundle.Content, gate.Codename) {
		return m.NoOpSuccess()
	}

	if outcome, restored := p.restoreFromBackup(gate, bundle); restored {
		return outcome
	}

	newContent, changed := gates.UnpatchText(gate, bundle.Content)
	if !changed {
		return m.NoOpSuccess()
	}

	return p.commit(bundle, []byte(newContent), opts, []m.GateStatus{disabledStatus(gate, newContent)})
}

// Preview computes the patched content for one gate without touching the
// filesystem.
func (p *TextPatcher) Preview(nameOrCodename string, bundle m.BundleInfo) (string, *m.PatchError) {
	gate, perr := p.patchableGate(nameOrCodename)
	if perr != nil {
		return "", perr
	}

	if gates.HasLongMarker(bundle.Content, gate.Codename) {
		return bundle.Content, nil
	}

	newContent, matched, perr := applyTextGate(gate, bundle.Content)
	if perr != nil {
		return "", perr
	}

	if !matched {
		return "", m.Patchf(m.ErrSignatureNotFound,
			"gate %s: no signature variant matched %s", gate.Codename, bundle.Path)
	}

	return newContent, nil
}

func (p *TextPatcher) patchableGate(nameOrCodename string) (m.FeatureGate, *m.PatchError) {
	gate, ok := p.registry.Find(nameOrCodename)
	if !ok || !gate.TextPatchable() {
		return m.FeatureGate{}, m.Patchf(m.ErrUnknownGate, "no patchable gate named %q", nameOrCodename)
	}

	return gate, nil
}

// applyTextGate splices the gate's replacement over the first signature
// match. The returned content is untouched when no signature matches.
func applyTextGate(gate m.FeatureGate, content string) (string, bool, *m.PatchError) {
	match, ok := gates.FindSignature(gate, content)
	if !ok {
		return content, false, nil
	}

	replacement, err := gates.TextReplacement(gate, match)
	if err != nil {
		return content, false, m.NewPatchError(m.ErrUnknownGate, err)
	}

	return content[:match.Start] + replacement + content[match.End:], true, nil
}

// commit runs the backup-then-write tail shared by every mutating text
// operation.
func (p *TextPatcher) commit(bundle m.BundleInfo, newContent []byte, opts PatchOptions, changed []m.GateStatus) m.PatchOutcome {
	var backupPath m.Path

	if !opts.NoBackup {
		bp, err := p.backups.Backup(bundle.Path)
		if err != nil {
			return m.Failure(m.NewPatchError(m.ErrBackupFailed, err))
		}

		backupPath = bp
	}

	if err := p.fs.WriteFile(bundle.Path, newContent, fileModeOf(p.fs, bundle.Path)); err != nil {
		return m.Failure(writeFailure(p.backups, bundle.Path, backupPath, err))
	}

	return m.PatchOutcome{Success: true, BackupPath: backupPath, Changed: changed}
}

// restoreFromBackup searches the artifact's directory for the most recent
// backup that does not itself carry the gate's marker and restores it.
func (p *TextPatcher) restoreFromBackup(gate m.FeatureGate, bundle m.BundleInfo) (m.PatchOutcome, bool) {
	backups, err := p.backups.ListBackups(bundle.Path)
	if err != nil {
		return m.PatchOutcome{}, false
	}

	for _, backupPath := range backups {
		data, err := p.fs.ReadFile(backupPath)
		if err != nil {
			continue
		}

		content := string(data)
		if gates.HasMarker(content, gate.Codename) {
			continue
		}

		if err := p.backups.Restore(bundle.Path, backupPath); err != nil {
			continue
		}

		return m.PatchOutcome{
			Success:    true,
			BackupPath: backupPath,
			Changed:    []m.GateStatus{disabledStatus(gate, content)},
		}, true
	}

	return m.PatchOutcome{}, false
}

func fileModeOf(fs adapter.BundleFSAdapter, path m.Path) os.FileMode {
	info, err := fs.FileInfo(path)
	if err != nil {
		return defaultFileMode
	}

	return info.Mode()
}

// writeFailure rolls back to the just-created backup and reports the write
// failure; a failed rollback is reported alongside it.
func writeFailure(backups *adapter.BackupManager, path, backupPath m.Path, writeErr error) *m.PatchError {
	if backupPath == "" {
		return m.Patchf(m.ErrWriteFailed, "writing %s: %w", path, writeErr)
	}

	if restoreErr := backups.Restore(path, backupPath); restoreErr != nil {
		return m.Patchf(m.ErrWriteFailed, "writing %s: %v (rollback also failed: %v)", path, writeErr, restoreErr)
	}

	return m.Patchf(m.ErrWriteFailed, "writing %s: %w (original restored from backup)", path, writeErr)
}

func enabledStatus(gate m.FeatureGate) m.GateStatus {
	return m.GateStatus{
		Name:        gate.Name,
		Codename:    gate.Codename,
		Category:    gate.Category,
		Detected:    true,
		Enabled:     true,
		EnvOverride: gate.EnvOverride,
	}
}

func disabledStatus(gate m.FeatureGate, content string) m.GateStatus {
	return m.GateStatus{
		Name:        gate.Name,
		Codename:    gate.Codename,
		Category:    gate.Category,
		Detected:    gates.SignatureMatches(gate, content),
		Enabled:     false,
		EnvOverride: gate.EnvOverride,
	}
}
