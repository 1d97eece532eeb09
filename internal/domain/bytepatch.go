package domain

import (
	"gatewrench.dev/pkg/gatewrench/internal/adapter"
	"gatewrench.dev/pkg/gatewrench/internal/domain/gates"
	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// BytePatcher rewrites matched gate fragments in-place inside a fixed-size
// binary buffer. Every replacement is padded to the exact byte length of the
// original fragment, so no downstream offset in the binary ever moves.
//
// Like TextPatcher, it assumes exclusive access to the artifact path and
// performs no file locking.
type BytePatcher struct {
	fs       adapter.BundleFSAdapter
	backups  *adapter.BackupManager
	registry *gates.Registry
}

// NewBytePatcher constructs a BytePatcher.
func NewBytePatcher(fs adapter.BundleFSAdapter, backups *adapter.BackupManager, registry *gates.Registry) *BytePatcher {
	return &BytePatcher{fs: fs, backups: backups, registry: registry}
}

// patchOneGate matches the gate against content and splices the padded
// replacement into buf at the match's byte offset, mutating buf in place.
//
// It deliberately does not re-derive content from buf: callers applying
// several gates sequentially must re-decode content after every change,
// otherwise the next gate's match offsets are computed against stale bytes.
func patchOneGate(buf []byte, content string, gate m.FeatureGate) (changed, matched bool, perr *m.PatchError) {
	match, ok := gates.FindSignature(gate, content)
	if !ok {
		return false, false, nil
	}

	minimal, err := gates.MinimalReplacement(gate, match)
	if err != nil {
		return false, true, m.NewPatchError(m.ErrUnknownGate, err)
	}

	padded, perr := BuildPaddedReplacement(match.Text, minimal, gate.Codename)
	if perr != nil {
		return false, true, perr
	}

	if padded == match.Text {
		// Already in enabled form (a zero-slack flip leaves no marker).
		return false, true, nil
	}

	copy(buf[match.Start:match.End], padded)

	return true, true, nil
}

// Enable forces one gate on inside the binary target.
func (p *BytePatcher) Enable(nameOrCodename string, bundle m.BundleInfo, opts PatchOptions) m.PatchOutcome {
	gate, perr := p.patchableGate(nameOrCodename)
	if perr != nil {
		return m.Failure(perr)
	}

	if gates.HasLongMarker(bundle.Content, gate.Codename) {
		return m.NoOpSuccess()
	}

	buf := cloneBuffer(bundle)

	changed, matched, perr := patchOneGate(buf, bundle.Content, gate)
	if perr != nil {
		return m.Failure(perr)
	}

	if !matched {
		if gates.HasShortMarker(bundle.Content) {
			return m.NoOpSuccess()
		}

		return m.Failure(m.Patchf(m.ErrSignatureNotFound,
			"gate %s: no signature variant matched %s (artifact version drift?)", gate.Codename, bundle.Path))
	}

	if !changed {
		return m.NoOpSuccess()
	}

	return p.commit(bundle, buf, opts, []m.GateStatus{enabledStatus(gate)})
}

// EnableAll forces every byte-patchable gate on with one shared backup and a
// single raw write. The mutation is an explicit fold over (buffer, content):
// after each successful patch the decoded view is re-derived from the buffer
// before the next gate is matched. An oversized replacement aborts the whole
// operation before any write.
func (p *BytePatcher) EnableAll(bundle m.BundleInfo, opts PatchOptions) m.PatchOutcome {
	buf := cloneBuffer(bundle)
	content := bundle.Content

	var changedGates []m.GateStatus

	for _, gate := range p.registry.ListPatchable(m.EncodingRaw) {
		if gates.HasLongMarker(content, gate.Codename) {
			continue
		}

		changed, _, perr := patchOneGate(buf, content, gate)
		if perr != nil {
			return m.Failure(perr)
		}

		if !changed {
			continue
		}

		content = string(buf)

		changedGates = append(changedGates, enabledStatus(gate))
	}

	if len(changedGates) == 0 {
		return m.NoOpSuccess()
	}

	return p.commit(bundle, buf, opts, changedGates)
}

// Disable restores the most recent backup free of the gate's marker. Without
// one it falls back to blanking the gate's markers in place, which clears
// the enabled state but cannot revert the forced-on code.
func (p *BytePatcher) Disable(nameOrCodename string, bundle m.BundleInfo, opts PatchOptions) m.PatchOutcome {
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

	buf := cloneBuffer(bundle)
	if !gates.UnpatchRaw(gate, buf) {
		return m.NoOpSuccess()
	}

	return p.commit(bundle, buf, opts, []m.GateStatus{disabledStatus(gate, string(buf))})
}

// Preview computes the patched buffer for one gate without touching the
// filesystem, returning it as content for diffing.
func (p *BytePatcher) Preview(nameOrCodename string, bundle m.BundleInfo) (string, *m.PatchError) {
	gate, perr := p.patchableGate(nameOrCodename)
	if perr != nil {
		return "", perr
	}

	if gates.HasLongMarker(bundle.Content, gate.Codename) {
		return bundle.Content, nil
	}

	buf := cloneBuffer(bundle)

	_, matched, perr := patchOneGate(buf, bundle.Content, gate)
	if perr != nil {
		return "", perr
	}

	if !matched {
		return "", m.Patchf(m.ErrSignatureNotFound,
			"gate %s: no signature variant matched %s", gate.Codename, bundle.Path)
	}

	return string(buf), nil
}

func (p *BytePatcher) patchableGate(nameOrCodename string) (m.FeatureGate, *m.PatchError) {
	gate, ok := p.registry.Find(nameOrCodename)
	if !ok || !gate.BytePatchable() {
		return m.FeatureGate{}, m.Patchf(m.ErrUnknownGate, "no byte-patchable gate named %q", nameOrCodename)
	}

	return gate, nil
}

func (p *BytePatcher) commit(bundle m.BundleInfo, buf []byte, opts PatchOptions, changed []m.GateStatus) m.PatchOutcome {
	var backupPath m.Path

	if !opts.NoBackup {
		bp, err := p.backups.Backup(bundle.Path)
		if err != nil {
			return m.Failure(m.NewPatchError(m.ErrBackupFailed, err))
		}

		backupPath = bp
	}

	if err := p.fs.WriteFile(bundle.Path, buf, fileModeOf(p.fs, bundle.Path)); err != nil {
		return m.Failure(writeFailure(p.backups, bundle.Path, backupPath, err))
	}

	return m.PatchOutcome{Success: true, BackupPath: backupPath, Changed: changed}
}

func (p *BytePatcher) restoreFromBackup(gate m.FeatureGate, bundle m.BundleInfo) (m.PatchOutcome, bool) {
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

// cloneBuffer copies the resolved raw bytes so a failed operation never
// leaves a half-mutated view behind.
func cloneBuffer(bundle m.BundleInfo) []byte {
	buf := make([]byte, len(bundle.Raw))
	copy(buf, bundle.Raw)

	return buf
}
