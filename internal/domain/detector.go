package domain

import (
	"regexp"
	"sort"

	"gatewrench.dev/pkg/gatewrench/internal/domain/gates"
	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// rawFlagPattern matches any flag identifier following the artifact's naming
// convention, registered or not.
var rawFlagPattern = regexp.MustCompile(gates.FlagPrefix + `[a-z0-9_]+`)

// Detector reports gate state from a resolved bundle. All queries are
// read-only.
type Detector struct {
	registry *gates.Registry
}

// NewDetector constructs a Detector over the given registry.
func NewDetector(registry *gates.Registry) *Detector {
	return &Detector{registry: registry}
}

// DetectAll reports the status of every registered gate. A gate stays
// detected after patching has replaced its original code shape, because the
// embedded marker is checked alongside the signature.
func (d *Detector) DetectAll(bundle m.BundleInfo) []m.GateStatus {
	all := d.registry.ListAll()
	statuses := make([]m.GateStatus, 0, len(all))

	for _, gate := range all {
		statuses = append(statuses, d.status(gate, bundle))
	}

	return statuses
}

// DetectOne reports the status of a single gate looked up by flag name or
// codename.
func (d *Detector) DetectOne(nameOrCodename string, bundle m.BundleInfo) (m.GateStatus, bool) {
	gate, ok := d.registry.Find(nameOrCodename)
	if !ok {
		return m.GateStatus{}, false
	}

	return d.status(gate, bundle), true
}

func (d *Detector) status(gate m.FeatureGate, bundle m.BundleInfo) m.GateStatus {
	markerPresent := gates.HasMarker(bundle.Content, gate.Codename)

	return m.GateStatus{
		Name:        gate.Name,
		Codename:    gate.Codename,
		Category:    gate.Category,
		Detected:    markerPresent || gates.SignatureMatches(gate, bundle.Content),
		Enabled:     markerPresent,
		EnvOverride: gate.EnvOverride,
	}
}

// ScanRawFlags returns every flag identifier in the bundle that follows the
// naming convention, deduplicated and sorted. It is independent of the
// registry and surfaces flags not yet catalogued.
func (d *Detector) ScanRawFlags(bundle m.BundleInfo) []string {
	seen := make(map[string]struct{})

	for _, flag := range rawFlagPattern.FindAllString(bundle.Content, -1) {
		seen[flag] = struct{}{}
	}

	flags := make([]string, 0, len(seen))
	for flag := range seen {
		flags = append(flags, flag)
	}

	sort.Strings(flags)

	return flags
}
