package gates

import (
	"strings"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// Registry exposes pure queries over the static gate catalog.
type Registry struct {
	gates []m.FeatureGate
}

// NewRegistry builds a registry over the built-in catalog.
func NewRegistry() *Registry {
	return &Registry{gates: catalog}
}

// NewRegistryWith builds a registry over an explicit gate list, used by tests
// to pin the catalog.
func NewRegistryWith(entries []m.FeatureGate) *Registry {
	return &Registry{gates: entries}
}

// ListAll returns every registered gate.
func (r *Registry) ListAll() []m.FeatureGate {
	out := make([]m.FeatureGate, len(r.gates))
	copy(out, r.gates)

	return out
}

// ListPatchable returns the gates with a viable patch strategy for the given
// bundle encoding.
func (r *Registry) ListPatchable(enc m.Encoding) []m.FeatureGate {
	var out []m.FeatureGate

	for _, gate := range r.gates {
		if gate.PatchableFor(enc) {
			out = append(out, gate)
		}
	}

	return out
}

// Find looks a gate up by flag name or codename. As a fallback the query's
// hyphens are normalized to underscores and compared against flag names,
// with and without the flag prefix, so `find("metrics-v2")` resolves
// `tengu_metrics_v2`.
func (r *Registry) Find(nameOrCodename string) (m.FeatureGate, bool) {
	for _, gate := range r.gates {
		if gate.Name == nameOrCodename || gate.Codename == nameOrCodename {
			return gate, true
		}
	}

	normalized := strings.ReplaceAll(nameOrCodename, "-", "_")
	for _, gate := range r.gates {
		if gate.Name == normalized || gate.Name == FlagPrefix+normalized {
			return gate, true
		}
	}

	return m.FeatureGate{}, false
}
