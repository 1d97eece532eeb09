package gates

import (
	"testing"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

func TestRegistryFind(t *testing.T) {
	registry := NewRegistry()

	t.Run("finds by flag name", func(t *testing.T) {
		gate, ok := registry.Find("tengu_workout2")
		if !ok {
			t.Fatalf("expected gate for tengu_workout2")
		}

		if gate.Codename != "workout-v2" {
			t.Errorf("expected codename workout-v2, got %s", gate.Codename)
		}
	})

	t.Run("finds by codename", func(t *testing.T) {
		gate, ok := registry.Find("workout-v2")
		if !ok {
			t.Fatalf("expected gate for workout-v2")
		}

		if gate.Name != "tengu_workout2" {
			t.Errorf("expected name tengu_workout2, got %s", gate.Name)
		}
	})

	t.Run("normalizes hyphens against flag names", func(t *testing.T) {
		// vibes-panel -> vibes_panel -> tengu_vibes_panel
		gate, ok := registry.Find("vibes_panel")
		if !ok {
			t.Fatalf("expected prefix fallback to resolve vibes_panel")
		}

		if gate.Name != "tengu_vibes_panel" {
			t.Errorf("expected tengu_vibes_panel, got %s", gate.Name)
		}
	})

	t.Run("unknown gate", func(t *testing.T) {
		if _, ok := registry.Find("not-a-real-gate"); ok {
			t.Errorf("expected lookup miss")
		}
	})
}

func TestRegistryListPatchable(t *testing.T) {
	registry := NewRegistry()

	contains := func(entries []m.FeatureGate, codename string) bool {
		for _, gate := range entries {
			if gate.Codename == codename {
				return true
			}
		}

		return false
	}

	t.Run("text mode excludes detection-only gates", func(t *testing.T) {
		entries := registry.ListPatchable(m.EncodingText)

		if contains(entries, "metrics-v2") {
			t.Errorf("metrics-v2 has no strategy and must not be text patchable")
		}

		if !contains(entries, "haiku-banner") {
			t.Errorf("haiku-banner is text patchable via wrapping")
		}
	})

	t.Run("byte mode also excludes growing strategies", func(t *testing.T) {
		entries := registry.ListPatchable(m.EncodingRaw)

		if contains(entries, "metrics-v2") {
			t.Errorf("metrics-v2 must not be byte patchable")
		}

		if contains(entries, "haiku-banner") {
			t.Errorf("haiku-banner wraps, which grows the fragment; not byte patchable")
		}

		if !contains(entries, "workout-v2") {
			t.Errorf("workout-v2 must be byte patchable")
		}
	})
}

func TestCatalogSignatureConventions(t *testing.T) {
	// The strategy dispatcher relies on capture conventions per kind; verify
	// them for every catalogued entry so a new gate cannot silently break
	// the contract.
	for _, gate := range NewRegistry().ListAll() {
		if len(gate.Signatures) == 0 {
			t.Errorf("gate %s has no signatures", gate.Codename)
			continue
		}

		for _, sig := range gate.Signatures {
			switch gate.Strategy.Kind {
			case m.StrategyReturnConstant, m.StrategyFlipNegation:
				if sig.NumSubexp() < 1 {
					t.Errorf("gate %s: signature %q needs a capture group", gate.Codename, sig)
				}
			}
		}
	}
}
