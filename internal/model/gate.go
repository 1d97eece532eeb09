// Package model defines the data structures for gate detection and patching.
package model

import "regexp"

// GateCategory classifies a gate. It has no behavioral effect.
type GateCategory string

const (
	// CategoryFeature marks a gate that guards a user-facing feature.
	CategoryFeature GateCategory = "feature"
	// CategoryExperiment marks a gate that guards a staged experiment.
	CategoryExperiment GateCategory = "experiment"
	// CategoryTelemetry marks a gate that guards data collection.
	CategoryTelemetry GateCategory = "telemetry"
)

// StrategyKind enumerates the ways a matched gate fragment can be rewritten.
// Strategies are interpreted centrally by the dispatcher in domain/gates; a
// gate entry only declares which kind applies to it.
type StrategyKind int

const (
	// StrategyNone means the gate is detection-only and cannot be patched.
	StrategyNone StrategyKind = iota

	// StrategyReturnConstant replaces a whole minified function body with
	// `return <value>`. Signatures of this kind must capture the function
	// head (up to and including the opening brace) as group 1.
	StrategyReturnConstant

	// StrategyFlipNegation rewrites the minified boolean literal inside a
	// flag-check call (`!1` -> `!0`). Signatures of this kind must capture
	// the literal as their last group.
	StrategyFlipNegation

	// StrategyReplaceLiteral replaces the entire matched expression with a
	// fixed literal. No capture groups are required.
	StrategyReplaceLiteral

	// StrategyWrapTrue wraps the matched expression in `(!0||...)`. The
	// result is always longer than the original, so gates of this kind are
	// detection-only for binary targets.
	StrategyWrapTrue
)

// PatchStrategy is the tagged union describing how an entry's matched
// fragment is rewritten. Value carries the strategy operand: the returned
// literal for StrategyReturnConstant and the replacement expression for
// StrategyReplaceLiteral; other kinds ignore it.
type PatchStrategy struct {
	Kind  StrategyKind
	Value string
}

// FeatureGate is one declarative entry of the gate catalog. Entries are
// immutable after process start.
type FeatureGate struct {
	// Name is the flag identifier used by the artifact's feature-flag
	// system. Minifiers rename every local identifier but leave string
	// literals alone, so Name is the stable anchor for signatures.
	Name string

	// Codename is the short human-assigned alias for the gate.
	Codename string

	Category GateCategory

	// Signatures are the known minified shapes of the gate's code
	// fragment, one per observed artifact version. Each must anchor on
	// Name and tolerate arbitrary identifier substitution. The detector
	// tries them in order; treat the list as versioned data.
	Signatures []*regexp.Regexp

	Strategy PatchStrategy

	// EnvOverride optionally names a runtime variable of the artifact that
	// achieves the same effect without patching.
	EnvOverride string
}

// TextPatchable reports whether the gate can be patched in a plain-text
// bundle, where replacements may grow the file.
func (g FeatureGate) TextPatchable() bool {
	return g.Strategy.Kind != StrategyNone
}

// BytePatchable reports whether the gate can be patched in-place inside a
// binary target, which requires a replacement no longer than the original.
func (g FeatureGate) BytePatchable() bool {
	switch g.Strategy.Kind {
	case StrategyReturnConstant, StrategyFlipNegation, StrategyReplaceLiteral:
		return true
	default:
		return false
	}
}

// PatchableFor reports patchability for the given bundle encoding.
func (g FeatureGate) PatchableFor(enc Encoding) bool {
	if enc == EncodingRaw {
		return g.BytePatchable()
	}

	return g.TextPatchable()
}
