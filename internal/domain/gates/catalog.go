package gates

import (
	"regexp"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// FlagPrefix is the naming convention shared by every flag identifier the
// artifact's feature-flag system uses. The raw scan keys off it.
const FlagPrefix = "tengu_"

// ident matches one minified identifier. Minifiers substitute arbitrary short
// names, so signatures never anchor on identifier spelling, only on shape.
const ident = `[A-Za-z_$][\w$]{0,3}`

// returnFalseSigs matches the minified accessor function for a
// default-off flag, in the two shapes observed across artifact versions:
// a bare helper call and the later method-call form. The function head is
// captured for the return-constant strategy.
func returnFalseSigs(flag string) []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(function ` + ident + `\(\)\{)return ` + ident + `\("` + flag + `",!1\)\}`),
		regexp.MustCompile(`(function ` + ident + `\(\)\{)return ` + ident + `\.` + ident + `\("` + flag + `",!1\)\}`),
	}
}

// checkCallSigs matches an inline flag-check call expression. The boolean
// default is captured as the last group for the flip-negation strategy. The
// first variant covers the ternary shape a later artifact release inlines.
func checkCallSigs(flag string) []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(ident + `\("` + flag + `",(!1|!0)\)\?`),
		regexp.MustCompile(ident + `\("` + flag + `",(!1|!0)\)`),
	}
}

// offCallSigs matches an inline check of a default-off flag with no capture,
// for strategies that replace or wrap the whole expression.
func offCallSigs(flag string) []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(ident + `\("` + flag + `",!1\)`),
	}
}

// catalog is the static gate registry. Entries are configuration data; they
// are never mutated at runtime. Signatures are versioned: when a release
// changes a gate's minified shape, a new variant is appended rather than the
// old one rewritten.
var catalog = []m.FeatureGate{
	{
		Name:        "tengu_workout2",
		Codename:    "workout-v2",
		Category:    m.CategoryFeature,
		Signatures:  returnFalseSigs("tengu_workout2"),
		Strategy:    m.PatchStrategy{Kind: m.StrategyReturnConstant, Value: "!0"},
		EnvOverride: "TENGU_WORKOUT2",
	},
	{
		Name:       "tengu_brainstorm",
		Codename:   "brainstorm-mode",
		Category:   m.CategoryExperiment,
		Signatures: returnFalseSigs("tengu_brainstorm"),
		Strategy:   m.PatchStrategy{Kind: m.StrategyReturnConstant, Value: "!0"},
	},
	{
		Name:        "tengu_strict_sandbox",
		Codename:    "strict-sandbox",
		Category:    m.CategoryFeature,
		Signatures:  returnFalseSigs("tengu_strict_sandbox"),
		Strategy:    m.PatchStrategy{Kind: m.StrategyReturnConstant, Value: "!0"},
		EnvOverride: "TENGU_STRICT_SANDBOX",
	},
	{
		Name:        "tengu_vibes_panel",
		Codename:    "vibes-panel",
		Category:    m.CategoryFeature,
		Signatures:  checkCallSigs("tengu_vibes_panel"),
		Strategy:    m.PatchStrategy{Kind: m.StrategyFlipNegation},
		EnvOverride: "TENGU_VIBES_PANEL",
	},
	{
		Name:       "tengu_turbo_cache",
		Codename:   "turbo-cache",
		Category:   m.CategoryFeature,
		Signatures: checkCallSigs("tengu_turbo_cache"),
		Strategy:   m.PatchStrategy{Kind: m.StrategyFlipNegation},
	},
	{
		Name:       "tengu_onboarding_v3",
		Codename:   "onboarding-v3",
		Category:   m.CategoryExperiment,
		Signatures: offCallSigs("tengu_onboarding_v3"),
		Strategy:   m.PatchStrategy{Kind: m.StrategyReplaceLiteral, Value: "!0"},
	},
	{
		Name:       "tengu_haiku_banner",
		Codename:   "haiku-banner",
		Category:   m.CategoryFeature,
		Signatures: offCallSigs("tengu_haiku_banner"),
		Strategy:   m.PatchStrategy{Kind: m.StrategyWrapTrue},
	},
	{
		Name:        "tengu_metrics_v2",
		Codename:    "metrics-v2",
		Category:    m.CategoryTelemetry,
		Signatures:  checkCallSigs("tengu_metrics_v2"),
		Strategy:    m.PatchStrategy{Kind: m.StrategyNone},
		EnvOverride: "TENGU_METRICS_V2",
	},
}
