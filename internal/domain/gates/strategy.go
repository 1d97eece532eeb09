package gates

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// forcedOn is the minified literal for `true`.
const forcedOn = "!0"

// ErrNoByteModeForm is returned for gates whose strategy cannot produce a
// minimal replacement, making them detection-only on binary targets.
var ErrNoByteModeForm = errors.New("strategy has no byte-mode form")

// Match describes one signature hit inside bundle content. Group offsets are
// stored relative to Text so strategies can splice without reaching back into
// the full content.
type Match struct {
	Start int // byte offset of the match in the bundle content
	End   int
	Text  string

	groups []int // submatch pairs relative to Text; -1 for absent groups
}

// NewMatch builds a Match from content and the index slice returned by
// (*regexp.Regexp).FindStringSubmatchIndex.
func NewMatch(content string, loc []int) Match {
	match := Match{
		Start: loc[0],
		End:   loc[1],
		Text:  content[loc[0]:loc[1]],
	}

	match.groups = make([]int, len(loc)-2)
	for i := 2; i < len(loc); i++ {
		if loc[i] < 0 {
			match.groups[i-2] = -1
			continue
		}

		match.groups[i-2] = loc[i] - loc[0]
	}

	return match
}

// FindSignature runs the gate's signature variants against content in order
// and returns the first hit.
func FindSignature(gate m.FeatureGate, content string) (Match, bool) {
	for _, sig := range gate.Signatures {
		if loc := sig.FindStringSubmatchIndex(content); loc != nil {
			return NewMatch(content, loc), true
		}
	}

	return Match{}, false
}

// SignatureMatches reports whether any signature variant matches content.
func SignatureMatches(gate m.FeatureGate, content string) bool {
	for _, sig := range gate.Signatures {
		if sig.MatchString(content) {
			return true
		}
	}

	return false
}

// group returns the relative offsets of capture group n (1-based).
func (mt Match) group(n int) (int, int, bool) {
	i := (n - 1) * 2
	if i+1 >= len(mt.groups) || mt.groups[i] < 0 {
		return 0, 0, false
	}

	return mt.groups[i], mt.groups[i+1], true
}

// MinimalReplacement produces the smallest semantically-enabled rewrite of
// the matched fragment, with no marker or padding. This is the byte-mode
// building block; gates whose strategy cannot produce one return
// ErrNoByteModeForm.
func MinimalReplacement(gate m.FeatureGate, match Match) (string, error) {
	switch gate.Strategy.Kind {
	case m.StrategyReturnConstant:
		_, end, ok := match.group(1)
		if !ok {
			panic(fmt.Sprintf("gate %s: return-constant signature must capture the function head", gate.Codename))
		}

		return match.Text[:end] + "return" + gate.Strategy.Value + "}", nil

	case m.StrategyFlipNegation:
		start, end, ok := match.lastGroup()
		if !ok {
			panic(fmt.Sprintf("gate %s: flip-negation signature must capture the boolean literal", gate.Codename))
		}

		return match.Text[:start] + forcedOn + match.Text[end:], nil

	case m.StrategyReplaceLiteral:
		return gate.Strategy.Value, nil

	default:
		return "", ErrNoByteModeForm
	}
}

// lastGroup returns the relative offsets of the last participating group.
func (mt Match) lastGroup() (int, int, bool) {
	for i := len(mt.groups) - 2; i >= 0; i -= 2 {
		if mt.groups[i] >= 0 {
			return mt.groups[i], mt.groups[i+1], true
		}
	}

	return 0, 0, false
}

// TextReplacement produces the replacement fragment for a plain-text bundle:
// the enabled form followed by the gate's long marker. Length is
// unconstrained in text mode.
func TextReplacement(gate m.FeatureGate, match Match) (string, error) {
	if gate.Strategy.Kind == m.StrategyWrapTrue {
		return "(" + forcedOn + "||" + match.Text + ")" + LongMarker(gate.Codename), nil
	}

	minimal, err := MinimalReplacement(gate, match)
	if err != nil {
		return "", err
	}

	return minimal + LongMarker(gate.Codename), nil
}

// UnpatchText is the best-effort inverse of TextReplacement. Wrapped gates
// are unwrapped; for other strategies the original fragment cannot be
// reconstructed, so only the marker is removed. A backup restore is the only
// guaranteed inverse.
func UnpatchText(gate m.FeatureGate, content string) (string, bool) {
	marker := LongMarker(gate.Codename)

	if gate.Strategy.Kind == m.StrategyWrapTrue {
		unwrap := regexp.MustCompile(`\(` + regexp.QuoteMeta(forcedOn) + `\|\|(.*?)\)` + regexp.QuoteMeta(marker))
		if unwrap.MatchString(content) {
			return unwrap.ReplaceAllString(content, "$1"), true
		}
	}

	if strings.Contains(content, marker) {
		return strings.ReplaceAll(content, marker, ""), true
	}

	return content, false
}

// UnpatchRaw is the best-effort byte-mode inverse: the gate's marker comments
// are overwritten with spaces in place, clearing the enabled flag without
// moving any byte offsets. The forced-on code itself cannot be reverted
// without a backup.
func UnpatchRaw(gate m.FeatureGate, buf []byte) bool {
	probe := []byte(longProbe(gate.Codename))
	closing := []byte("*/")
	changed := false

	for from := 0; from < len(buf); {
		i := bytes.Index(buf[from:], probe)
		if i < 0 {
			break
		}

		start := from + i

		tail := bytes.Index(buf[start:], closing)
		if tail < 0 {
			break
		}

		end := start + tail + len(closing)
		for j := start; j < end; j++ {
			buf[j] = ' '
		}

		changed = true
		from = end
	}

	return changed
}
