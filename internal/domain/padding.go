package domain

import (
	"fmt"
	"strings"

	"gatewrench.dev/pkg/gatewrench/internal/domain/gates"
	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

// BuildPaddedReplacement sizes a minimal enabled-form replacement to the
// exact byte length of the original fragment so an in-place binary write
// never shifts a downstream offset.
//
// The gap is consumed by a single comment filler, preferred in order: long
// form carrying the codename, short form carrying only the fixed tag, and
// plain spaces when not even the short form fits. Padding spaces sit inside
// the comment delimiters, so each filler is one syntactically valid no-op
// comment in the artifact's language.
//
// A minimal replacement longer than the original is a hard failure; code is
// never truncated. A length mismatch after padding is a logic error and
// panics rather than letting a corrupt write through.
func BuildPaddedReplacement(original, minimalReplacement, codename string) (string, *m.PatchError) {
	targetLen := len(original)
	gap := targetLen - len(minimalReplacement)

	if gap < 0 {
		return "", m.Patchf(m.ErrReplacementTooLong,
			"gate %s: replacement is %d bytes, original only %d", codename, len(minimalReplacement), targetLen)
	}

	if gap == 0 {
		return minimalReplacement, nil
	}

	padded := minimalReplacement + commentFiller(gap, codename)

	if len(padded) != targetLen {
		panic(fmt.Sprintf("padded replacement is %d bytes, want %d", len(padded), targetLen))
	}

	return padded, nil
}

// commentFiller produces exactly gap bytes of no-op filler.
func commentFiller(gap int, codename string) string {
	const closing = "*/"

	long := gates.LongMarker(codename)
	short := gates.ShortMarker

	switch {
	case gap >= len(long):
		return strings.TrimSuffix(long, closing) + strings.Repeat(" ", gap-len(long)) + closing
	case gap >= len(short):
		return strings.TrimSuffix(short, closing) + strings.Repeat(" ", gap-len(short)) + closing
	default:
		return strings.Repeat(" ", gap)
	}
}
