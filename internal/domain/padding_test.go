package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gatewrench.dev/pkg/gatewrench/internal/model"
)

func TestBuildPaddedReplacementByteLength(t *testing.T) {
	// Every gap from zero slack up to well past the long-form threshold must
	// come out at exactly the original length.
	minimal := "return!0"

	for gap := 0; gap <= 64; gap++ {
		original := minimal + strings.Repeat("x", gap)

		padded, perr := BuildPaddedReplacement(original, minimal, "workout-v2")
		require.Nil(t, perr, "gap %d", gap)
		assert.Len(t, padded, len(original), "gap %d", gap)
		assert.True(t, strings.HasPrefix(padded, minimal), "gap %d", gap)
	}
}

func TestBuildPaddedReplacementAmpleRoom(t *testing.T) {
	original := strings.Repeat("a", 104)
	minimal := strings.Repeat("b", 24)

	padded, perr := BuildPaddedReplacement(original, minimal, "workout-v2")
	require.Nil(t, perr)

	require.Len(t, padded, 104)
	assert.Equal(t, minimal, padded[:24])

	filler := padded[24:]
	assert.Len(t, filler, 80)
	assert.True(t, strings.HasPrefix(filler, "/*GWX:workout-v2"))
	assert.True(t, strings.HasSuffix(filler, "*/"))
	assert.Contains(t, filler, "workout-v2")
}

func TestBuildPaddedReplacementZeroSlack(t *testing.T) {
	original := `H7("tengu_vibes_panel",!1)`
	minimal := `H7("tengu_vibes_panel",!0)`

	padded, perr := BuildPaddedReplacement(original, minimal, "vibes-panel")
	require.Nil(t, perr)

	assert.Equal(t, minimal, padded)
	assert.NotContains(t, padded, "GWX")
}

func TestBuildPaddedReplacementShortForm(t *testing.T) {
	// Gap of 7 fits exactly the short marker; gap of 10 pads inside it.
	minimal := "!0"

	padded, perr := BuildPaddedReplacement(minimal+strings.Repeat("x", 7), minimal, "workout-v2")
	require.Nil(t, perr)
	assert.Equal(t, "!0/*GWX*/", padded)

	padded, perr = BuildPaddedReplacement(minimal+strings.Repeat("x", 10), minimal, "workout-v2")
	require.Nil(t, perr)
	assert.Equal(t, "!0/*GWX   */", padded)
}

func TestBuildPaddedReplacementSpacesFallback(t *testing.T) {
	minimal := "!0"

	padded, perr := BuildPaddedReplacement(minimal+strings.Repeat("x", 3), minimal, "workout-v2")
	require.Nil(t, perr)
	assert.Equal(t, "!0   ", padded)
}

func TestBuildPaddedReplacementOverflow(t *testing.T) {
	padded, perr := BuildPaddedReplacement("short", "much longer replacement", "workout-v2")

	require.NotNil(t, perr)
	assert.Equal(t, m.ErrReplacementTooLong, perr.Kind)
	assert.Empty(t, padded)
}
