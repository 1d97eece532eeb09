// Package gates holds the static gate catalog, the registry queries over it,
// and the strategy dispatcher that turns a signature match into replacement
// code.
package gates

import "strings"

// shortTag is the fixed project tag embedded in every patch marker.
const shortTag = "GWX"

// ShortMarker is the minimal marker form, used when padding is too tight for
// the long form.
const ShortMarker = "/*" + shortTag + "*/"

// LongMarker returns the marker form that embeds the gate codename.
func LongMarker(codename string) string {
	return "/*" + shortTag + ":" + codename + "*/"
}

// longProbe returns the detection prefix for a long marker. Byte-mode padding
// may insert spaces before the closing delimiter, so detection anchors on the
// open prefix rather than the full comment.
func longProbe(codename string) string {
	return "/*" + shortTag + ":" + codename
}

// HasLongMarker reports whether content carries the gate's long-form marker.
func HasLongMarker(content, codename string) bool {
	return strings.Contains(content, longProbe(codename))
}

// HasShortMarker reports whether content carries a short-form marker. A long
// marker's tag is followed by a colon, so occurrences of the tag with a colon
// after it are skipped.
func HasShortMarker(content string) bool {
	probe := "/*" + shortTag

	for from := 0; ; {
		i := strings.Index(content[from:], probe)
		if i < 0 {
			return false
		}

		next := from + i + len(probe)
		if next >= len(content) || content[next] != ':' {
			return true
		}

		from = next
	}
}

// HasMarker reports whether the gate's identification marker is present in
// either form. The short form carries no gate identity; a prior tight-padding
// patch of any gate satisfies it, which is the price of the fixed 3-character
// tag.
func HasMarker(content, codename string) bool {
	return HasLongMarker(content, codename) || HasShortMarker(content)
}
