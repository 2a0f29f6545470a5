// Package pathfmt formats filesystem paths for display.
package pathfmt

import "unicode/utf8"

// Ellipsis marks the truncated head of a shortened path.
const Ellipsis = "…"

const (
	// DefaultMax is the width used for the current directory in the HUD.
	DefaultMax = 52

	// HintMax is the width used for the hovered node's path.
	HintMax = 120
)

// Shorten returns s unchanged when it fits in maxLen runes. Otherwise it keeps
// the tail of s and prefixes it with Ellipsis so the result is exactly maxLen
// runes long. maxLen <= 0 yields "".
func Shorten(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(s)
	if n <= maxLen {
		return s
	}
	keep := maxLen - 1
	// Skip the first n-keep runes.
	skip := n - keep
	for i := range s {
		if skip == 0 {
			return Ellipsis + s[i:]
		}
		skip--
	}
	return Ellipsis
}
