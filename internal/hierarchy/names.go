package hierarchy

import "strings"

// Normalize reduces a campaign entity name to its cross-provider join key:
// lowercase with every non-alphanumeric rune removed. Idempotent.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NamesRelated reports whether two already-normalized names should be treated
// as the same entity: equal, or one contained in the other. Empty names never
// relate to anything.
func NamesRelated(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
