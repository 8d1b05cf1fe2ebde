package similarity

import "strings"

// regexMetachars are the characters EscapeRegex neutralizes.
const regexMetachars = `.*+?^${}()|[]\`

// EscapeRegex escapes every regex metacharacter in s so the result matches
// s literally when compiled.
func EscapeRegex(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 && strings.ContainsRune(regexMetachars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// WildcardToRegex translates a glob pattern into regex source, mapping '*' to
// ".*" and '?' to ".". All other metacharacters are escaped first, so the
// substituted tokens are never double-escaped.
func WildcardToRegex(pattern string) string {
	escaped := EscapeRegex(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, `.*`)
	escaped = strings.ReplaceAll(escaped, `\?`, `.`)
	return escaped
}
