package util

import "strings"

// SanitizeText drops NUL and the other C0/DEL control characters that leak
// into feed titles and abstracts, keeping newlines and tabs. Postgres text
// columns reject NUL outright.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\r', r == '\t':
			return r
		case r < 0x20, r == 0x7f:
			return -1
		}
		return r
	}, s))
}
