package generator

import "strings"

// stripCodeFence unwraps a completion the model returned inside a single
// code fence, dropping the fence's info string.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		if !strings.ContainsAny(strings.TrimSpace(s[:nl]), " \t") {
			s = s[nl+1:]
		}
	}
	return strings.TrimSpace(s)
}
