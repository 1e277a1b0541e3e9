package providers

import "strings"

type ProviderRef struct {
	Raw      string
	Name     string
	KeyAlias string
}

// ParseProviderRef reads "name" or "name:alias". An empty value means mock.
func ParseProviderRef(raw string) ProviderRef {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ProviderRef{Raw: "mock", Name: "mock"}
	}
	ref := ProviderRef{Raw: p}
	if strings.Contains(p, ":") {
		x := strings.SplitN(p, ":", 2)
		ref.Name = strings.ToLower(strings.TrimSpace(x[0]))
		ref.KeyAlias = strings.TrimSpace(x[1])
	} else {
		ref.Name = strings.ToLower(p)
	}
	return ref
}
