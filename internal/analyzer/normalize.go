package analyzer

import "strings"

// Normalize lowercases raw, collapses every whitespace run to a single
// space and trims the ends. It is total over all strings.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

func containsAny(s string, list []string) bool {
	for _, w := range list {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
