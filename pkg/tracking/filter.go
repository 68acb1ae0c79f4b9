package tracking

import "strings"

// shouldSkip reports whether the request path is excluded from
// instrumentation. Matching is case-insensitive; a non-match always falls
// through to normal instrumentation, never to an error.
func (m *Middleware) shouldSkip(path string) bool {
	path = strings.ToLower(path)

	for _, prefix := range m.skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	for _, ext := range m.skipExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}
