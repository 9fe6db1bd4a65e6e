package utils

import (
	"net/url"
)

// QueryBool reads a "true"-compared boolean. ok is false when key is absent.
func QueryBool(q url.Values, key string) (value bool, ok bool) {
	if !q.Has(key) {
		return false, false
	}
	return q.Get(key) == "true", true
}

// QueryEquals copies every non-empty query value named in keys into dst,
// stored under the matching path.
func QueryEquals(q url.Values, dst map[string]any, paths map[string]string) {
	for key, path := range paths {
		if v := q.Get(key); v != "" {
			dst[path] = v
		}
	}
}
