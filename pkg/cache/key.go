package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached GET response.
type Key struct {
	// Path is the resource path, e.g. "/organizations".
	Path string

	// Query are the request query parameters, including page and filter
	// keys.
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: itglue:<path>:key1=val1:key2=val2
//
// Example:
//
//	itglue:configurations:filter[organization-id]=42:page[number]=1:page[size]=1000
func (k Key) String() string {
	parts := []string{"itglue"}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	if len(k.Query) > 0 {
		keys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
