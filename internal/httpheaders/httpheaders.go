// Package httpheaders manipulates the header maps passed to the MCP HTTP
// transport. Keys match case-insensitively, the way HTTP intends.
package httpheaders

import (
	"fmt"
	"sort"
	"strings"
)

// Parse splits a "Name: value" flag argument into its parts. The value may
// be empty; the name may not.
func Parse(raw string) (name, value string, err error) {
	idx := strings.Index(raw, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("invalid header %q, want \"Name: value\"", raw)
	}
	name = strings.TrimSpace(raw[:idx])
	if name == "" {
		return "", "", fmt.Errorf("invalid header %q, missing name", raw)
	}
	return name, strings.TrimSpace(raw[idx+1:]), nil
}

// Set writes a header value, replacing an existing key that differs only in
// casing.
func Set(headers map[string]string, name, value string) map[string]string {
	name = strings.TrimSpace(name)
	if name == "" {
		return headers
	}

	if headers == nil {
		headers = make(map[string]string, 1)
	}
	if existing, ok := lookupKeyFold(headers, name); ok && existing != name {
		delete(headers, existing)
	}
	headers[name] = value
	return headers
}

// Merge applies src entries into dst. When overwrite is false, existing dst
// entries win; when true, src replaces them even across casing differences.
func Merge(dst, src map[string]string, overwrite bool) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}

	for _, key := range sortedKeys(src) {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if existing, ok := lookupKeyFold(dst, name); ok {
			if !overwrite {
				continue
			}
			delete(dst, existing)
		}
		dst[name] = src[key]
	}
	return dst
}

func sortedKeys(src map[string]string) []string {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		li := strings.ToLower(strings.TrimSpace(keys[i]))
		lj := strings.ToLower(strings.TrimSpace(keys[j]))
		if li == lj {
			return keys[i] < keys[j]
		}
		return li < lj
	})
	return keys
}

func lookupKeyFold(headers map[string]string, name string) (string, bool) {
	for key := range headers {
		if strings.EqualFold(strings.TrimSpace(key), strings.TrimSpace(name)) {
			return key, true
		}
	}
	return "", false
}
