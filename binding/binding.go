// Package binding substitutes ${path} placeholders in script text with
// values from caller-supplied data (decoded JSON).
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate replaces every ${path.to[0].value} in text with the value
// found in data. Unresolvable paths keep the original placeholder so a
// typo is visible in the output instead of silently vanishing.
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholder.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		if val, ok := lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

func lookup(data any, path string) (any, bool) {
	current := data
	for _, seg := range strings.Split(path, ".") {
		name, indexes := splitIndexes(seg)
		if name != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			current, ok = m[name]
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// splitIndexes separates "items[2][0]" into "items" and ["2", "0"].
func splitIndexes(seg string) (string, []string) {
	open := strings.IndexByte(seg, '[')
	if open == -1 {
		return seg, nil
	}
	name := seg[:open]
	var indexes []string
	rest := seg[open:]
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			break
		}
		indexes = append(indexes, rest[1:end])
		rest = rest[end+1:]
	}
	return name, indexes
}
