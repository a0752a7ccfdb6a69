package cache

import (
	"strings"
)

// normalizeQuery lowercases the query, collapses whitespace and escapes characters
// that are problematic for Redis keys.
func normalizeQuery(q string) string {
	q = strings.ToLower(strings.Join(strings.Fields(q), " "))
	q = strings.ReplaceAll(q, " ", "_")
	q = strings.ReplaceAll(q, ":", "_")
	return q
}
