// Package repository implements the evidence resolver variants against the
// literature store. Each variant issues one batch query per request and
// merges the returned full text into the caller's partial article records.
package repository

import (
	"fmt"
	"strings"
)

// placeholders builds a "$1, $2, ..., $n" list for a batch IN clause.
func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}
