package metric

import (
	"strings"
	"unicode"
)

// normalizeName folds a metric name to its registry key:
// - lower case
// - surrounding space trimmed
// - internal whitespace runs collapsed to one space
func normalizeName(name string) string {
	if name == "" {
		return ""
	}

	var builder strings.Builder
	needSpace := false

	for _, r := range name {
		if unicode.IsSpace(r) {
			// only separate words once something has been written
			if builder.Len() > 0 {
				needSpace = true
			}
			continue
		}
		if needSpace {
			builder.WriteRune(' ')
			needSpace = false
		}
		builder.WriteRune(unicode.ToLower(r))
	}

	return builder.String()
}
