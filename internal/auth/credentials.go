package auth

import (
	"fmt"
	"strings"
)

// parsePairs parses a "left:right,left:right" configuration string.
// Entries are split on the first colon only, so the right-hand side may
// contain colons. Blank entries are skipped; kind prefixes error messages.
func parsePairs(config, kind, leftName, rightName string) (map[string]string, error) {
	trimmed := strings.TrimSpace(config)
	if trimmed == "" {
		return nil, fmt.Errorf("%s: config must not be empty", kind)
	}

	pairs := make(map[string]string)
	for _, entry := range strings.Split(trimmed, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		left, right, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("%s: invalid entry format, expected %s:%s", kind, leftName, rightName)
		}

		left = strings.TrimSpace(left)
		right = strings.TrimSpace(right)
		if left == "" || right == "" {
			return nil, fmt.Errorf("%s: %s and %s must not be empty", kind, leftName, rightName)
		}

		pairs[left] = right
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("%s: no valid entries found", kind)
	}

	return pairs, nil
}
