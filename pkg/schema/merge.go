package schema

import "path/filepath"

// MergeUnique returns base followed by the additions that are not already
// part of base, compared by full path and by base name. base is not
// modified.
func MergeUnique(base, additions []string) []string {
	result := make([]string, len(base), len(base)+len(additions))
	copy(result, base)

	seenPath := make(map[string]bool, len(base))
	seenName := make(map[string]bool, len(base))
	for _, p := range base {
		seenPath[p] = true
		seenName[filepath.Base(p)] = true
	}

	for _, p := range additions {
		if seenPath[p] || seenName[filepath.Base(p)] {
			continue
		}
		result = append(result, p)
	}
	return result
}
