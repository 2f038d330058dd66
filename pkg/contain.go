package dupescan

import (
	"path/filepath"
	"strings"
)

// CommonPrefix returns the longest leading path shared by all given paths,
// truncated back to the last separator so it never splits a path component:
// "a/foo" and "a/foobar" share the directory "a/", not the string "a/foo".
// The result is either empty or a directory path ending in a separator; the
// degenerate "./" is collapsed to empty since it names no real ancestor.
func CommonPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	prefix := paths[0]
	for _, path := range paths[1:] {
		limit := len(prefix)
		if len(path) < limit {
			limit = len(path)
		}
		i := 0
		for i < limit && prefix[i] == path[i] {
			i++
		}
		prefix = prefix[:i]
		if prefix == "" {
			return ""
		}
	}

	separator := string(filepath.Separator)
	idx := strings.LastIndex(prefix, separator)
	if idx < 0 {
		return ""
	}
	prefix = prefix[:idx+1]
	if prefix == "."+separator {
		return ""
	}
	return prefix
}

// ContainedAncestor returns the first candidate directory whose absolute
// path equals the absolute common prefix of paths, i.e. the group lies
// wholly and exactly under that candidate. A group confined to a deeper
// subdirectory of a candidate does not match; the comparison is strict
// equality, not prefix containment.
func ContainedAncestor(paths []string, candidates []string) (string, bool) {
	prefix := CommonPrefix(paths)
	if prefix == "" || len(candidates) == 0 {
		return "", false
	}

	absPrefix, err := filepath.Abs(prefix)
	if err != nil {
		return "", false
	}
	absPrefix = ensureTrailingSeparator(absPrefix)

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		absCandidate, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if ensureTrailingSeparator(absCandidate) == absPrefix {
			return candidate, true
		}
	}

	return "", false
}

// ensureTrailingSeparator normalizes a directory path for equality checks
func ensureTrailingSeparator(path string) string {
	separator := string(filepath.Separator)
	if strings.HasSuffix(path, separator) {
		return path
	}
	return path + separator
}
