package discovery

import (
	"path/filepath"
	"strings"

	"pta/internal/domain"
)

// Filter filters test identifiers by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters identifiers by name pattern using wildcard matching.
// The pattern is tried against the file name ("test_api.py"), the test name
// ("TestUsers::test_get") and the full identifier.
// Supports patterns like "test_api*" or "*login*"
func (f *Filter) FilterByName(ids []domain.TestID, pattern string) []domain.TestID {
	if pattern == "" {
		return ids
	}

	var filtered []domain.TestID
	for _, id := range ids {
		candidates := []string{filepath.Base(id.File()), id.Name(), id.String()}
		for _, candidate := range candidates {
			if candidate != "" && matches(pattern, candidate) {
				filtered = append(filtered, id)
				break
			}
		}
	}
	return filtered
}

func matches(pattern, name string) bool {
	// Try filepath.Match first (supports * and ? wildcards)
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	// If no wildcards, do a simple contains check
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// filepath.Match stops at separators; fall back to checking that every
	// non-empty part between wildcards appears in order.
	if !strings.Contains(pattern, "*") {
		return false
	}
	rest := name
	hasNonEmptyPart := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		hasNonEmptyPart = true
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return hasNonEmptyPart
}
