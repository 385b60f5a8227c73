package command

import (
	"strings"

	"pta/internal/domain"
)

// Resolve returns the positional arguments for a selection. Entries are
// copied unchanged: pytest expands files and directories itself.
func Resolve(selection []string) []string {
	if len(selection) == 0 {
		return nil
	}
	out := make([]string, len(selection))
	copy(out, selection)
	return out
}

// Overlap describes two selection entries where one contains the other.
// pytest does not deduplicate these, so the contained tests run twice.
type Overlap struct {
	Outer string
	Inner string
}

// Overlaps finds entries covered by another entry of the same selection.
// Containment is decided on the strings alone: "a/b.py" covers
// "a/b.py::test_x", and "a" covers "a/b.py". Identical entries overlap too.
func Overlaps(selection []string) []Overlap {
	var found []Overlap
	for i, outer := range selection {
		for j, inner := range selection {
			if i == j {
				continue
			}
			if outer == inner && j < i {
				continue
			}
			if covers(outer, inner) {
				found = append(found, Overlap{Outer: outer, Inner: inner})
			}
		}
	}
	return found
}

func covers(outer, inner string) bool {
	outer = strings.TrimSuffix(outer, "/")
	if outer == "" || outer == "." {
		return inner != outer
	}
	if outer == inner {
		return true
	}
	if domain.TestID(outer).HasName() {
		return strings.HasPrefix(inner, outer+domain.Separator) ||
			strings.HasPrefix(inner, outer+"[")
	}
	return strings.HasPrefix(inner, outer+domain.Separator) ||
		strings.HasPrefix(inner, outer+"/")
}
