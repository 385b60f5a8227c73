package domain

import "strings"

// Separator splits the file path of a test identifier from its name path.
const Separator = "::"

// TestID names one discoverable or executable test, e.g.
// "tests/test_outcomes.py::TestClass::test_item[param]".
//
// Two TestIDs are equal only if their strings are equal. No normalization is
// applied; pytest decides what an identifier means.
type TestID string

// String returns the identifier as passed to and received from pytest.
func (id TestID) String() string {
	return string(id)
}

// File returns the relative file path part of the identifier. If the
// identifier has no separator it is returned unchanged.
func (id TestID) File() string {
	file, _, _ := strings.Cut(string(id), Separator)
	return file
}

// Name returns the name path after the first separator, or "" if there is none.
func (id TestID) Name() string {
	_, name, _ := strings.Cut(string(id), Separator)
	return name
}

// Parts splits the name path into its components (classes, then the function).
func (id TestID) Parts() []string {
	name := id.Name()
	if name == "" {
		return nil
	}
	return strings.Split(name, Separator)
}

// HasName reports whether the identifier names a single test rather than a file.
func (id TestID) HasName() bool {
	return strings.Contains(string(id), Separator)
}

// Selection is an ordered list of identifiers, file paths or directory paths
// handed to pytest as-is. Entries may overlap.
type Selection []string

// IDs converts the selection to identifiers without altering any entry.
func (s Selection) IDs() []TestID {
	ids := make([]TestID, len(s))
	for i, entry := range s {
		ids[i] = TestID(entry)
	}
	return ids
}

// SelectionOf builds a selection from identifiers, preserving order.
func SelectionOf(ids []TestID) Selection {
	sel := make(Selection, len(ids))
	for i, id := range ids {
		sel[i] = string(id)
	}
	return sel
}
