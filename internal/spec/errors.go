package spec

import "fmt"

// LoadError is for a document that could not be read or parsed.
// Nothing is rendered after a LoadError.
type LoadError struct {
	// Path of the document, empty for in-memory documents
	Path string

	Err error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load document: %v", e.Err)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// StructuralError is for a region tree that can't be traversed: a cycle,
// a region shared by two parents, a duplicate or missing region_id or
// a keyed child collection whose keys disagree with its children.
type StructuralError struct {
	RegionID string
	Reason   string
}

func (e *StructuralError) Error() string {
	if e.RegionID == "" {
		return "invalid region tree: " + e.Reason
	}
	return fmt.Sprintf("invalid region tree at %q: %s", e.RegionID, e.Reason)
}

// MissingFieldWarning is for an optional field that's empty. It never stops
// a render; the field is written as empty or as a null marker.
type MissingFieldWarning struct {
	RegionID string
	Field    string
}

func (w MissingFieldWarning) String() string {
	return fmt.Sprintf("warning: %s has no %s", w.RegionID, w.Field)
}
