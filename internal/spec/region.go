package spec

import "strings"

// IsLeaf returns whether the region has no child regions.
func (r *Region) IsLeaf() bool {
	return len(r.Regions) == 0
}

// Label is the region's display name, or its id if it has none.
func (r *Region) Label() string {
	if strings.TrimSpace(r.Name) != "" {
		return r.Name
	}
	return r.RegionID
}

// CollectLeaves returns the leaves beneath r from left to right. A leaf's
// only leaf is itself.
//
// The tree is checked as it's walked: a region without an id, a region
// reached twice (its own descendant, or under two parents) and two regions
// with the same id all return a *StructuralError.
func CollectLeaves(r *Region) ([]*Region, error) {
	w := walker{
		onPath: make(map[*Region]bool),
		seen:   make(map[*Region]bool),
		ids:    make(map[string]bool),
	}
	return w.leaves(r)
}

// walker tracks the regions visited during a single traversal.
type walker struct {
	onPath map[*Region]bool
	seen   map[*Region]bool
	ids    map[string]bool
}

func (w *walker) visit(r *Region) error {
	if r == nil {
		return &StructuralError{Reason: "nil region in child list"}
	}
	if r.RegionID == "" {
		return &StructuralError{RegionID: r.Name, Reason: "region has no region_id"}
	}
	if w.onPath[r] {
		return &StructuralError{RegionID: r.RegionID, Reason: "region is its own descendant"}
	}
	if w.seen[r] {
		return &StructuralError{RegionID: r.RegionID, Reason: "region has more than one parent"}
	}
	if w.ids[r.RegionID] {
		return &StructuralError{RegionID: r.RegionID, Reason: "duplicate region_id"}
	}

	w.onPath[r] = true
	w.seen[r] = true
	w.ids[r.RegionID] = true
	return nil
}

func (w *walker) leaves(r *Region) ([]*Region, error) {
	if err := w.visit(r); err != nil {
		return nil, err
	}
	defer delete(w.onPath, r)

	if r.IsLeaf() {
		return []*Region{r}, nil
	}

	var leaves []*Region
	for _, child := range r.Regions {
		childLeaves, err := w.leaves(child)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, childLeaves...)
	}
	return leaves, nil
}

// Check walks the whole tree and returns the first structural problem.
func Check(r *Region) error {
	_, err := CollectLeaves(r)
	return err
}

// EffectiveSequence is the concatenation of the sequences of r's leaves.
func EffectiveSequence(r *Region) (string, error) {
	leaves, err := CollectLeaves(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, l := range leaves {
		sb.WriteString(l.Sequence)
	}
	return sb.String(), nil
}

// Lengths sums the min and max lengths of r's leaves.
func Lengths(r *Region) (minLen, maxLen int, err error) {
	leaves, err := CollectLeaves(r)
	if err != nil {
		return 0, 0, err
	}

	for _, l := range leaves {
		minLen += l.MinLen
		maxLen += l.MaxLen
	}
	return minLen, maxLen, nil
}

// Find returns the first region, in pre-order, with the id. Find assumes
// a tree that has passed Check.
func (r *Region) Find(regionID string) (*Region, bool) {
	if r.RegionID == regionID {
		return r, true
	}
	for _, child := range r.Regions {
		if found, ok := child.Find(regionID); ok {
			return found, true
		}
	}
	return nil, false
}

// Coordinate is a leaf's half-open span, [Start, Stop), within its library
// when every leaf is laid out at its max length.
type Coordinate struct {
	Region *Region
	Start  int
	Stop   int
}

// Project lays leaves end to end.
func Project(leaves []*Region) []Coordinate {
	coords := make([]Coordinate, 0, len(leaves))
	prev := 0
	for _, l := range leaves {
		next := prev + l.MaxLen
		coords = append(coords, Coordinate{Region: l, Start: prev, Stop: next})
		prev = next
	}
	return coords
}
