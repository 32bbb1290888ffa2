package spec

import (
	"errors"
	"reflect"
	"testing"
)

func leaf(id, regionType, seq string) *Region {
	return &Region{
		RegionID:     id,
		RegionType:   regionType,
		SequenceType: Fixed,
		Sequence:     seq,
		MinLen:       len(seq),
		MaxLen:       len(seq),
	}
}

func ids(regions []*Region) []string {
	out := []string{}
	for _, r := range regions {
		out = append(out, r.RegionID)
	}
	return out
}

func Test_CollectLeaves(t *testing.T) {
	single := leaf("bc", "barcode", "ACGT")

	nested := &Region{
		RegionID: "rna",
		Regions: []*Region{
			leaf("p5", "illumina_p5", "AATG"),
			{
				RegionID: "read1",
				Regions: []*Region{
					leaf("z_bc", "barcode", "NNNN"),
					leaf("a_umi", "umi", "XXXX"),
				},
			},
			leaf("cdna", "cdna", "X"),
		},
	}

	tests := []struct {
		name   string
		region *Region
		want   []string
	}{
		{
			"a leaf is its own only leaf",
			single,
			[]string{"bc"},
		},
		{
			"leaves in declaration order, not id order",
			nested,
			[]string{"p5", "z_bc", "a_umi", "cdna"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CollectLeaves(tt.region)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("CollectLeaves() = %v, want %v", ids(got), tt.want)
			}
		})
	}

	if got, _ := CollectLeaves(single); len(got) != 1 || got[0] != single {
		t.Errorf("CollectLeaves() on a leaf should return the leaf itself, got %v", got)
	}
}

func Test_CollectLeaves_structural(t *testing.T) {
	selfRef := &Region{RegionID: "loop"}
	inner := &Region{RegionID: "inner", Regions: []*Region{selfRef}}
	selfRef.Regions = []*Region{leaf("a", "barcode", "A"), inner}

	shared := leaf("shared", "linker", "GG")
	twoParents := &Region{
		RegionID: "root",
		Regions: []*Region{
			{RegionID: "left", Regions: []*Region{shared}},
			{RegionID: "right", Regions: []*Region{shared}},
		},
	}

	dupIDs := &Region{
		RegionID: "root",
		Regions:  []*Region{leaf("x", "barcode", "A"), leaf("x", "umi", "C")},
	}

	noID := &Region{
		RegionID: "root",
		Regions:  []*Region{{Name: "unnamed", Sequence: "A"}},
	}

	tests := []struct {
		name   string
		region *Region
		id     string
	}{
		{"self reference", selfRef, "loop"},
		{"region under two parents", twoParents, "shared"},
		{"duplicate ids", dupIDs, "x"},
		{"missing region_id", noID, "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CollectLeaves(tt.region)

			var structErr *StructuralError
			if !errors.As(err, &structErr) {
				t.Fatalf("CollectLeaves() err = %v, want a StructuralError", err)
			}
			if structErr.RegionID != tt.id {
				t.Errorf("StructuralError.RegionID = %q, want %q", structErr.RegionID, tt.id)
			}
		})
	}
}

func Test_CollectLeaves_fresh(t *testing.T) {
	root := &Region{
		RegionID: "root",
		Regions:  []*Region{leaf("a", "barcode", "A"), leaf("b", "umi", "C")},
	}

	first, _ := CollectLeaves(root)
	second, _ := CollectLeaves(root)
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("leaves leaked between calls: %d then %d", len(first), len(second))
	}
}

func Test_EffectiveSequence(t *testing.T) {
	root := &Region{
		RegionID: "root",
		Regions: []*Region{
			leaf("p", "primer", "AAAA"),
			{RegionID: "mid", Regions: []*Region{leaf("b", "barcode", "CCCC"), leaf("u", "umi", "GG")}},
			leaf("t", "linker", "T"),
		},
	}

	got, err := EffectiveSequence(root)
	if err != nil {
		t.Fatal(err)
	}
	if want := "AAAACCCCGGT"; got != want {
		t.Errorf("EffectiveSequence() = %s, want %s", got, want)
	}

	minLen, maxLen, err := Lengths(root)
	if err != nil || minLen != 11 || maxLen != 11 {
		t.Errorf("Lengths() = %d, %d, %v", minLen, maxLen, err)
	}
}

func Test_Find(t *testing.T) {
	target := leaf("umi", "umi", "XXXX")
	root := &Region{
		RegionID: "root",
		Regions:  []*Region{{RegionID: "r1", Regions: []*Region{leaf("bc", "barcode", "N"), target}}},
	}

	if got, ok := root.Find("umi"); !ok || got != target {
		t.Errorf("Find(umi) = %v, %v", got, ok)
	}
	if _, ok := root.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
}

func Test_Label(t *testing.T) {
	if got := (&Region{RegionID: "id", Name: "name"}).Label(); got != "name" {
		t.Errorf("Label() = %s", got)
	}
	if got := (&Region{RegionID: "id", Name: " "}).Label(); got != "id" {
		t.Errorf("Label() = %s, want id fallback", got)
	}
}

func Test_Complement(t *testing.T) {
	tests := []struct {
		seq  string
		want string
	}{
		{"ACGT", "TGCA"},
		{"acgtn", "TGCAN"},
		{"XXRY", "XXYR"},
		{"A?Z", "TNN"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Complement(tt.seq); got != tt.want {
			t.Errorf("Complement(%s) = %s, want %s", tt.seq, got, tt.want)
		}
	}
}

func Test_Project(t *testing.T) {
	leaves := []*Region{leaf("a", "primer", "AAA"), leaf("b", "barcode", "CC")}
	coords := Project(leaves)

	if len(coords) != 2 {
		t.Fatalf("got %d coordinates", len(coords))
	}
	if coords[0].Start != 0 || coords[0].Stop != 3 || coords[1].Start != 3 || coords[1].Stop != 5 {
		t.Errorf("Project() = %+v", coords)
	}
}

func Test_NormalizeStrand(t *testing.T) {
	for in, want := range map[string]string{
		"pos":     Forward,
		"forward": Forward,
		"NEG":     Reverse,
		"-":       Reverse,
		"other":   "other",
	} {
		if got := NormalizeStrand(in); got != want {
			t.Errorf("NormalizeStrand(%s) = %s, want %s", in, got, want)
		}
	}
}
