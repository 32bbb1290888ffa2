package load

import (
	"fmt"
	"strings"

	"github.com/pachterlab/seqspec/internal/spec"
	"gopkg.in/yaml.v3"
)

// Custom tags and the nodes they may appear on.
const (
	assayTag  = "!Assay"
	regionTag = "!Region"
	onlistTag = "!Onlist"
	readTag   = "!Read"
	joinTag   = "!Join"
	fileTag   = "!File"
)

var knownTags = map[string]bool{
	assayTag:  true,
	regionTag: true,
	onlistTag: true,
	readTag:   true,
	joinTag:   true,
	fileTag:   true,
}

// decoder walks a parsed document. It tracks the nodes being decoded so
// an alias that points at one of its own ancestors fails instead of
// recursing forever.
type decoder struct {
	onPath map[*yaml.Node]bool
}

func newDecoder() *decoder {
	return &decoder{onPath: make(map[*yaml.Node]bool)}
}

// deref follows aliases to the node they name.
func (d *decoder) deref(n *yaml.Node) (*yaml.Node, error) {
	for hops := 0; n != nil && n.Kind == yaml.AliasNode; hops++ {
		if hops > 64 || n.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolvable alias %q", n.Line, n.Value)
		}
		n = n.Alias
	}
	if n != nil && d.onPath[n] {
		return nil, &spec.StructuralError{Reason: fmt.Sprintf("line %d: alias refers to an enclosing node", n.Line)}
	}
	return n, nil
}

func (d *decoder) enter(n *yaml.Node) { d.onPath[n] = true }
func (d *decoder) leave(n *yaml.Node) { delete(d.onPath, n) }

// tag returns a node's custom tag, or "" for plain nodes.
func tag(n *yaml.Node) string {
	if n.Tag == "" || strings.HasPrefix(n.Tag, "!!") {
		return ""
	}
	return n.Tag
}

// checkTag fails for unknown tags and for known tags out of place.
func checkTag(n *yaml.Node, allowed ...string) error {
	t := tag(n)
	if t == "" {
		return nil
	}
	if !knownTags[t] {
		return fmt.Errorf("line %d: unknown tag %s", n.Line, t)
	}
	for _, a := range allowed {
		if t == a {
			return nil
		}
	}
	if len(allowed) == 0 {
		return fmt.Errorf("line %d: unexpected tag %s", n.Line, t)
	}
	return fmt.Errorf("line %d: unexpected tag %s, want %s", n.Line, t, strings.Join(allowed, " or "))
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// mapping checks that n is a mapping with one of the allowed tags.
func (d *decoder) mapping(n *yaml.Node, what string, allowed ...string) (*yaml.Node, error) {
	n, err := d.deref(n)
	if err != nil {
		return nil, err
	}
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s must be a mapping", n.Line, what)
	}
	if err := checkTag(n, allowed...); err != nil {
		return nil, err
	}
	return n, nil
}

// each calls fn with every key and value of a mapping, in document order.
func each(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) str(n *yaml.Node) (string, error) {
	n, err := d.deref(n)
	if err != nil {
		return "", err
	}
	if isNull(n) {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: expected a scalar", n.Line)
	}
	if err := checkTag(n); err != nil {
		return "", err
	}
	return n.Value, nil
}

func (d *decoder) integer(n *yaml.Node, field string) (int, error) {
	n, err := d.deref(n)
	if err != nil {
		return 0, err
	}
	if isNull(n) {
		return 0, nil
	}

	var v int
	if err := n.Decode(&v); err != nil {
		return 0, fmt.Errorf("line %d: %s is not an integer: %q", n.Line, field, n.Value)
	}
	return v, nil
}

func (d *decoder) strs(n *yaml.Node) ([]string, error) {
	n, err := d.deref(n)
	if err != nil {
		return nil, err
	}
	if isNull(n) {
		return nil, nil
	}

	if n.Kind == yaml.ScalarNode {
		var out []string
		for _, s := range strings.Split(n.Value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	}

	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list", n.Line)
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		s, err := d.str(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// assay decodes the root of a document.
func (d *decoder) assay(root *yaml.Node) (*spec.Assay, error) {
	n, err := d.mapping(root, "assay", assayTag)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("assay is null")
	}
	d.enter(n)
	defer d.leave(n)

	a := &spec.Assay{}
	var library *yaml.Node
	err = each(n, func(key string, v *yaml.Node) (err error) {
		switch key {
		case "seqspec_version":
			a.SeqspecVersion, err = d.str(v)
		case "assay_id", "assay":
			a.AssayID, err = d.str(v)
		case "name":
			a.Name, err = d.str(v)
		case "doi":
			a.DOI, err = d.str(v)
		case "date", "publication_date":
			a.Date, err = d.str(v)
		case "description":
			a.Description, err = d.str(v)
		case "sequencer":
			a.Sequencer, err = d.str(v)
		case "modalities":
			a.Modalities, err = d.strs(v)
		case "sequence_spec":
			a.SequenceSpec, err = d.reads(v)
		case "library_spec", "assay_spec":
			library = v
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	// the library is decoded last, root regions are matched to modalities
	if a.LibrarySpec, err = d.library(library, a.Modalities); err != nil {
		return nil, err
	}
	return a, nil
}

// library decodes library_spec: either a list of root regions or
// a mapping from modality to root region.
func (d *decoder) library(n *yaml.Node, modalities []string) ([]spec.Library, error) {
	n, err := d.deref(n)
	if err != nil || isNull(n) {
		return nil, err
	}
	if err := checkTag(n); err != nil {
		return nil, err
	}
	d.enter(n)
	defer d.leave(n)

	var libs []spec.Library
	seen := make(map[string]bool)
	add := func(modality string, root *spec.Region) error {
		if seen[modality] {
			return &spec.StructuralError{RegionID: root.RegionID, Reason: fmt.Sprintf("second library for modality %q", modality)}
		}
		seen[modality] = true
		libs = append(libs, spec.Library{Modality: modality, Root: root})
		return nil
	}

	switch n.Kind {
	case yaml.SequenceNode:
		for i, item := range n.Content {
			root, err := d.region(item)
			if err != nil {
				return nil, err
			}
			modality := root.RegionID
			if !contains(modalities, modality) && i < len(modalities) {
				modality = modalities[i]
			}
			if err := add(modality, root); err != nil {
				return nil, err
			}
		}
	case yaml.MappingNode:
		err := each(n, func(modality string, v *yaml.Node) error {
			root, err := d.region(v)
			if err != nil {
				return err
			}
			if root.RegionID == "" {
				root.RegionID = modality
			}
			return add(modality, root)
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("line %d: library_spec must be a list or a mapping", n.Line)
	}
	return libs, nil
}

// region decodes a region and its children.
func (d *decoder) region(node *yaml.Node) (*spec.Region, error) {
	n, err := d.mapping(node, "region", regionTag)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("line %d: region is null", node.Line)
	}
	d.enter(n)
	defer d.leave(n)

	r := &spec.Region{}
	var children, join *yaml.Node
	err = each(n, func(key string, v *yaml.Node) (err error) {
		switch key {
		case "region_id":
			r.RegionID, err = d.str(v)
		case "region_type":
			r.RegionType, err = d.str(v)
		case "name":
			r.Name, err = d.str(v)
		case "sequence_type":
			r.SequenceType, err = d.str(v)
		case "sequence":
			r.Sequence, err = d.str(v)
		case "min_len":
			r.MinLen, err = d.integer(v, "min_len")
		case "max_len":
			r.MaxLen, err = d.integer(v, "max_len")
		case "onlist":
			r.Onlist, err = d.onlist(v)
		case "parent_id":
			r.ParentID, err = d.str(v)
		case "regions":
			children = v
		case "join":
			join = v
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if !isNull(join) {
		if !isNull(children) {
			return nil, &spec.StructuralError{RegionID: r.RegionID, Reason: "both regions and join are set"}
		}
		// a join wraps the region set, ex: join: !Join {regions: [...]}
		j, err := d.mapping(join, "join", joinTag)
		if err != nil {
			return nil, err
		}
		if j != nil {
			d.enter(j)
			defer d.leave(j)
			err := each(j, func(key string, v *yaml.Node) error {
				if key == "regions" {
					children = v
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if r.Regions, err = d.regions(children, r.RegionID); err != nil {
		return nil, err
	}
	return r, nil
}

// regions decodes a child collection: a list of regions or a mapping from
// region_id to region. Either way the children keep their document order.
func (d *decoder) regions(node *yaml.Node, parentID string) ([]*spec.Region, error) {
	n, err := d.deref(node)
	if err != nil || isNull(n) {
		return nil, err
	}
	if tag(n) == regionTag {
		return nil, &spec.StructuralError{RegionID: parentID, Reason: "regions must be a list or a mapping keyed by region_id"}
	}
	if err := checkTag(n); err != nil {
		return nil, err
	}
	d.enter(n)
	defer d.leave(n)

	var children []*spec.Region
	adopt := func(child *spec.Region) {
		if child.ParentID == "" {
			child.ParentID = parentID
		}
		children = append(children, child)
	}

	switch n.Kind {
	case yaml.SequenceNode:
		for _, item := range n.Content {
			child, err := d.region(item)
			if err != nil {
				return nil, err
			}
			adopt(child)
		}
	case yaml.MappingNode:
		err := each(n, func(key string, v *yaml.Node) error {
			child, err := d.region(v)
			if err != nil {
				return err
			}
			if child.RegionID == "" {
				child.RegionID = key
			} else if child.RegionID != key {
				return &spec.StructuralError{
					RegionID: child.RegionID,
					Reason:   fmt.Sprintf("keyed as %q under %q", key, parentID),
				}
			}
			adopt(child)
			return nil
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, &spec.StructuralError{RegionID: parentID, Reason: "regions must be a list or a mapping keyed by region_id"}
	}
	return children, nil
}

func (d *decoder) onlist(node *yaml.Node) (*spec.Onlist, error) {
	n, err := d.mapping(node, "onlist", onlistTag)
	if err != nil || n == nil {
		return nil, err
	}

	ol := &spec.Onlist{}
	err = each(n, func(key string, v *yaml.Node) (err error) {
		switch key {
		case "filename":
			ol.Filename, err = d.str(v)
		case "md5":
			ol.MD5, err = d.str(v)
		case "location":
			ol.Location, err = d.str(v)
		case "file_id":
			ol.FileID, err = d.str(v)
		case "url":
			ol.URL, err = d.str(v)
		case "urltype":
			ol.URLType, err = d.str(v)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return ol, nil
}

func (d *decoder) reads(node *yaml.Node) ([]spec.Read, error) {
	n, err := d.deref(node)
	if err != nil || isNull(n) {
		return nil, err
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: sequence_spec must be a list", n.Line)
	}

	reads := make([]spec.Read, 0, len(n.Content))
	for _, item := range n.Content {
		read, err := d.read(item)
		if err != nil {
			return nil, err
		}
		reads = append(reads, read)
	}
	return reads, nil
}

func (d *decoder) read(node *yaml.Node) (spec.Read, error) {
	var read spec.Read
	n, err := d.mapping(node, "read", readTag)
	if err != nil {
		return read, err
	}
	if n == nil {
		return read, fmt.Errorf("line %d: read is null", node.Line)
	}

	err = each(n, func(key string, v *yaml.Node) (err error) {
		switch key {
		case "read_id":
			read.ReadID, err = d.str(v)
		case "name", "read_name":
			read.Name, err = d.str(v)
		case "modality", "read_modality":
			read.Modality, err = d.str(v)
		case "primer_id":
			read.PrimerID, err = d.str(v)
		case "min_len":
			read.MinLen, err = d.integer(v, "min_len")
		case "max_len":
			read.MaxLen, err = d.integer(v, "max_len")
		case "strand":
			var strand string
			strand, err = d.str(v)
			read.Strand = spec.NormalizeStrand(strand)
		case "files":
			read.Files, err = d.files(v)
		}
		return err
	})
	return read, err
}

func (d *decoder) files(node *yaml.Node) ([]spec.File, error) {
	n, err := d.deref(node)
	if err != nil || isNull(n) {
		return nil, err
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: files must be a list", n.Line)
	}

	var files []spec.File
	for _, item := range n.Content {
		m, err := d.mapping(item, "file", fileTag)
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}

		var f spec.File
		var fileID string
		err = each(m, func(key string, v *yaml.Node) (err error) {
			switch key {
			case "filename":
				f.Filename, err = d.str(v)
			case "file_id":
				fileID, err = d.str(v)
			case "md5":
				f.MD5, err = d.str(v)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		if f.Filename == "" {
			f.Filename = fileID
		}
		files = append(files, f)
	}
	return files, nil
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
