package assemble

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Build builds the document fragment of a kind from its form fields.
func Build(k Kind, f Fields) ([]byte, error) {
	switch k {
	case Assay:
		return BuildAssay(f)
	case Read:
		return BuildRead(f)
	case Region:
		return BuildRegion(f)
	}
	return nil, fmt.Errorf("unknown document kind %q", k)
}

// BuildAssay builds an !Assay mapping. Modalities are comma separated. The
// reads and the library are left null for the Read and Region forms to fill.
func BuildAssay(f Fields) ([]byte, error) {
	var modalities []string
	for _, m := range strings.Split(f.Get("modalities"), ",") {
		if m = strings.TrimSpace(m); m != "" {
			modalities = append(modalities, m)
		}
	}

	m := mapping("!Assay")
	add(m, "seqspec_version", str(f.Get("seqspec_version")))
	add(m, "assay_id", str(f.Get("assay_id")))
	add(m, "sequencer", str(f.Get("sequencer")))
	add(m, "name", str(f.Get("name")))
	add(m, "doi", str(f.Get("doi")))
	add(m, "date", str(f.Get("date")))
	add(m, "description", str(f.Get("description")))
	add(m, "modalities", list(modalities))
	add(m, "sequence_spec", null())
	add(m, "library_spec", null())

	return encode(m)
}

// BuildRead builds a "- !Read" list item.
func BuildRead(f Fields) ([]byte, error) {
	minLen, maxLen, err := lengths(f)
	if err != nil {
		return nil, err
	}

	m := mapping("!Read")
	add(m, "read_id", str(f.Get("read_id")))
	add(m, "name", str(f.Get("name")))
	add(m, "modality", str(f.Get("modality")))
	add(m, "primer_id", str(f.Get("primer_id")))
	add(m, "min_len", minLen)
	add(m, "max_len", maxLen)
	add(m, "strand", str(f.Get("strand")))

	return encode(item(m))
}

// BuildRegion builds a "- !Region" list item. Its onlist is only set if
// onlist_location is. Its regions are null: regions are built one at a time
// and nested by hand.
func BuildRegion(f Fields) ([]byte, error) {
	minLen, maxLen, err := lengths(f)
	if err != nil {
		return nil, err
	}

	onlist := null()
	if loc := f.Get("onlist_location"); loc != "" {
		onlist = mapping("!Onlist")
		add(onlist, "location", str(loc))
		add(onlist, "filename", str(f.Get("onlist_filename")))
		add(onlist, "md5", str(f.Get("onlist_md5")))
	}

	m := mapping("!Region")
	add(m, "region_id", str(f.Get("region_id")))
	add(m, "region_type", str(f.Get("region_type")))
	add(m, "name", str(f.Get("name")))
	add(m, "sequence_type", str(f.Get("sequence_type")))
	add(m, "sequence", str(f.Get("sequence")))
	add(m, "min_len", minLen)
	add(m, "max_len", maxLen)
	add(m, "onlist", onlist)
	add(m, "regions", null())

	return encode(item(m))
}

// lengths parses the min_len and max_len fields.
func lengths(f Fields) (minLen, maxLen *yaml.Node, err error) {
	if minLen, err = integer(f, "min_len"); err != nil {
		return nil, nil, err
	}
	if maxLen, err = integer(f, "max_len"); err != nil {
		return nil, nil, err
	}
	return minLen, maxLen, nil
}

func integer(f Fields, key string) (*yaml.Node, error) {
	v := strings.TrimSpace(f.Get(key))
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s, %q is not an integer", key, v)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}, nil
}

func mapping(tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: tag}
}

func add(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func null() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func list(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		seq.Content = append(seq.Content, str(v))
	}
	return seq
}

// item wraps a node as the only entry of a list.
func item(n *yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{n}}
}

func encode(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}
