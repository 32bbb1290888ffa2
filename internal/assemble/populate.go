package assemble

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"gopkg.in/yaml.v3"
)

// Populate reads a document fragment back into its form: the inverse of
// Build. Tags are dropped, an onlist is flattened to its onlist_* fields and
// modalities are comma joined. A fragment may be a bare mapping or a list of
// exactly one; an untagged fragment's kind is guessed from its id field.
func Populate(data []byte) (Kind, Fields, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return "", nil, fmt.Errorf("failed to parse document: empty document")
	}

	root := deref(doc.Content[0])
	if root.Kind == yaml.SequenceNode {
		if len(root.Content) != 1 {
			return "", nil, fmt.Errorf("failed to populate form: expected one list item, got %d", len(root.Content))
		}
		root = deref(root.Content[0])
	}
	if root.Kind != yaml.MappingNode {
		return "", nil, fmt.Errorf("failed to populate form: expected a mapping at line %d", root.Line)
	}

	values := map[string]*yaml.Node{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		values[root.Content[i].Value] = deref(root.Content[i+1])
	}

	kind, err := kindOf(root.Tag, values)
	if err != nil {
		return "", nil, err
	}

	lookup := func(key string) *yaml.Node {
		for _, k := range append([]string{key}, aliases[key]...) {
			if v, ok := values[k]; ok {
				return v
			}
		}
		return nil
	}

	var onlist map[string]string
	if kind == Region {
		onlist = flattenOnlist(lookup("onlist"))
	}

	var fields Fields
	for _, key := range formFields[kind] {
		switch {
		case strings.HasPrefix(key, "onlist_"):
			fields = append(fields, Field{Key: key, Value: onlist[strings.TrimPrefix(key, "onlist_")]})
		case key == "modalities":
			fields = append(fields, Field{Key: key, Value: strings.Join(scalars(lookup(key)), ",")})
		default:
			fields = append(fields, Field{Key: key, Value: scalar(lookup(key))})
		}
	}
	return kind, fields, nil
}

// Highlight writes a document fragment with terminal syntax highlighting.
func Highlight(w io.Writer, doc []byte) error {
	if err := quick.Highlight(w, string(doc), "yaml", "terminal256", "monokai"); err != nil {
		return fmt.Errorf("failed to highlight document: %w", err)
	}
	return nil
}

func kindOf(tag string, values map[string]*yaml.Node) (Kind, error) {
	switch tag {
	case "!Assay":
		return Assay, nil
	case "!Read":
		return Read, nil
	case "!Region":
		return Region, nil
	case "", "!!map":
	default:
		return "", fmt.Errorf("failed to populate form: unsupported tag %s", tag)
	}

	switch {
	case values["region_id"] != nil:
		return Region, nil
	case values["read_id"] != nil:
		return Read, nil
	case values["modalities"] != nil, values["assay_id"] != nil, values["assay"] != nil:
		return Assay, nil
	}
	return "", fmt.Errorf("failed to populate form: untagged document has no region_id, read_id or assay_id")
}

// deref follows aliases to the node they name.
func deref(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && i < 64; i++ {
		n = n.Alias
	}
	return n
}

func scalar(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return ""
	}
	return n.Value
}

// scalars reads a list of scalars, or a single comma separated scalar.
func scalars(n *yaml.Node) []string {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		if s := scalar(n); s != "" {
			return strings.Split(s, ",")
		}
		return nil
	}

	var out []string
	for _, c := range n.Content {
		if s := scalar(deref(c)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func flattenOnlist(n *yaml.Node) map[string]string {
	out := map[string]string{}
	if n == nil || n.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		out[n.Content[i].Value] = scalar(deref(n.Content[i+1]))
	}
	return out
}
