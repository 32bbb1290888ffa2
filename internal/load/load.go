// Package load turns seqspec documents into the spec data model.
//
// Documents are YAML with custom tags (!Assay, !Region, !Onlist, !Read and
// the legacy !Join) or plain JSON. Tags pick the shape a node decodes into;
// untagged nodes decode by their position in the document. Mappings are
// walked in document order, so keyed child collections keep the order they
// were written in.
package load

import (
	"errors"
	"fmt"

	"github.com/pachterlab/seqspec/internal/io"
	"github.com/pachterlab/seqspec/internal/spec"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// File loads the assay document at path. JSON and JSONC documents
// (".json", ".jsonc") may have comments and trailing commas.
func File(path string) (*spec.Assay, error) {
	dat, err := io.Read(path)
	if err != nil {
		return nil, &spec.LoadError{Path: path, Err: err}
	}

	switch io.Ext(path) {
	case ".json", ".jsonc":
		dat = jsonc.ToJSON(dat)
	}

	assay, err := Assay(dat)
	if err != nil {
		var loadErr *spec.LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	return assay, nil
}

// AssayJSONC decodes a JSON assay document that may have comments and
// trailing commas.
func AssayJSONC(dat []byte) (*spec.Assay, error) {
	return Assay(jsonc.ToJSON(dat))
}

// Assay decodes an assay document.
func Assay(dat []byte) (*spec.Assay, error) {
	root, err := parse(dat)
	if err != nil {
		return nil, err
	}

	d := newDecoder()
	assay, err := d.assay(root)
	if err != nil {
		return nil, classify(err)
	}
	return assay, nil
}

// Regions decodes a document holding a list of regions, or a single region,
// like those written by the assemble package.
func Regions(dat []byte) ([]*spec.Region, error) {
	root, err := parse(dat)
	if err != nil {
		return nil, err
	}

	d := newDecoder()
	node, err := d.deref(root)
	if err != nil {
		return nil, classify(err)
	}

	if node.Kind == yaml.MappingNode {
		r, err := d.region(node)
		if err != nil {
			return nil, classify(err)
		}
		return []*spec.Region{r}, nil
	}

	if node.Kind != yaml.SequenceNode {
		return nil, &spec.LoadError{Err: fmt.Errorf("line %d: document must be a region or a list of regions", node.Line)}
	}

	regions, err := d.regions(node, "")
	if err != nil {
		return nil, classify(err)
	}
	return regions, nil
}

// parse a document into its root node.
func parse(dat []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(dat, &doc); err != nil {
		return nil, &spec.LoadError{Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &spec.LoadError{Err: fmt.Errorf("empty document")}
	}
	return doc.Content[0], nil
}

// classify leaves StructuralErrors as they are and makes everything else
// a LoadError.
func classify(err error) error {
	var structErr *spec.StructuralError
	if errors.As(err, &structErr) {
		return structErr
	}
	return &spec.LoadError{Err: err}
}
