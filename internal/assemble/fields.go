// Package assemble builds seqspec document fragments from flat form records
// and reads them back into records.
package assemble

import (
	"fmt"
	"strings"
)

// Kind is the kind of document fragment a form builds.
type Kind string

const (
	// Assay is a top-level !Assay mapping
	Assay Kind = "assay"

	// Read is a "- !Read" list item
	Read Kind = "read"

	// Region is a "- !Region" list item
	Region Kind = "region"
)

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case Assay, Read, Region:
		return k, nil
	}
	return "", fmt.Errorf("unknown document kind %q, use assay, read or region", s)
}

// Field is one key/value of a form.
type Field struct {
	Key   string
	Value string
}

// Fields is an ordered flat form record.
type Fields []Field

// formFields are the keys of each kind's form, in output order.
var formFields = map[Kind][]string{
	Assay:  {"seqspec_version", "assay_id", "sequencer", "name", "doi", "date", "description", "modalities"},
	Read:   {"read_id", "name", "modality", "primer_id", "min_len", "max_len", "strand"},
	Region: {"region_id", "region_type", "name", "sequence_type", "sequence", "min_len", "max_len", "onlist_location", "onlist_filename", "onlist_md5"},
}

// aliases are older names of a key, looked up when the key itself is missing.
var aliases = map[string][]string{
	"assay_id": {"assay"},
	"date":     {"publication_date"},
	"name":     {"read_name"},
	"modality": {"read_modality"},
}

// Keys returns the form keys of a kind in output order.
func Keys(k Kind) []string {
	return append([]string(nil), formFields[k]...)
}

// Get returns the value of key, or of one of its aliases, and "" if neither
// is set.
func (f Fields) Get(key string) string {
	for _, k := range append([]string{key}, aliases[key]...) {
		for _, field := range f {
			if field.Key == k {
				return field.Value
			}
		}
	}
	return ""
}

// Set replaces the value of key or appends it.
func (f *Fields) Set(key, value string) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: value})
}
