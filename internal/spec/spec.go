// Package spec is the data model of a seqspec document: an assay, its reads
// and one region tree per modality.
package spec

// Sequence types of a Region.
const (
	Fixed    = "fixed"
	Random   = "random"
	Onlisted = "onlist"
	Joined   = "joined"
)

// Strands of a Read.
const (
	Forward = "forward"
	Reverse = "reverse"
)

// Onlist is a reference to a file of allowed sequences for a region,
// eg a barcode whitelist. It is never opened.
type Onlist struct {
	// Filename of the list
	Filename string `yaml:"filename" json:"filename"`

	// MD5 checksum of the list's contents
	MD5 string `yaml:"md5" json:"md5"`

	// Location is either "local" or "remote"
	Location string `yaml:"location" json:"location"`

	// FileID, URL and URLType are set by newer documents
	FileID  string `yaml:"file_id,omitempty" json:"file_id,omitempty"`
	URL     string `yaml:"url,omitempty" json:"url,omitempty"`
	URLType string `yaml:"urltype,omitempty" json:"urltype,omitempty"`
}

// Region is a node in a library's structure: a primer, barcode, UMI, linker,
// insert, etc. A Region without child Regions is a leaf and carries sequence.
type Region struct {
	// RegionID is the region's unique identifier
	RegionID string

	// RegionType is from the region vocabulary, ex: "barcode", "umi"
	RegionType string

	// Name is for display, falls back to RegionID
	Name string

	// SequenceType is one of fixed, random, onlist or joined
	SequenceType string

	// Sequence is the literal sequence of a leaf. For random
	// regions it's a placeholder pattern, ex: "XXXXXXXX"
	Sequence string

	MinLen int
	MaxLen int

	// Onlist is set for regions whose sequence comes from a list
	Onlist *Onlist

	// Regions are the ordered child regions
	Regions []*Region

	// ParentID is the id of the enclosing region, if any
	ParentID string
}

// File is a sequencing file of a Read.
type File struct {
	Filename string `yaml:"filename" json:"filename"`
	MD5      string `yaml:"md5" json:"md5"`
}

// Read is a sequencing read and the primer it starts from.
type Read struct {
	ReadID   string
	Name     string
	Modality string

	// PrimerID is the region_id of the primer the read starts at.
	// It is not checked against the library.
	PrimerID string

	MinLen int
	MaxLen int

	// Strand is Forward or Reverse
	Strand string

	Files []File
}

// Library is the root region of one modality.
type Library struct {
	Modality string
	Root     *Region
}

// Assay is the root of a seqspec document.
type Assay struct {
	SeqspecVersion string
	AssayID        string
	Name           string
	DOI            string
	Date           string
	Description    string
	Sequencer      string

	// Modalities in declaration order, ex: ["RNA", "ATAC"]
	Modalities []string

	// SequenceSpec are the reads of every modality
	SequenceSpec []Read

	// LibrarySpec holds one region tree per modality in document order.
	// Use Library to look one up by its modality.
	LibrarySpec []Library
}

// Library returns the root region of a modality.
func (a *Assay) Library(modality string) (*Region, bool) {
	for _, l := range a.LibrarySpec {
		if l.Modality == modality {
			return l.Root, true
		}
	}
	return nil, false
}

// Reads returns the reads of a modality in declaration order.
func (a *Assay) Reads(modality string) []Read {
	var reads []Read
	for _, r := range a.SequenceSpec {
		if r.Modality == modality {
			reads = append(reads, r)
		}
	}
	return reads
}
