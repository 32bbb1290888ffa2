// Package term prints seqspec libraries to a terminal, colored by region type.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pachterlab/seqspec/internal/render"
	"github.com/pachterlab/seqspec/internal/spec"
)

// colors of the region types, the same as the page stylesheet's
var colors = map[string]string{
	"illumina_p5":   "#08519c",
	"illumina_p7":   "#a50f15",
	"nextera_read1": "#bcbddc",
	"nextera_read2": "#9ebcda",
	"truseq_read1":  "#4a1486",
	"truseq_read2":  "#6a51a3",
	"ME1":           "#969696",
	"ME2":           "#969696",
	"s5":            "#6baed6",
	"s7":            "#fc9272",
	"index5":        "#31a354",
	"index7":        "#31a354",
	"barcode":       "#f768a1",
	"umi":           "#807dba",
	"linker":        "#bdbdbd",
	"gdna":          "#f03b20",
	"cdna":          "#7e331f",
	"poly_A":        "#636363",
	"poly_T":        "#636363",
}

// Printer writes libraries as colored text.
type Printer struct {
	lip      *lipgloss.Renderer
	renderer *render.Renderer
	header   lipgloss.Style
}

// New returns a Printer writing to w with the color profile p. It uses
// renderer to lay out reads.
func New(w io.Writer, p termenv.Profile, renderer *render.Renderer) *Printer {
	lip := lipgloss.NewRenderer(w, termenv.WithProfile(p))
	lip.SetColorProfile(p)

	return &Printer{
		lip:      lip,
		renderer: renderer,
		header:   lip.NewStyle().Bold(true),
	}
}

// Colorize joins the sequences of leaves, each colored by its region type.
// Leaves of an unknown type are left plain.
func (p *Printer) Colorize(leaves []*spec.Region) string {
	var sb strings.Builder
	for _, l := range leaves {
		c, ok := colors[l.RegionType]
		if !ok {
			sb.WriteString(l.Sequence)
			continue
		}
		sb.WriteString(p.lip.NewStyle().Foreground(lipgloss.Color(c)).Render(l.Sequence))
	}
	return sb.String()
}

// Library writes a modality's library: its name, the forward reads, the
// colored sequence, its complement and the reverse reads. The root's label
// stands in for an empty modality.
func (p *Printer) Library(w io.Writer, modality string, root *spec.Region, reads []spec.Read) error {
	leaves, err := spec.CollectLeaves(root)
	if err != nil {
		return err
	}
	seq, err := spec.EffectiveSequence(root)
	if err != nil {
		return err
	}

	fwd, rev := p.renderer.Arrows(root, reads)
	if modality == "" {
		modality = root.Label()
	}

	var sb strings.Builder
	sb.WriteString(p.header.Render(modality) + "\n")
	for _, a := range fwd {
		sb.WriteString(a + "\n")
	}
	sb.WriteString(p.Colorize(leaves) + "\n")
	sb.WriteString(spec.Complement(seq) + "\n")
	for _, a := range rev {
		sb.WriteString(a + "\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write library: %w", err)
	}
	return nil
}

// Assay writes the library of each modality in modality order.
func (p *Printer) Assay(w io.Writer, assay *spec.Assay) error {
	for i, modality := range assay.Modalities {
		root, ok := assay.Library(modality)
		if !ok || root == nil {
			return &spec.StructuralError{RegionID: modality, Reason: "no library_spec for modality"}
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("failed to write library: %w", err)
			}
		}
		if err := p.Library(w, modality, root, assay.Reads(modality)); err != nil {
			return err
		}
	}
	return nil
}
