package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/pachterlab/seqspec/internal/spec"
)

// MaxArrowWidth caps the width of a read arrow, its padding included.
// Wider arrows are skipped with a warning.
const MaxArrowWidth = 1 << 16

// RenderModality writes a modality's library: a header with the root's
// colorized sequence, its complement and the reads laid over it, then the
// block of the root region. The header is titled by modality, or by the
// root's label if modality is empty.
func (r *Renderer) RenderModality(modality string, root *spec.Region, reads []spec.Read) (string, error) {
	leaves, err := spec.CollectLeaves(root)
	if err != nil {
		return "", err
	}
	minLen, maxLen, err := spec.Lengths(root)
	if err != nil {
		return "", err
	}
	if modality == "" {
		modality = root.Label()
	}

	block, err := r.RenderRegion(root, 0)
	if err != nil {
		return "", err
	}

	fwd, rev := r.Arrows(root, reads)

	var seq strings.Builder
	plain := make([]string, 0, len(leaves))
	for _, l := range leaves {
		plain = append(plain, l.Sequence)
	}
	for _, a := range fwd {
		seq.WriteString(html.EscapeString(a) + "\n")
	}
	seq.WriteString(ColorizeSequence(leaves) + "\n")
	seq.WriteString(html.EscapeString(spec.Complement(strings.Join(plain, ""))))
	for _, a := range rev {
		seq.WriteString("\n" + html.EscapeString(a))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<div class=\"modality\" id=\"%s\">\n", html.EscapeString(root.RegionID))
	fmt.Fprintf(&sb, "<h6 style=\"text-align: center\">%s</h6>\n", html.EscapeString(modality))
	fmt.Fprintf(&sb, "<p class=\"lengths\">length: %d-%d</p>\n", minLen, maxLen)
	sb.WriteString("<pre class=\"library\" style=\"overflow-x: auto; text-align: left; background-color: #f6f8fa\">\n")
	sb.WriteString(seq.String())
	sb.WriteString("</pre>\n")
	sb.WriteString(block)
	sb.WriteString("</div>\n")
	return sb.String(), nil
}

// Arrows draws each read under or over the library it sequences, starting at
// the end of its primer. Forward reads point right and are drawn above the
// library, reverse reads point left and are drawn below it:
//
//	                 |---------->(1) R1.fastq.gz
//	ACGTACGTACGTACGTACGTACGTACGTACGTACGT
//	<------|(2) R2.fastq.gz
//
// Leaves are laid out at their max lengths. A read whose primer isn't in the
// library, or whose arrow would be wider than MaxArrowWidth, is skipped with
// a warning. root must have passed spec.Check.
func (r *Renderer) Arrows(root *spec.Region, reads []spec.Read) (fwd, rev []string) {
	for i, read := range reads {
		idx := i + 1
		if read.PrimerID == "" {
			r.warn(read.ReadID, "primer_id")
			continue
		}
		if _, ok := root.Find(read.PrimerID); !ok {
			r.warn(read.ReadID, "primer_id")
			continue
		}

		leaves := leavesThrough(root, read.PrimerID)
		primer := 0
		for j, l := range leaves {
			if l.RegionID == read.PrimerID {
				primer = j
				break
			}
		}
		pos := spec.Project(leaves)[primer]

		var pad int
		switch read.Strand {
		case spec.Forward:
			pad = max(pos.Stop-1, 0)
		case spec.Reverse:
			pad = max(pos.Start-read.MaxLen, 0)
		default:
			r.warn(read.ReadID, "strand")
			continue
		}
		if read.MaxLen < 0 || pos.Stop > MaxArrowWidth || read.MaxLen > MaxArrowWidth || pad+read.MaxLen > MaxArrowWidth {
			r.warn(read.ReadID, "max_len")
			continue
		}

		ws := strings.Repeat(" ", pad)
		shaft := strings.Repeat("-", max(read.MaxLen-1, 0))
		if read.Strand == spec.Forward {
			fwd = append(fwd, fmt.Sprintf("%s|%s>(%d) %s", ws, shaft, idx, read.ReadID))
		} else {
			rev = append(rev, fmt.Sprintf("%s<%s|(%d) %s", ws, shaft, idx, read.ReadID))
		}
	}
	return fwd, rev
}

// leavesThrough is like spec.CollectLeaves but stops descending at the
// region with id, so a primer made of sub-regions is still one leaf.
func leavesThrough(region *spec.Region, id string) []*spec.Region {
	if region.IsLeaf() || region.RegionID == id {
		return []*spec.Region{region}
	}

	var leaves []*spec.Region
	for _, child := range region.Regions {
		leaves = append(leaves, leavesThrough(child, id)...)
	}
	return leaves
}
