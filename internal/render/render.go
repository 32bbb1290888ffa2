// Package render writes seqspec region trees as HTML.
//
// Every region becomes a collapsible block with its metadata and its
// sequence. A leaf's sequence is its literal sequence; a parent's is the
// concatenation of its leaves' sequences, each wrapped in a span classed by
// the leaf's region_type so a stylesheet can color the library by type.
// Children are written in the order they were declared in, never sorted.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/pachterlab/seqspec/config"
	"github.com/pachterlab/seqspec/internal/spec"
)

// Renderer writes regions, modalities and assay pages. A Renderer holds no
// state between calls and is safe for concurrent use.
type Renderer struct {
	conf config.Config

	// Warn receives a MissingFieldWarning for each empty optional field.
	// It may be called from several goroutines at once. nil drops warnings.
	Warn func(spec.MissingFieldWarning)
}

// New returns a Renderer using the render settings of conf.
func New(conf *config.Config) *Renderer {
	c := *conf
	if c.Render.NullMarker == "" {
		c.Render.NullMarker = config.NullMarker
	}
	return &Renderer{conf: c}
}

func (r *Renderer) warn(id, field string) {
	if r.Warn != nil {
		r.Warn(spec.MissingFieldWarning{RegionID: id, Field: field})
	}
}

// span wraps a sequence in a span classed by its region type.
func span(regionType, seq string) string {
	return fmt.Sprintf(`<span class="%s">%s</span>`, html.EscapeString(regionType), html.EscapeString(seq))
}

// ColorizeSequence joins the sequences of leaves, each in a span of its
// region type. Without the markup it's exactly the leaves' sequences
// concatenated.
func ColorizeSequence(leaves []*spec.Region) string {
	var sb strings.Builder
	for _, l := range leaves {
		sb.WriteString(span(l.RegionType, l.Sequence))
	}
	return sb.String()
}

// RenderRegion writes a region and its descendants. order is the region's
// 0-based index among its siblings.
func (r *Renderer) RenderRegion(region *spec.Region, order int) (string, error) {
	// check the whole subtree before writing any of it
	if err := spec.Check(region); err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := r.region(&sb, region, order, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *Renderer) region(sb *strings.Builder, region *spec.Region, order, depth int) error {
	r.checkFields(region)

	seq := span(region.RegionType, region.Sequence)
	if !region.IsLeaf() {
		leaves, err := spec.CollectLeaves(region)
		if err != nil {
			return err
		}
		seq = ColorizeSequence(leaves)
	}

	pad := strings.Repeat("  ", depth*3)
	line := func(format string, args ...interface{}) {
		sb.WriteString(pad)
		fmt.Fprintf(sb, format, args...)
		sb.WriteString("\n")
	}

	line("<details>")
	line("  <summary>%s</summary>", html.EscapeString(region.Label()))
	line("  <ul>")
	line("    <li>order: %d</li>", order)
	line("    <li>region_type: %s</li>", html.EscapeString(region.RegionType))
	line("    <li>sequence_type: %s</li>", html.EscapeString(region.SequenceType))
	line(`    <li>sequence: <pre class="sequence">%s</pre></li>`, seq)
	line("    <li>min_len: %d</li>", region.MinLen)
	line("    <li>max_len: %d</li>", region.MaxLen)
	line("    <li>onlist: %s</li>", html.EscapeString(r.onlist(region.Onlist)))

	if !region.IsLeaf() {
		line("    <li>")
		line("      regions:")
		line("      <ol>")
		for i, child := range region.Regions {
			line("        <li>")
			if err := r.region(sb, child, i, depth+1); err != nil {
				return err
			}
			line("        </li>")
		}
		line("      </ol>")
		line("    </li>")
	}

	line("  </ul>")
	line("</details>")
	return nil
}

// onlist summarizes an onlist as "<filename> (md5: <md5>)".
func (r *Renderer) onlist(ol *spec.Onlist) string {
	if ol == nil {
		return r.conf.Render.NullMarker
	}
	return fmt.Sprintf("%s (md5: %s)", ol.Filename, ol.MD5)
}

// checkFields warns about a region's empty optional fields.
func (r *Renderer) checkFields(region *spec.Region) {
	id := region.RegionID
	if region.Name == "" {
		r.warn(id, "name")
	}
	if region.RegionType == "" {
		r.warn(id, "region_type")
	}
	if region.SequenceType == "" {
		r.warn(id, "sequence_type")
	}
	if region.IsLeaf() && region.Sequence == "" {
		r.warn(id, "sequence")
	}
	if region.SequenceType == spec.Onlisted && region.Onlist == nil {
		r.warn(id, "onlist")
	}
}
