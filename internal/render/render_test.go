package render

import (
	"errors"
	"html"
	"path"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/pachterlab/seqspec/config"
	"github.com/pachterlab/seqspec/internal/load"
	"github.com/pachterlab/seqspec/internal/spec"
)

var markup = regexp.MustCompile(`<[^>]+>`)

// strip removes the markup from a colorized sequence.
func strip(s string) string {
	return html.UnescapeString(markup.ReplaceAllString(s, ""))
}

func testConfig(parallel bool) *config.Config {
	return &config.Config{
		Parallel: parallel,
		Render: config.RenderConfig{
			Stylesheet: "styles.css",
			BackLink:   "../index.html",
		},
	}
}

func leaf(id, regionType, seq string) *spec.Region {
	return &spec.Region{
		RegionID:     id,
		RegionType:   regionType,
		Name:         id,
		SequenceType: spec.Fixed,
		Sequence:     seq,
		MinLen:       len(seq),
		MaxLen:       len(seq),
	}
}

func Test_ColorizeSequence(t *testing.T) {
	leaves := []*spec.Region{leaf("p", "primer", "AAAA"), leaf("b", "barcode", "CCCC")}

	got := ColorizeSequence(leaves)
	want := `<span class="primer">AAAA</span><span class="barcode">CCCC</span>`
	if got != want {
		t.Errorf("ColorizeSequence() = %s, want %s", got, want)
	}

	if ColorizeSequence(nil) != "" {
		t.Error("ColorizeSequence() of no leaves should be empty")
	}
}

// the colorized sequence of any subtree is its leaves' sequences, in order
func Test_ColorizeSequence_lossless(t *testing.T) {
	assay, err := load.File(path.Join("..", "..", "test", "input", "legacy.spec.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	root, _ := assay.Library("RNA")

	var check func(r *spec.Region)
	check = func(r *spec.Region) {
		leaves, err := spec.CollectLeaves(r)
		if err != nil {
			t.Fatal(err)
		}
		want, _ := spec.EffectiveSequence(r)
		if got := strip(ColorizeSequence(leaves)); got != want {
			t.Errorf("%s: stripped sequence = %s, want %s", r.RegionID, got, want)
		}
		for _, c := range r.Regions {
			check(c)
		}
	}
	check(root)

	want := "AATGATACGGCGACCACCGAGATCT" + "NNNNNNNNNNNNNNNN" + "XXXXXXXXXX" + "X"
	leaves, _ := spec.CollectLeaves(root)
	if got := strip(ColorizeSequence(leaves)); got != want {
		t.Errorf("full sequence = %s, want %s", got, want)
	}
}

func Test_RenderRegion(t *testing.T) {
	bc := leaf("R1", "barcode", "ACGT")
	listed := leaf("cb", "barcode", "NNNN")
	listed.SequenceType = spec.Onlisted
	listed.Onlist = &spec.Onlist{Filename: "737K.txt", MD5: "a88c", Location: "local"}

	tests := []struct {
		name   string
		region *spec.Region
		order  int
		want   []string
	}{
		{
			"leaf",
			bc,
			0,
			[]string{
				"<summary>R1</summary>",
				"<li>order: 0</li>",
				"<li>region_type: barcode</li>",
				"<li>sequence_type: fixed</li>",
				`<pre class="sequence"><span class="barcode">ACGT</span></pre>`,
				"<li>min_len: 4</li>",
				"<li>max_len: 4</li>",
				"<li>onlist: None</li>",
			},
		},
		{
			"onlist summary",
			listed,
			3,
			[]string{
				"<li>order: 3</li>",
				"<li>onlist: 737K.txt (md5: a88c)</li>",
			},
		},
		{
			"parent shows its leaves",
			&spec.Region{
				RegionID: "read1",
				Regions:  []*spec.Region{leaf("p", "primer", "AAAA"), leaf("b", "barcode", "CCCC")},
			},
			0,
			[]string{
				"<summary>read1</summary>",
				`<pre class="sequence"><span class="primer">AAAA</span><span class="barcode">CCCC</span></pre>`,
				"<ol>",
				"<li>order: 1</li>",
			},
		},
	}

	r := New(testConfig(false))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderRegion(tt.region, tt.order)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("RenderRegion() missing %q in:\n%s", w, got)
				}
			}
		})
	}
}

// siblings are written in declaration order even when their ids sort otherwise
func Test_RenderRegion_order(t *testing.T) {
	root := &spec.Region{
		RegionID: "root",
		Regions: []*spec.Region{
			leaf("zeta", "primer", "AA"),
			leaf("alpha", "barcode", "CC"),
			leaf("mu", "umi", "GG"),
		},
	}

	got, err := New(testConfig(false)).RenderRegion(root, 0)
	if err != nil {
		t.Fatal(err)
	}

	z := strings.Index(got, "<summary>zeta</summary>")
	a := strings.Index(got, "<summary>alpha</summary>")
	m := strings.Index(got, "<summary>mu</summary>")
	if z < 0 || a < 0 || m < 0 || !(z < a && a < m) {
		t.Errorf("siblings out of order: zeta=%d alpha=%d mu=%d", z, a, m)
	}
}

func Test_RenderRegion_structural(t *testing.T) {
	loop := &spec.Region{RegionID: "loop"}
	loop.Regions = []*spec.Region{leaf("a", "barcode", "A"), loop}

	_, err := New(testConfig(false)).RenderRegion(loop, 0)

	var structErr *spec.StructuralError
	if !errors.As(err, &structErr) {
		t.Fatalf("err = %v, want a StructuralError", err)
	}
}

func Test_RenderRegion_escapes(t *testing.T) {
	r := leaf("x", "barcode", "AC<script>")
	r.Name = "<b>name</b>"

	got, err := New(testConfig(false)).RenderRegion(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "<script>") || strings.Contains(got, "<b>") {
		t.Errorf("RenderRegion() did not escape text:\n%s", got)
	}
}

func Test_RenderRegion_warnings(t *testing.T) {
	r := &spec.Region{RegionID: "bare", SequenceType: spec.Onlisted}

	var warnings []spec.MissingFieldWarning
	rend := New(testConfig(false))
	rend.Warn = func(w spec.MissingFieldWarning) { warnings = append(warnings, w) }

	got, err := rend.RenderRegion(r, 0)
	if err != nil {
		t.Fatalf("missing fields shouldn't fail a render: %v", err)
	}
	if !strings.Contains(got, "<summary>bare</summary>") {
		t.Errorf("label should fall back to the region_id:\n%s", got)
	}

	fields := map[string]bool{}
	for _, w := range warnings {
		fields[w.Field] = true
	}
	for _, f := range []string{"name", "region_type", "sequence", "onlist"} {
		if !fields[f] {
			t.Errorf("no warning for %s, got %v", f, warnings)
		}
	}
}

func Test_Arrows(t *testing.T) {
	root := &spec.Region{
		RegionID: "RNA",
		Regions:  []*spec.Region{leaf("p", "primer", "AAAA"), leaf("b", "barcode", "CCCC")},
	}
	reads := []spec.Read{
		{ReadID: "R1", PrimerID: "p", MaxLen: 3, Strand: spec.Forward},
		{ReadID: "R2", PrimerID: "b", MaxLen: 2, Strand: spec.Reverse},
		{ReadID: "R3", PrimerID: "missing", MaxLen: 2, Strand: spec.Forward},
	}

	var warned []string
	r := New(testConfig(false))
	r.Warn = func(w spec.MissingFieldWarning) { warned = append(warned, w.RegionID) }

	fwd, rev := r.Arrows(root, reads)
	if len(fwd) != 1 || fwd[0] != "   |-->(1) R1" {
		t.Errorf("forward arrows = %q", fwd)
	}
	if len(rev) != 1 || rev[0] != "  <-|(2) R2" {
		t.Errorf("reverse arrows = %q", rev)
	}
	if len(warned) != 1 || warned[0] != "R3" {
		t.Errorf("warnings = %v, want R3", warned)
	}
}

func Test_RenderModality(t *testing.T) {
	root := &spec.Region{
		RegionID: "RNA",
		Name:     "RNA",
		Regions:  []*spec.Region{leaf("p", "primer", "AAAA"), leaf("b", "barcode", "CCCC")},
	}

	got, err := New(testConfig(false)).RenderModality("", root, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, w := range []string{
		`<h6 style="text-align: center">RNA</h6>`,
		`<p class="lengths">length: 8-8</p>`,
		`<span class="primer">AAAA</span><span class="barcode">CCCC</span>`,
		"TTTTGGGG",
		"<summary>RNA</summary>",
	} {
		if !strings.Contains(got, w) {
			t.Errorf("RenderModality() missing %q in:\n%s", w, got)
		}
	}
}

func Test_RenderAssayPage(t *testing.T) {
	assay, err := load.File(path.Join("..", "..", "test", "input", "dogma.spec.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	for _, parallel := range []bool{false, true} {
		var mu sync.Mutex
		var warnings []spec.MissingFieldWarning

		r := New(testConfig(parallel))
		r.Warn = func(w spec.MissingFieldWarning) {
			mu.Lock()
			defer mu.Unlock()
			warnings = append(warnings, w)
		}

		page, err := r.RenderAssayPage(assay)
		if err != nil {
			t.Fatal(err)
		}

		// library_spec lists ATAC first, modalities list RNA first
		rna := strings.Index(page, `<div class="modality" id="RNA">`)
		atac := strings.Index(page, `<div class="modality" id="ATAC">`)
		if rna < 0 || atac < 0 || rna > atac {
			t.Errorf("parallel=%v: modalities out of order, RNA=%d ATAC=%d", parallel, rna, atac)
		}

		for _, w := range []string{
			"<!DOCTYPE html>",
			`<link rel="stylesheet" type="text/css" href="styles.css" />`,
			`<h6><a href="../index.html">Back</a></h6>`,
			`<a href="https://doi.org/10.1186/s13059-022-02698-8">`,
			"<p>DOGMAseq with digitonin",
			"<li>RNA, ATAC</li>",
			"<h3>Sequence structure</h3>",
			"<li>read_id: R1.fastq.gz</li>",
			"<li>R1.fastq.gz (md5: 1f2b0d3a)</li>",
			"<li>onlist: 737K-arc-v1.txt (md5: a88cd21e801ae6f9a7d9a48b67ccf693)</li>",
			"(1) R1.fastq.gz",
			"(2) R2.fastq.gz",
		} {
			if !strings.Contains(page, w) {
				t.Errorf("parallel=%v: page missing %q", parallel, w)
			}
		}

		if len(warnings) != 0 {
			t.Errorf("parallel=%v: unexpected warnings %v", parallel, warnings)
		}
	}
}

func Test_RenderAssayPage_missingLibrary(t *testing.T) {
	assay := &spec.Assay{
		Name:       "partial",
		Modalities: []string{"RNA", "ATAC"},
		LibrarySpec: []spec.Library{
			{Modality: "RNA", Root: leaf("RNA", "rna", "A")},
		},
	}

	page, err := New(testConfig(true)).RenderAssayPage(assay)

	var structErr *spec.StructuralError
	if !errors.As(err, &structErr) || structErr.RegionID != "ATAC" {
		t.Errorf("err = %v, want a StructuralError for ATAC", err)
	}
	if page != "" {
		t.Error("a failed render should not return a partial page")
	}
}

func Test_RenderAssayPage_inlineStyle(t *testing.T) {
	conf := testConfig(false)
	conf.Render.InlineStyle = true

	assay := &spec.Assay{Name: "styled"}
	page, err := New(conf).RenderAssayPage(assay)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(page, ".barcode {color:#f768a1;}") {
		t.Error("page is missing the inline palette")
	}
	if !strings.Contains(page, "<li>None</li>") {
		t.Error("a missing DOI should be written as the null marker")
	}
}

// the header names the modality, not the root region
func Test_RenderModality_title(t *testing.T) {
	root := &spec.Region{
		RegionID: "rna_lib",
		Name:     "RNA library",
		Regions:  []*spec.Region{leaf("p", "primer", "AAAA")},
	}

	got, err := New(testConfig(false)).RenderModality("RNA", root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `<h6 style="text-align: center">RNA</h6>`) {
		t.Errorf("RenderModality() header isn't the modality:\n%s", got)
	}
	if !strings.Contains(got, "<summary>RNA library</summary>") {
		t.Errorf("RenderModality() region block should keep the root's label:\n%s", got)
	}
}

func Test_doiLink(t *testing.T) {
	tests := []struct {
		name string
		doi  string
		want string
	}{
		{
			"https",
			"https://doi.org/10.1038/ncomms14049",
			`<a href="https://doi.org/10.1038/ncomms14049">https://doi.org/10.1038/ncomms14049</a>`,
		},
		{
			"bare doi",
			"10.1038/ncomms14049",
			`<a href="https://doi.org/10.1038/ncomms14049">10.1038/ncomms14049</a>`,
		},
		{
			"javascript",
			"javascript:alert(document.cookie)",
			"javascript:alert(document.cookie)",
		},
		{
			"data",
			"data:text/html,<script>alert(1)</script>",
			"data:text/html,&lt;script&gt;alert(1)&lt;/script&gt;",
		},
		{
			"no scheme",
			"doi.org/10.1038/x",
			"doi.org/10.1038/x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doiLink(tt.doi); got != tt.want {
				t.Errorf("doiLink() = %s, want %s", got, tt.want)
			}
		})
	}
}

// a DOI with a script scheme is never written as a link
func Test_RenderAssayPage_doiScheme(t *testing.T) {
	page, err := New(testConfig(false)).RenderAssayPage(&spec.Assay{Name: "x", DOI: "javascript:alert(document.cookie)"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(page, `href="javascript:`) {
		t.Error("DOI written as a javascript: link")
	}
	if !strings.Contains(page, "<li>javascript:alert(document.cookie)</li>") {
		t.Error("DOI should still be shown as text")
	}
}

func Test_Arrows_width(t *testing.T) {
	root := &spec.Region{
		RegionID: "RNA",
		Regions:  []*spec.Region{leaf("p", "primer", "AAAA"), leaf("b", "barcode", "CCCC")},
	}
	wide := leaf("w", "linker", "N")
	wide.MaxLen = 300000000

	tests := []struct {
		name string
		root *spec.Region
		read spec.Read
	}{
		{
			"long read",
			root,
			spec.Read{ReadID: "long", PrimerID: "p", MaxLen: 300000000, Strand: spec.Forward},
		},
		{
			"long reverse read",
			root,
			spec.Read{ReadID: "long", PrimerID: "b", MaxLen: 300000000, Strand: spec.Reverse},
		},
		{
			"wide library",
			&spec.Region{RegionID: "RNA", Regions: []*spec.Region{wide, leaf("p", "primer", "AAAA")}},
			spec.Read{ReadID: "long", PrimerID: "p", MaxLen: 4, Strand: spec.Forward},
		},
		{
			"negative length",
			root,
			spec.Read{ReadID: "long", PrimerID: "p", MaxLen: -5, Strand: spec.Forward},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warned []spec.MissingFieldWarning
			r := New(testConfig(false))
			r.Warn = func(w spec.MissingFieldWarning) { warned = append(warned, w) }

			fwd, rev := r.Arrows(tt.root, []spec.Read{tt.read})
			if len(fwd) != 0 || len(rev) != 0 {
				t.Errorf("Arrows() drew an arrow of %d bytes", len(strings.Join(append(fwd, rev...), "")))
			}
			if len(warned) != 1 || warned[0].Field != "max_len" {
				t.Errorf("warnings = %v, want one for max_len", warned)
			}
		})
	}

	// at the cap an arrow is still drawn
	fwd, _ := New(testConfig(false)).Arrows(root, []spec.Read{
		{ReadID: "cap", PrimerID: "p", MaxLen: MaxArrowWidth - 3, Strand: spec.Forward},
	})
	if len(fwd) != 1 {
		t.Errorf("Arrows() skipped a read at the width cap")
	}
}

// a primer nested below the root is found
func Test_Arrows_nestedPrimer(t *testing.T) {
	root := &spec.Region{
		RegionID: "RNA",
		Regions: []*spec.Region{
			{RegionID: "read1", MinLen: 4, MaxLen: 4, Regions: []*spec.Region{leaf("p", "primer", "AA"), leaf("q", "primer", "CC")}},
			leaf("b", "barcode", "GGGG"),
		},
	}

	fwd, _ := New(testConfig(false)).Arrows(root, []spec.Read{
		{ReadID: "R1", PrimerID: "read1", MaxLen: 2, Strand: spec.Forward},
	})
	if len(fwd) != 1 || fwd[0] != "   |->(1) R1" {
		t.Errorf("forward arrows = %q", fwd)
	}
}
