package render

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/pachterlab/seqspec/internal/spec"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown     goldmark.Markdown
	markdownOnce sync.Once
)

// describe renders an assay description, which may be Markdown. Raw HTML in
// the description is not passed through.
func describe(description string) string {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(description), &buf); err != nil {
		return html.EscapeString(description)
	}
	return strings.TrimSpace(buf.String())
}

// RenderAssayPage writes a full page for an assay: its header, then each
// modality's library and reads in the order of assay.Modalities. Any error
// aborts the page; no partial page is returned.
func (r *Renderer) RenderAssayPage(assay *spec.Assay) (string, error) {
	blocks, err := r.modalities(assay)
	if err != nil {
		return "", err
	}

	var body strings.Builder
	body.WriteString("<div id=\"assay\">\n")
	body.WriteString(r.header(assay))
	body.WriteString("</div>\n")
	body.WriteString("<div id=\"library_spec\">\n")
	body.WriteString("<h2>Final library</h2>\n")
	for _, b := range blocks {
		body.WriteString(b)
	}
	body.WriteString("</div>\n")

	return r.shell(assay.Name, body.String()), nil
}

// modalities renders each modality, on its own goroutine if parallel
// rendering is on, and returns the blocks in modality order.
func (r *Renderer) modalities(assay *spec.Assay) ([]string, error) {
	blocks := make([]string, len(assay.Modalities))
	errs := make([]error, len(assay.Modalities))

	renderOne := func(i int) {
		modality := assay.Modalities[i]
		root, ok := assay.Library(modality)
		if !ok || root == nil {
			errs[i] = &spec.StructuralError{RegionID: modality, Reason: "no library_spec for modality"}
			return
		}

		reads := assay.Reads(modality)
		lib, err := r.RenderModality(modality, root, reads)
		if err != nil {
			errs[i] = err
			return
		}

		var sb strings.Builder
		sb.WriteString(lib)
		sb.WriteString("<h3>Sequence structure</h3>\n")
		sb.WriteString(r.reads(reads))
		blocks[i] = sb.String()
	}

	if r.conf.Parallel {
		var wg sync.WaitGroup
		for i := range assay.Modalities {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				renderOne(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range assay.Modalities {
			renderOne(i)
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return blocks, nil
}

// header is the assay's name, DOI, description and modalities.
func (r *Renderer) header(assay *spec.Assay) string {
	name := assay.Name
	if name == "" {
		r.warn(assay.AssayID, "name")
		name = assay.AssayID
	}

	doi := html.EscapeString(r.conf.Render.NullMarker)
	if assay.DOI != "" {
		doi = doiLink(assay.DOI)
	} else {
		r.warn(assay.AssayID, "doi")
	}

	description := ""
	if assay.Description != "" {
		description = describe(assay.Description)
	} else {
		r.warn(assay.AssayID, "description")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<h1 style=\"text-align: center\">%s</h1>\n", html.EscapeString(name))
	sb.WriteString("<ul>\n")
	fmt.Fprintf(&sb, "  <li>%s</li>\n", doi)
	fmt.Fprintf(&sb, "  <li>%s</li>\n", description)
	fmt.Fprintf(&sb, "  <li>%s</li>\n", html.EscapeString(strings.Join(assay.Modalities, ", ")))
	sb.WriteString("</ul>\n")
	return sb.String()
}

// doiLink links a DOI if it's an http(s) URL or a bare "10." DOI, and
// otherwise writes it as text.
func doiLink(doi string) string {
	doi = strings.TrimSpace(doi)
	href := ""
	if strings.HasPrefix(doi, "10.") {
		href = "https://doi.org/" + doi
	} else if u, err := url.Parse(doi); err == nil && (strings.EqualFold(u.Scheme, "http") || strings.EqualFold(u.Scheme, "https")) && u.Host != "" {
		href = u.String()
	}

	if href == "" {
		return html.EscapeString(doi)
	}
	return fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(href), html.EscapeString(doi))
}

// reads lists the reads of a modality.
func (r *Renderer) reads(reads []spec.Read) string {
	var sb strings.Builder
	sb.WriteString("<ol>\n")
	for _, read := range reads {
		name := read.Name
		if name == "" {
			r.warn(read.ReadID, "name")
			name = read.ReadID
		}

		sb.WriteString("<li>\n<details>\n")
		fmt.Fprintf(&sb, "  <summary>%s</summary>\n", html.EscapeString(name))
		sb.WriteString("  <ul>\n")
		fmt.Fprintf(&sb, "    <li>read_id: %s</li>\n", html.EscapeString(read.ReadID))
		fmt.Fprintf(&sb, "    <li>primer_id: %s</li>\n", html.EscapeString(read.PrimerID))
		fmt.Fprintf(&sb, "    <li>min_len: %d</li>\n", read.MinLen)
		fmt.Fprintf(&sb, "    <li>max_len: %d</li>\n", read.MaxLen)
		fmt.Fprintf(&sb, "    <li>strand: %s</li>\n", html.EscapeString(read.Strand))
		sb.WriteString("    <li>\n      files:\n      <ul>\n")
		for _, f := range read.Files {
			fmt.Fprintf(&sb, "        <li>%s (md5: %s)</li>\n", html.EscapeString(f.Filename), html.EscapeString(f.MD5))
		}
		sb.WriteString("      </ul>\n    </li>\n")
		sb.WriteString("  </ul>\n</details>\n</li>\n")
	}
	sb.WriteString("</ol>\n")
	return sb.String()
}

// shell wraps a page body with the head, the stylesheet and the back link.
func (r *Renderer) shell(title, body string) string {
	style := ""
	if r.conf.Render.InlineStyle {
		style = "    <style>\n" + Palette + "    </style>\n"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n  <head>\n")
	sb.WriteString("    <meta charset=\"utf-8\" />\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&sb, "    <link rel=\"stylesheet\" type=\"text/css\" href=\"%s\" />\n", html.EscapeString(r.conf.Render.Stylesheet))
	sb.WriteString(style)
	sb.WriteString("  </head>\n  <body>\n")
	sb.WriteString("    <div style=\"width: 75%; margin: 0 auto\">\n")
	fmt.Fprintf(&sb, "      <h6><a href=\"%s\">Back</a></h6>\n", html.EscapeString(r.conf.Render.BackLink))
	sb.WriteString(body)
	sb.WriteString("    </div>\n  </body>\n</html>\n")
	return sb.String()
}
