package seqspec

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/pachterlab/seqspec/config"
	"github.com/pachterlab/seqspec/internal/assemble"
	"github.com/pachterlab/seqspec/internal/io"
	"github.com/pachterlab/seqspec/internal/load"
	"github.com/pachterlab/seqspec/internal/render"
	"github.com/pachterlab/seqspec/internal/server"
	"github.com/pachterlab/seqspec/internal/term"
	"github.com/spf13/cobra"
)

// RenderCmd renders the spec at the first arg to an HTML page at the second.
func RenderCmd(cmd *cobra.Command, args []string) {
	fs, c := parseCmdFlags(cmd, args)

	if err := Render(fs.in, fs.out, newRenderer(c)); err != nil {
		stderr.Fatal(err)
	}
}

// Render renders the spec at in to an HTML page at out. Nothing is written
// to out unless the whole page renders.
func Render(in, out string, r *render.Renderer) error {
	assay, err := load.File(in)
	if err != nil {
		return err
	}

	page, err := r.RenderAssayPage(assay)
	if err != nil {
		return err
	}

	if err := io.Write(out, []byte(page)); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}

// AssembleCmd builds a document fragment of the kind named by the command
// from the field flags, starting from the fields of --from if it's set.
func AssembleCmd(cmd *cobra.Command, args []string) {
	fs, _ := parseCmdFlags(cmd, args)

	kind, err := assemble.ParseKind(cmd.Name())
	if err != nil {
		stderr.Fatal(err)
	}

	from, _ := cmd.Flags().GetString("from")
	doc, err := Assemble(kind, from, parseFields(cmd.Flags(), kind))
	if err != nil {
		stderr.Fatal(err)
	}

	if err := emit(fs.out, doc); err != nil {
		stderr.Fatal(err)
	}
}

// Assemble builds a fragment of kind from fields. If from is set, the
// fragment there is read first and fields override it.
func Assemble(kind assemble.Kind, from string, fields assemble.Fields) ([]byte, error) {
	var base assemble.Fields
	if from != "" {
		dat, err := io.Read(from)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", from, err)
		}

		k, f, err := assemble.Populate(dat)
		if err != nil {
			return nil, err
		}
		if k != kind {
			return nil, fmt.Errorf("%s is a %s, not a %s", from, k, kind)
		}
		base = f
	}

	for _, f := range fields {
		base.Set(f.Key, f.Value)
	}
	return assemble.Build(kind, base)
}

// PopulateCmd prints the form fields of the fragment at the first arg, one
// "key=value" per line.
func PopulateCmd(cmd *cobra.Command, args []string) {
	dat, err := io.Read(args[0])
	if err != nil {
		stderr.Fatal(err)
	}

	kind, fields, err := assemble.Populate(dat)
	if err != nil {
		stderr.Fatal(err)
	}

	fmt.Printf("# %s\n", kind)
	for _, f := range fields {
		fmt.Printf("%s=%s\n", f.Key, f.Value)
	}
}

// PrintCmd prints the libraries of the spec at the first arg to the terminal.
func PrintCmd(cmd *cobra.Command, args []string) {
	fs, c := parseCmdFlags(cmd, args)

	assay, err := load.File(fs.in)
	if err != nil {
		stderr.Fatal(err)
	}

	p := term.New(os.Stdout, termenv.EnvColorProfile(), newRenderer(c))
	if err := p.Assay(os.Stdout, assay); err != nil {
		stderr.Fatal(err)
	}
}

// ServeCmd serves rendered pages and the assembler over HTTP.
func ServeCmd(cmd *cobra.Command, args []string) {
	c := config.New()
	stderr.Printf("serving %s on %s", c.Serve.Dir, c.Serve.Addr)

	if err := server.Run(c); err != nil {
		stderr.Fatal(err)
	}
}

// emit writes a fragment to out, or highlighted to stdout if out is empty.
func emit(out string, doc []byte) error {
	if out != "" {
		return io.Write(out, doc)
	}

	if termenv.NewOutput(os.Stdout).Profile == termenv.Ascii {
		_, err := os.Stdout.Write(doc)
		return err
	}
	return assemble.Highlight(os.Stdout, doc)
}
