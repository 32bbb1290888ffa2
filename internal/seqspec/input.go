// Package seqspec runs the commands of the seqspec CLI.
package seqspec

import (
	"fmt"
	"log"
	"os"

	"github.com/pachterlab/seqspec/config"
	"github.com/pachterlab/seqspec/internal/assemble"
	"github.com/pachterlab/seqspec/internal/render"
	"github.com/pachterlab/seqspec/internal/spec"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)
)

// Flags are the parsed flags and args shared by commands.
type Flags struct {
	// the spec document to read
	in string

	// the file to write to, empty for stdout
	out string
}

// parseCmdFlags gathers the in and out paths from the args of a command and
// returns them with the Config.
func parseCmdFlags(cmd *cobra.Command, args []string) (*Flags, *config.Config) {
	fs := &Flags{}
	if len(args) > 0 {
		fs.in = args[0]
	}
	if len(args) > 1 {
		fs.out = args[1]
	}
	if out, err := cmd.Flags().GetString("out"); err == nil && out != "" {
		fs.out = out
	}
	return fs, config.New()
}

// newRenderer returns a Renderer that logs warnings if verbose.
func newRenderer(c *config.Config) *render.Renderer {
	r := render.New(c)
	if c.Verbose {
		r.Warn = func(w spec.MissingFieldWarning) { stderr.Println(w) }
	}
	return r
}

// AddFieldFlags registers one string flag per form field of a kind.
func AddFieldFlags(flags *pflag.FlagSet, kind assemble.Kind) {
	for _, key := range assemble.Keys(kind) {
		flags.String(key, "", fmt.Sprintf("%s of the %s", key, kind))
	}
}

// parseFields reads the form of a kind from the flags that were set, in
// form order.
func parseFields(flags *pflag.FlagSet, kind assemble.Kind) assemble.Fields {
	var fields assemble.Fields
	for _, key := range assemble.Keys(kind) {
		f := flags.Lookup(key)
		if f == nil || !f.Changed {
			continue
		}
		fields = append(fields, assemble.Field{Key: key, Value: f.Value.String()})
	}
	return fields
}
