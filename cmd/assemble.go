package cmd

import (
	"github.com/pachterlab/seqspec/internal/assemble"
	"github.com/pachterlab/seqspec/internal/seqspec"
	"github.com/spf13/cobra"
)

var fromHelp = `fragment file to start from. Field flags override its fields.
'seqspec assemble populate' lists the fields of a fragment.`

// assembleCmd is for building spec fragments from their fields
var assembleCmd = &cobra.Command{
	Use:                        "assemble",
	Short:                      "Build spec fragments from their fields",
	SuggestionsMinimumDistance: 2,
	Long: `
Build the YAML of an assay, a read or a region from one flag per field.
Fragments are pasted into a spec by hand: regions are built one at a time
with null children.`,
	Aliases: []string{"build"},
}

// assayAssembleCmd is for building an !Assay
var assayAssembleCmd = &cobra.Command{
	Use:                        "assay",
	Short:                      "Build an assay header",
	Run:                        seqspec.AssembleCmd,
	Args:                       cobra.NoArgs,
	SuggestionsMinimumDistance: 3,
	Example:                    "  seqspec assemble assay --name DOGMAseq --modalities RNA,ATAC",
}

// readAssembleCmd is for building a "- !Read" item
var readAssembleCmd = &cobra.Command{
	Use:                        "read",
	Short:                      "Build a read",
	Run:                        seqspec.AssembleCmd,
	Args:                       cobra.NoArgs,
	SuggestionsMinimumDistance: 3,
	Example:                    "  seqspec assemble read --read_id R1.fastq.gz --primer_id truseq_read1 --min_len 28 --max_len 28 --strand pos",
}

// regionAssembleCmd is for building a "- !Region" item
var regionAssembleCmd = &cobra.Command{
	Use:                        "region",
	Short:                      "Build a region",
	Run:                        seqspec.AssembleCmd,
	Args:                       cobra.NoArgs,
	SuggestionsMinimumDistance: 3,
	Example:                    "  seqspec assemble region --region_id cell_bc --region_type barcode --sequence_type onlist --min_len 16 --max_len 16",
}

// populateCmd is for reading a fragment back into its fields
var populateCmd = &cobra.Command{
	Use:                        "populate [fragment]",
	Short:                      "List the fields of a fragment",
	Run:                        seqspec.PopulateCmd,
	Args:                       cobra.ExactArgs(1),
	SuggestionsMinimumDistance: 3,
}

// set flags
func init() {
	kinds := map[*cobra.Command]assemble.Kind{
		assayAssembleCmd:  assemble.Assay,
		readAssembleCmd:   assemble.Read,
		regionAssembleCmd: assemble.Region,
	}
	for c, kind := range kinds {
		seqspec.AddFieldFlags(c.Flags(), kind)
		c.Flags().StringP("from", "f", "", fromHelp)
		c.Flags().StringP("out", "o", "", "output file name, stdout if empty")
		assembleCmd.AddCommand(c)
	}
	assembleCmd.AddCommand(populateCmd)

	RootCmd.AddCommand(assembleCmd)
}
