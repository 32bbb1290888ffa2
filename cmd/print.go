package cmd

import (
	"github.com/pachterlab/seqspec/internal/seqspec"
	"github.com/spf13/cobra"
)

// printCmd is for printing a spec's libraries in the terminal
var printCmd = &cobra.Command{
	Use:                        "print [spec]",
	Short:                      "Print the libraries of a spec",
	Run:                        seqspec.PrintCmd,
	Args:                       cobra.ExactArgs(1),
	SuggestionsMinimumDistance: 2,
	Long: `Print the library of each modality: its sequence colored by region type,
its complement, and the reads laid over it.`,
}

func init() {
	RootCmd.AddCommand(printCmd)
}
