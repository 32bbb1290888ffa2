package cmd

import (
	"github.com/pachterlab/seqspec/internal/seqspec"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// renderCmd is for rendering a spec as an HTML page
var renderCmd = &cobra.Command{
	Use:                        "render [spec] [html]",
	Short:                      "Render a spec as an HTML page",
	Run:                        seqspec.RenderCmd,
	Args:                       cobra.ExactArgs(2),
	SuggestionsMinimumDistance: 2,
	Example:                    "  seqspec render spec.yaml assays/dogmaseq.html",
	Long: `Render a spec as an HTML page.

The page has the assay's name, DOI and description, then the library of each
modality: its sequence colored by region type, the reads laid over it, and
a collapsible block per region. The page is only written if the whole spec
renders.`,
}

// set flags
func init() {
	renderCmd.Flags().String("stylesheet", "styles.css", "href of the page's stylesheet")
	renderCmd.Flags().String("back-link", "../index.html", "href of the page's back link")
	renderCmd.Flags().Bool("inline-style", false, "embed the region type colors in the page")
	renderCmd.Flags().Bool("parallel", true, "render each modality on its own goroutine")

	viper.BindPFlag("render.stylesheet", renderCmd.Flags().Lookup("stylesheet"))
	viper.BindPFlag("render.back-link", renderCmd.Flags().Lookup("back-link"))
	viper.BindPFlag("render.inline-style", renderCmd.Flags().Lookup("inline-style"))
	viper.BindPFlag("parallel", renderCmd.Flags().Lookup("parallel"))

	RootCmd.AddCommand(renderCmd)
}
