package cmd

import (
	"github.com/pachterlab/seqspec/internal/seqspec"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd is for serving rendered specs and the assembler over HTTP
var serveCmd = &cobra.Command{
	Use:                        "serve",
	Short:                      "Serve rendered specs and the assembler",
	Run:                        seqspec.ServeCmd,
	Args:                       cobra.NoArgs,
	SuggestionsMinimumDistance: 2,
	Long: `Serve rendered specs and the assembler over HTTP.

  GET  /assays/:name    render <dir>/<name>.yaml
  POST /render          render the spec in the request body
  POST /assemble/:kind  build an assay, read or region from form fields`,
}

// set flags
func init() {
	serveCmd.Flags().StringP("addr", "a", ":8080", "address to listen on")
	serveCmd.Flags().StringP("dir", "d", ".", "directory with the specs served at /assays/:name")

	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("serve.dir", serveCmd.Flags().Lookup("dir"))

	RootCmd.AddCommand(serveCmd)
}
