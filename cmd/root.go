// Package cmd is for command line interactions with the seqspec application
package cmd

import (
	"log"
	"os"

	"github.com/pachterlab/seqspec/config"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)

	// profiler is running if --profile was set
	profiler interface{ Stop() }
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "seqspec",
	Short: `Render and assemble seqspec documents.
A seqspec describes the structure of a sequencing library and its reads`,
	Version: "0.3.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if dir := viper.GetString("profile"); dir != "" {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// settings is an optional parameter for a settings file that overrides the defaults
	RootCmd.PersistentFlags().StringP("settings", "s", "", "settings file <YAML>")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "log warnings about missing fields")
	RootCmd.PersistentFlags().String("profile", "", "write a CPU profile to this directory")

	viper.BindPFlag("settings", RootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("profile", RootCmd.PersistentFlags().Lookup("profile"))
}

// initConfig sets the defaults and reads in the settings file, if any.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if settings := viper.GetString("settings"); settings != "" {
		viper.SetConfigFile(settings)
		if err := viper.ReadInConfig(); err != nil {
			stderr.Fatalf("failed to read settings file %s: %v", settings, err)
		}
	}
}
