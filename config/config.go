// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables that override settings,
	// ex: SEQSPEC_RENDER_STYLESHEET
	EnvPrefix = "SEQSPEC"

	// NullMarker is written in place of missing optional values
	NullMarker = "None"
)

// RenderConfig is settings for the HTML pages
type RenderConfig struct {
	// href of the page's stylesheet
	Stylesheet string `mapstructure:"stylesheet"`

	// href of the "Back" link atop each page
	BackLink string `mapstructure:"back-link"`

	// written in place of a missing onlist
	NullMarker string `mapstructure:"null-marker"`

	// whether to embed the region type palette in the page
	InlineStyle bool `mapstructure:"inline-style"`
}

// ServeConfig is settings for the HTTP server
type ServeConfig struct {
	// address to listen on, ex: ":8080"
	Addr string `mapstructure:"addr"`

	// directory with the spec files served at /assays/:name
	Dir string `mapstructure:"dir"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	// log warnings about missing fields
	Verbose bool `mapstructure:"verbose"`

	// render each modality on its own goroutine
	Parallel bool `mapstructure:"parallel"`

	Render RenderConfig `mapstructure:"render"`

	Serve ServeConfig `mapstructure:"serve"`
}

// SetDefaults registers the default settings and the environment overrides on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("parallel", true)
	v.SetDefault("render.stylesheet", "styles.css")
	v.SetDefault("render.back-link", "../index.html")
	v.SetDefault("render.null-marker", NullMarker)
	v.SetDefault("render.inline-style", false)
	v.SetDefault("serve.addr", ":8080")
	v.SetDefault("serve.dir", ".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// New returns a new Config struct populated by Viper settings
// (either from a settings file) and/or command line arguments
func New() *Config {
	return From(viper.GetViper())
}

// From returns the Config held by a Viper instance
func From(v *viper.Viper) *Config {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode into struct, %v", err)
	}
	return &c
}
