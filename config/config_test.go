// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestConfig_From(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	err := os.WriteFile(settings, []byte("render:\n  stylesheet: ../assays.css\n  inline-style: true\nparallel: false\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		setup func(v *viper.Viper)
		want  Config
	}{
		{
			"defaults",
			func(v *viper.Viper) {},
			Config{
				Parallel: true,
				Render: RenderConfig{
					Stylesheet: "styles.css",
					BackLink:   "../index.html",
					NullMarker: NullMarker,
				},
				Serve: ServeConfig{Addr: ":8080", Dir: "."},
			},
		},
		{
			"settings file",
			func(v *viper.Viper) {
				v.SetConfigFile(settings)
				if err := v.ReadInConfig(); err != nil {
					t.Fatal(err)
				}
			},
			Config{
				Parallel: false,
				Render: RenderConfig{
					Stylesheet:  "../assays.css",
					BackLink:    "../index.html",
					NullMarker:  NullMarker,
					InlineStyle: true,
				},
				Serve: ServeConfig{Addr: ":8080", Dir: "."},
			},
		},
		{
			"environment",
			func(v *viper.Viper) {
				t.Setenv("SEQSPEC_SERVE_ADDR", "localhost:9000")
				t.Setenv("SEQSPEC_RENDER_NULL_MARKER", "null")
			},
			Config{
				Parallel: true,
				Render: RenderConfig{
					Stylesheet: "styles.css",
					BackLink:   "../index.html",
					NullMarker: "null",
				},
				Serve: ServeConfig{Addr: "localhost:9000", Dir: "."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			tt.setup(v)

			if got := From(v); *got != tt.want {
				t.Errorf("From() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}
