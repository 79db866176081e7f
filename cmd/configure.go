package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"render-manager/core/config"
	"render-manager/core/logger"
	"render-manager/core/renderer"

	"github.com/spf13/cobra"
)

// configCmd groups the per-user settings file operations.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the per-user renderer settings file",
}

// configShowCmd prints the effective renderer settings.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective renderer settings as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		rcfg, err := loadRendererConfig()
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, "settings file:", rcfg.ConfigFile())

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "    ")
		return enc.Encode(map[string]any{
			"executable":          rcfg.Executable(),
			"port":                rcfg.Port(),
			"timeout":             rcfg.Timeout().Seconds(),
			"default_format":      rcfg.DefaultFormat(),
			"default_width":       rcfg.DefaultWidth(),
			"default_height":      rcfg.DefaultHeight(),
			"default_scale":       rcfg.DefaultScale(),
			"plotlyjs":            rcfg.Plotlyjs(),
			"topojson":            rcfg.Topojson(),
			"mathjax":             rcfg.Mathjax(),
			"mapbox_access_token": rcfg.MapboxAccessToken(),
		})
	},
}

// configSaveCmd persists the effective settings to the per-user file.
var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist the effective renderer settings to the per-user file",
	RunE: func(cmd *cobra.Command, args []string) error {
		rcfg, err := loadRendererConfig()
		if err != nil {
			return err
		}
		if err := rcfg.Save(); err != nil {
			return err
		}
		fmt.Println(rcfg.ConfigFile())
		return nil
	},
}

// loadRendererConfig builds the renderer configuration the same way the
// serve command does: defaults, environment, then the settings file.
func loadRendererConfig() (*renderer.Config, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	rcfg := renderer.DefaultConfig()
	if err := rcfg.ApplySettings(cfg.Renderer); err != nil {
		return nil, err
	}
	rcfg.Reload(logg)
	return rcfg, nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
	RootCmd.AddCommand(configCmd)
}
