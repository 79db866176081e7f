package cmd

import (
	"encoding/json"
	"log"
	"os"

	"render-manager/core/config"
	"render-manager/core/logger"
	"render-manager/core/renderer"

	"github.com/spf13/cobra"
)

// checkCmd validates the configured render executable and prints its status.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured render executable",
	Long: `Locates the configured render executable on the system path, verifies
that it is the expected plotly exporter and prints the resolved path and
version as JSON. Exits non-zero when validation fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
			return err
		}
		rcfg.Reload(logg)

		sup := renderer.NewSupervisor(rcfg, logg)
		if err := sup.Validate(cmd.Context()); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "    ")
		return enc.Encode(sup.Status())
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)
}
