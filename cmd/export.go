package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"render-manager/core/config"
	"render-manager/core/logger"
	"render-manager/core/renderer"
	"render-manager/core/storage"
	"render-manager/feature/export"

	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFormat string
	exportWidth  int
	exportHeight int
	exportScale  float64
	exportUpload string
)

// exportCmd renders a single figure from a file or stdin and exits.
var exportCmd = &cobra.Command{
	Use:   "export [figure.json]",
	Short: "Render a figure JSON file into a static image",
	Long: `Reads figure JSON from the given file (or stdin when omitted), renders
it through the supervised render server and writes the image to the output
path. The image format is inferred from the output extension unless --format
is given.`,
	Args: cobra.MaximumNArgs(1),
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

		figure, err := readFigure(args)
		if err != nil {
			return err
		}

		sup := renderer.NewSupervisor(rcfg, logg)
		defer sup.Shutdown()

		opts := export.ImageOptions{
			Format: exportFormat,
			Width:  exportWidth,
			Height: exportHeight,
			Scale:  exportScale,
		}

		if exportUpload != "" {
			store, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return err
			}
			svc := export.NewService(sup, store, cfg.Storage.Bucket, logg, nil)
			object, err := svc.Upload(cmd.Context(), figure, exportUpload, opts)
			if err != nil {
				return err
			}
			fmt.Println(object)
			return nil
		}

		if exportOutput == "" {
			return fmt.Errorf("either --output or --upload is required")
		}

		svc := export.NewService(sup, nil, "", logg, nil)
		return svc.WriteImage(cmd.Context(), figure, exportOutput, opts)
	},
}

// readFigure decodes figure JSON from the named file or stdin.
func readFigure(args []string) (any, error) {
	var src io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	}

	var figure any
	if err := json.NewDecoder(src).Decode(&figure); err != nil {
		return nil, fmt.Errorf("invalid figure JSON: %w", err)
	}
	return figure, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path (format inferred from extension)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "image format (png, jpeg, webp, svg, pdf, eps)")
	exportCmd.Flags().IntVar(&exportWidth, "width", 0, "image width in pixels")
	exportCmd.Flags().IntVar(&exportHeight, "height", 0, "image height in pixels")
	exportCmd.Flags().Float64Var(&exportScale, "scale", 0, "resolution scale factor")
	exportCmd.Flags().StringVar(&exportUpload, "upload", "", "upload the image to storage under this object name")

	RootCmd.AddCommand(exportCmd)
}
