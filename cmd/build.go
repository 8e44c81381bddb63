package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Schepie/CityExplorer/internal/booklet"
	"github.com/Schepie/CityExplorer/internal/model"
	"github.com/Schepie/CityExplorer/internal/scraper"
	"github.com/spf13/cobra"
)

// healthySizeBytes is an empirical floor: a booklet below it almost
// certainly lost its map or all of its photographs.
const healthySizeBytes = 60 * 1024

var (
	buildLogo    string
	buildOutfile string
)

var buildCmd = &cobra.Command{
	Use:   "build <route.json>",
	Short: "Generate the travel booklet PDF from a route record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		routeFile := args[0]
		if _, err := os.Stat(routeFile); err != nil {
			return fmt.Errorf("route file not found: %s", routeFile)
		}

		rec, err := model.LoadRoute(routeFile)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(assetsDir, 0o755); err != nil {
			return fmt.Errorf("creating assets dir: %w", err)
		}

		outfile := buildOutfile
		if !cmd.Flags().Changed("outfile") {
			outfile = cfg.Output.File
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		fetcher := scraper.New(cfg, assetsDir, logger)
		comp := booklet.NewComposer(fetcher, assetsDir, cfg.Images.MaxPerPOI, logger)

		fmt.Printf("Composing booklet for %q (%d POIs)...\n", rec.City, len(rec.RouteData.POIs))
		blocks := comp.Compose(ctx, rec, buildLogo)

		size, err := booklet.Render(blocks, outfile)
		if err != nil {
			return fmt.Errorf("rendering booklet: %w", err)
		}

		fmt.Printf("Success: Generated %s (%.1f KB)\n", outfile, float64(size)/1024)
		if size < healthySizeBytes {
			fmt.Fprintln(os.Stderr, "WARNING: PDF file size is smaller than 60KB. Check for missing content.")
		} else {
			fmt.Println("Validation Passed: PDF size is healthy (> 60KB).")
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildLogo, "logo", "cityexplorer.png", "Path to cover logo image")
	buildCmd.Flags().StringVar(&buildOutfile, "outfile", "Travel_Booklet.pdf", "Output PDF path")
	rootCmd.AddCommand(buildCmd)
}
