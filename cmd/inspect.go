package cmd

import (
	"fmt"

	"github.com/Schepie/CityExplorer/internal/model"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <route.json>",
	Short: "Show a summary of a route record without building anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := model.LoadRoute(args[0])
		if err != nil {
			return err
		}

		city := rec.City
		if city == "" {
			city = "Unknown City"
		}
		routeType := "One-way"
		if rec.IsRoundtrip {
			routeType = "Roundtrip"
		}
		data := &rec.RouteData

		fmt.Printf("Route Summary\n")
		fmt.Printf("=============\n")
		fmt.Printf("City:             %s\n", city)
		fmt.Printf("Interests:        %s\n", rec.Interests)
		fmt.Printf("Route type:       %s\n", routeType)
		fmt.Printf("POIs:             %d\n", len(data.POIs))
		fmt.Printf("Path vertices:    %d\n", len(data.RoutePath))
		fmt.Printf("Navigation steps: %d\n", len(data.NavigationSteps))
		fmt.Printf("Total distance:   %.1f km\n", float64(data.Stats.TotalDistance))
		fmt.Printf("Walking buffer:   %.1f km\n", float64(data.Stats.WalkDistance))
		if limit := float64(data.Stats.LimitKm); limit > 0 {
			fmt.Printf("Distance limit:   %.1f km\n", limit)
		} else {
			fmt.Printf("Distance limit:   N/A\n")
		}

		if len(data.POIs) > 0 {
			fmt.Printf("\nPoints of Interest\n")
			fmt.Printf("------------------\n")
			for i := range data.POIs {
				poi := &data.POIs[i]
				lat, lng := poi.Coords()
				media := "-"
				switch {
				case poi.Image != "" && poi.Link != "":
					media = "image+link"
				case poi.Image != "":
					media = "image"
				case poi.Link != "":
					media = "link"
				}
				fmt.Printf("  %2d. %-30s  (%.5f, %.5f)  %s\n", i+1, poi.Name, lat, lng, media)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
