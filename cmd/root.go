package cmd

import (
	"fmt"
	"os"

	"github.com/Schepie/CityExplorer/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	assetsDir  string
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cityexplorer",
	Short: "Turn a planned city route into a print-ready travel booklet PDF",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !cmd.Flags().Changed("assets-dir") {
			assetsDir = cfg.Assets.Dir
		}

		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets-dir", "assets", "Directory for downloaded images, QR codes and the map")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func Execute() error {
	return rootCmd.Execute()
}
