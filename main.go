package main

import (
	"os"

	"github.com/Schepie/CityExplorer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
