package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s v%s\n", config.App.Name, config.App.Info.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
