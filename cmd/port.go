package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/config"
	"github.com/mateconpizza/later/internal/port"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "export the whole list to a JSON backup",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		path := filepath.Join(config.App.Path.Backup, config.App.Name+port.FileExtJSON)
		if len(args) == 1 {
			path = args[0]
		}

		if err := port.Export(cmd.Context(), s, path, config.App.Flags.Force); err != nil {
			return err
		}

		fmt.Printf("%s: %q\n", msgs.Get("exportDone", "list exported"), path)

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "merge a JSON backup into the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openStore()
		if err != nil {
			return err
		}
		defer closeFn()

		n, err := port.Import(cmd.Context(), s, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d record/s\n", msgs.Get("importDone", "list imported"), n)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
