// Package cmd wires the CLI surface over the reading list service.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/config"
	"github.com/mateconpizza/later/internal/item"
	"github.com/mateconpizza/later/internal/sys"
	"github.com/mateconpizza/later/internal/view"
)

var rootCmd = &cobra.Command{
	Use:               config.App.Cmd,
	Short:             config.App.Info.Title,
	Long:              config.App.Info.Desc,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: ensurePaths,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := config.App.Flags

		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := cmd.Context()

		query := flags.Query
		if query == "" && len(args) > 0 {
			query = args[0]
		}

		if flags.Sort != "" {
			opt := view.SortOption(flags.Sort)
			if err := s.SetSortOrder(ctx, opt, view.Descending); err != nil {
				return err
			}
		}
		// a bare run must not clobber the shared toggle
		if cmd.Flags().Changed("unread") {
			if err := s.SetViewAll(ctx, !flags.Unread); err != nil {
				return err
			}
		}

		items, err := s.Search(ctx, query)
		if err != nil {
			return err
		}

		if flags.JSON {
			return printJSON(items)
		}

		if flags.Menu {
			return pickAndAct(ctx, s, items)
		}

		printItems(items)

		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		sys.ErrAndExit(err)
	}
}

func init() {
	f := config.App.Flags

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&f.Verbose, "verbose", "v", "verbose mode")
	pf.BoolVar(&f.Force, "force", false, "skip confirmations")

	rootCmd.Flags().StringVarP(&f.Query, "query", "q", "", "filter items fuzzily")
	rootCmd.Flags().StringVar(&f.Sort, "sort", "", "sort items [none|date|title]")
	rootCmd.Flags().BoolVar(&f.Unread, "unread", false, "show only unread items")
	rootCmd.Flags().BoolVar(&f.JSON, "json", false, "JSON output")
	rootCmd.Flags().BoolVarP(&f.Menu, "menu", "m", false, "pick an item interactively")
	rootCmd.Flags().BoolVarP(&f.Copy, "copy", "c", false, "copy picked URL to clipboard")
	rootCmd.Flags().BoolVarP(&f.Open, "open", "o", false, "open picked URL in the browser")

	cobra.OnInitialize(func() {
		config.SetVerbosity(f.Verbose)
	})
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	fmt.Fprintln(os.Stdout, string(data))

	return nil
}

func printItems(items []*item.ListItem) {
	if len(items) == 0 {
		fmt.Fprintln(os.Stdout, msgs.Get("emptyList", "Nothing saved for later"))
		return
	}

	for _, it := range items {
		fmt.Fprintln(os.Stdout, itemLine(it))
	}
}
