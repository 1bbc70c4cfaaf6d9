package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/item"
	"github.com/mateconpizza/later/internal/menu"
)

var openCmd = &cobra.Command{
	Use:   "open [url]",
	Short: "open a saved page and mark it viewed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := cmd.Context()

		url := ""
		if len(args) == 1 {
			url = args[0]
		} else {
			items, err := s.Items(ctx)
			if err != nil {
				return err
			}

			m := menu.New[*item.ListItem](
				menu.WithDefaultSettings(),
				menu.WithHeader("select an item to open"),
			)
			m.SetItems(items)
			m.SetPreprocessor(itemLine)

			picked, err := m.Select()
			if err != nil {
				return err
			}
			if len(picked) == 0 {
				return nil
			}
			url = picked[0].URL
		}

		return s.Open(ctx, url)
	},
}

var viewedCmd = &cobra.Command{
	Use:   "viewed <url>",
	Short: "mark a saved page as viewed without opening it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		return s.MarkViewed(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(viewedCmd)
}
