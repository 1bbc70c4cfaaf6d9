package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/config"
	"github.com/mateconpizza/later/internal/item"
	"github.com/mateconpizza/later/internal/menu"
	"github.com/mateconpizza/later/internal/terminal"
)

var removeCmd = &cobra.Command{
	Use:     "rm [url]...",
	Aliases: []string{"remove", "del"},
	Short:   "remove pages from the list",
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := cmd.Context()

		// no args: pick interactively
		if len(args) == 0 {
			items, err := s.Items(ctx)
			if err != nil {
				return err
			}

			m := menu.New[*item.ListItem](
				menu.WithDefaultSettings(),
				menu.WithMultiSelection(),
				menu.WithHeader("select item/s to remove"),
			)
			m.SetItems(items)
			m.SetPreprocessor(itemLine)

			picked, err := m.Select()
			if err != nil {
				return err
			}
			for _, it := range picked {
				args = append(args, it.URL)
			}
		}

		if !config.App.Flags.Force {
			t := terminal.New()
			q := fmt.Sprintf("%s %d item/s?", msgs.Get("confirmRemove", "remove"), len(args))
			if !t.Confirm(q, "n") {
				return terminal.ErrActionAborted
			}
		}

		for _, url := range args {
			if err := s.Remove(ctx, url); err != nil {
				return err
			}
		}

		fmt.Printf("%s: %d item/s\n", msgs.Get("itemRemoved", "removed from the list"), len(args))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
