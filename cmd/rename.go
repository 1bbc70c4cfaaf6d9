package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/terminal"
)

var renameCmd = &cobra.Command{
	Use:   "rename <url> [title]",
	Short: "change the title of a saved page",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		url := args[0]

		var title string
		if len(args) == 2 {
			title = args[1]
		} else {
			// offer the current titles as completions
			items, err := s.Items(cmd.Context())
			if err != nil {
				return err
			}

			suggestions := make([]string, 0, len(items))
			for _, it := range items {
				suggestions = append(suggestions, it.DisplayTitle())
			}

			t := terminal.New(terminal.WithInterruptFn(func(err error) {
				closeFn()
			}))

			if len(suggestions) == 0 {
				title = t.Input("new title> ")
			} else {
				title = t.PromptWithFuzzySuggestions("new title> ", suggestions)
			}

			terminal.ClearLine(1)

			if title == "" {
				return terminal.ErrActionAborted
			}
		}

		if err := s.Rename(cmd.Context(), url, title); err != nil {
			return err
		}

		fmt.Println(msgs.Get("itemRenamed", "title updated"))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
