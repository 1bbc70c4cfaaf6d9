package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/terminal"
	"github.com/mateconpizza/later/internal/view"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "show the shared list settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		cfg, err := s.Settings(cmd.Context())
		if err != nil {
			return err
		}

		return printJSON(cfg)
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort <none|date|title> [ascending|descending]",
	Short: "set the shared sort order",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		dir := view.Descending
		if len(args) == 2 {
			dir = view.Direction(args[1])
		}

		return s.SetSortOrder(cmd.Context(), view.SortOption(args[0]), dir)
	},
}

var viewAllCmd = &cobra.Command{
	Use:   "viewall <true|false>",
	Short: "toggle between showing all items and only unread ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		all, err := strconv.ParseBool(args[0])
		if err != nil {
			return err
		}

		return s.SetViewAll(cmd.Context(), all)
	},
}

// knownThemes are offered as completions; any name is accepted.
var knownThemes = []string{"light", "dark"}

var themeCmd = &cobra.Command{
	Use:   "theme [name]",
	Short: "set the shared theme",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		var theme string
		if len(args) == 1 {
			theme = args[0]
		} else {
			t := terminal.New(terminal.WithInterruptFn(func(err error) {
				closeFn()
			}))

			theme = t.PromptWithSuggestions("theme> ", knownThemes)
			if theme == "" {
				return terminal.ErrActionAborted
			}
		}

		return s.SetTheme(cmd.Context(), theme)
	},
}

func init() {
	settingsCmd.AddCommand(sortCmd)
	settingsCmd.AddCommand(viewAllCmd)
	settingsCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(settingsCmd)
}
