package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/item"
	"github.com/mateconpizza/later/internal/scrape"
	"github.com/mateconpizza/later/internal/sys"
)

var addCmd = &cobra.Command{
	Use:   "add [url] [title]",
	Short: "save a page for later",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		var url string
		if len(args) > 0 {
			url = args[0]
		} else {
			// no argument: take the URL from the clipboard
			url = strings.TrimSpace(sys.ReadClipboard())
			if url == "" {
				return fmt.Errorf("%w: nothing given and clipboard is empty", item.ErrURLEmpty)
			}
		}

		var title string
		if len(args) == 2 {
			title = args[1]
		} else {
			sc := scrape.New(url, scrape.WithContext(cmd.Context()), scrape.WithSpinner())
			if err := sc.Start(); err != nil {
				return err
			}
			title, _ = sc.Title()
		}

		it, err := s.Add(cmd.Context(), url, title)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %s\n", msgs.Get("itemAdded", "saved for later"), itemLine(it))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
