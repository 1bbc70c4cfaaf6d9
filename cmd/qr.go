package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/config"
	"github.com/mateconpizza/later/internal/item"
	"github.com/mateconpizza/later/internal/qr"
	"github.com/mateconpizza/later/internal/sys"
)

var qrImageFlag bool

var qrCmd = &cobra.Command{
	Use:   "qr <url>",
	Short: "show a QR-Code for a saved page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		url := args[0]

		items, err := s.Items(cmd.Context())
		if err != nil {
			return err
		}

		// label with the stored title when the page is on the list
		title := "?"
		for _, it := range items {
			if item.StripFragment(it.URL) == item.StripFragment(url) {
				title = it.DisplayTitle()
				break
			}
		}

		q := qr.New(url)
		if err := q.Generate(); err != nil {
			return err
		}

		if !qrImageFlag {
			fmt.Print(q)
			return nil
		}

		if err := q.GenerateImg(config.App.Name); err != nil {
			return err
		}
		if err := q.Label(title, "top"); err != nil {
			return err
		}
		if err := q.Label(url, "bottom"); err != nil {
			return err
		}

		return sys.OpenFile(q.Path())
	},
}

func init() {
	qrCmd.Flags().BoolVarP(&qrImageFlag, "image", "i", false, "open QR as PNG in the system viewer")
	rootCmd.AddCommand(qrCmd)
}
