package cmd

import (
	"fmt"

	"github.com/mateconpizza/rotato"
	"github.com/spf13/cobra"

	"github.com/mateconpizza/later/internal/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "check which saved pages still answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		items, err := s.Items(cmd.Context())
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("nothing saved for later")
			return nil
		}

		sp := rotato.New(
			rotato.WithMesg(fmt.Sprintf("checking %d URLs...", len(items))),
			rotato.WithMesgColor(rotato.ColorYellow),
			rotato.WithSpinnerColor(rotato.ColorBrightMagenta),
		)
		sp.Start()

		sum, err := status.Check(cmd.Context(), items)
		sp.Done()

		if err != nil {
			return err
		}

		for _, r := range sum.Results {
			fmt.Println(r)
		}

		dead := len(sum.Dead())
		fmt.Printf("total %d checked, %d dead, took %.2fs\n",
			len(sum.Results), dead, sum.Took.Seconds())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
