package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicer-dev/invoicer/internal/model"
)

func newCurrenciesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List supported currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, c := range model.Currencies {
				fmt.Fprintf(w, "%-4s %s\n", c.Code, c.Symbol)
			}
			return nil
		},
	}
}
