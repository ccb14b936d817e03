package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Look up a ticker and its latest price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			stocks, err := app.Analyzer.Search(context.Background(), args[0])
			if err != nil {
				output.Error("Search failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(stocks)
			}

			if len(stocks) == 0 {
				output.Warning("No ticker found for %q", strings.ToUpper(args[0]))
				return nil
			}

			table := NewTable(output, "Symbol", "Name", "Price", "Change")
			for _, s := range stocks {
				change := "—"
				if s.ChangePercent != nil {
					change = output.Percent(*s.ChangePercent)
				}
				table.AddRow(s.Symbol, s.Name, FormatOptionalUSD(s.CurrentPrice), change)
			}
			table.Render()
			return nil
		},
	}
}
