package cli

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "stock-analyzer/internal/errors"
)

func newPortfolioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Manage the local portfolio",
		Long:  "Add, list, remove and value holdings stored in the local database.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Portfolio == nil {
				return errors.New("portfolio store is unavailable")
			}
			return nil
		},
	}

	cmd.AddCommand(newPortfolioAddCmd(app))
	cmd.AddCommand(newPortfolioListCmd(app))
	cmd.AddCommand(newPortfolioRemoveCmd(app))
	cmd.AddCommand(newPortfolioSummaryCmd(app))
	cmd.AddCommand(newPortfolioExportCmd(app))

	return cmd
}

func newPortfolioAddCmd(app *App) *cobra.Command {
	var purchaseDate string

	cmd := &cobra.Command{
		Use:   "add <symbol> <shares> <price>",
		Short: "Add a holding",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := strings.ToUpper(args[0])

			shares, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return apperrors.NewValidationError("shares", args[1], "not a number")
			}
			price, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return apperrors.NewValidationError("price", args[2], "not a number")
			}

			date := time.Now().UTC()
			if purchaseDate != "" {
				date, err = time.Parse("2006-01-02", purchaseDate)
				if err != nil {
					return apperrors.NewValidationError("date", purchaseDate, "expected YYYY-MM-DD")
				}
			}

			holding, err := app.Portfolio.Add(context.Background(), symbol, shares, price, date)
			if err != nil {
				output.Error("Could not add holding: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(holding)
			}
			output.Success("✓ Added %s × %s at %s", holding.Symbol, FormatShares(holding.Shares), FormatUSD(holding.PurchasePrice))
			output.Dim("ID: %s", holding.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&purchaseDate, "date", "", "purchase date (YYYY-MM-DD, default today)")
	return cmd
}

func newPortfolioListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			holdings, err := app.Portfolio.List(context.Background())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(holdings)
			}

			if len(holdings) == 0 {
				output.Println("Portfolio is empty.")
				return nil
			}

			table := NewTable(output, "ID", "Symbol", "Name", "Shares", "Buy Price", "Buy Date")
			for _, h := range holdings {
				table.AddRow(
					shortID(h.ID),
					h.Symbol,
					h.Name,
					FormatShares(h.Shares),
					FormatUSD(h.PurchasePrice),
					h.PurchaseDate.Format("2006-01-02"),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newPortfolioRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a holding by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			id, err := resolveHoldingID(app, args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}

			if err := app.Portfolio.Remove(context.Background(), id); err != nil {
				if apperrors.Is(err, apperrors.ErrHoldingNotFound) {
					output.Error("No holding with id %s", args[0])
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"removed": id})
			}
			output.Success("✓ Holding removed")
			return nil
		},
	}
}

// resolveHoldingID accepts a full holding id or an unambiguous prefix.
func resolveHoldingID(app *App, ref string) (string, error) {
	holdings, err := app.Portfolio.List(context.Background())
	if err != nil {
		return "", err
	}

	var match string
	for _, h := range holdings {
		if h.ID == ref {
			return h.ID, nil
		}
		if strings.HasPrefix(h.ID, ref) {
			if match != "" {
				return "", apperrors.NewValidationError("id", ref, "matches more than one holding")
			}
			match = h.ID
		}
	}
	if match == "" {
		return ref, nil
	}
	return match, nil
}

func newPortfolioSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Value the portfolio at current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			summary, err := app.Portfolio.Summary(context.Background())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(summary)
			}

			if len(summary.Lines) == 0 {
				output.Println("Portfolio is empty.")
				return nil
			}

			table := NewTable(output, "Symbol", "Shares", "Buy", "Now", "Invested", "Value", "P/L", "P/L %")
			for _, line := range summary.Lines {
				table.AddRow(
					line.Symbol,
					FormatShares(line.Shares),
					FormatUSD(line.PurchasePrice),
					FormatUSD(line.CurrentPrice),
					FormatUSD(line.Invested),
					FormatUSD(line.CurrentValue),
					output.PnL(line.ProfitLoss),
					output.Percent(line.ProfitLossPercent),
				)
			}
			table.Render()
			output.Println()

			output.Bold("Totals")
			output.Printf("  Invested:      %s\n", FormatUSD(summary.TotalInvested))
			output.Printf("  Current Value: %s\n", FormatUSD(summary.TotalCurrentValue))
			output.Printf("  Profit/Loss:   %s (%s)\n", output.PnL(summary.TotalProfitLoss), output.Percent(summary.TotalProfitLossPercent))
			return nil
		},
	}
}

func newPortfolioExportCmd(app *App) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export holdings as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			writer := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				writer = f
			}

			if err := app.Portfolio.ExportCSV(context.Background(), writer); err != nil {
				return err
			}
			if outPath != "" {
				output.Success("✓ Exported to %s", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write CSV to file instead of stdout")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
