package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	apperrors "stock-analyzer/internal/errors"
	"stock-analyzer/internal/models"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <symbol>",
		Short: "Run a full analysis for a ticker",
		Long: `Analyze a ticker: fundamentals, EMA trend, candlestick pattern, a
0-100 potential score and an AI recommendation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := strings.ToUpper(args[0])

			analysis, err := app.Analyzer.Analyze(context.Background(), symbol)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrNoData) {
					output.Error("No price data available for %s", symbol)
					return err
				}
				output.Error("Analysis failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(analysis)
			}

			renderAnalysis(output, analysis)
			return nil
		},
	}
}

func renderAnalysis(output *Output, a *models.Analysis) {
	output.Println()
	output.Bold("%s · %s", a.Symbol, a.Name)
	output.Dim("Analyzed at %s", a.Timestamp.Format("2006-01-02 15:04 MST"))
	output.Println()

	output.Printf("  Current Price:   %s\n", FormatOptionalUSD(a.CurrentPrice))
	output.Printf("  Potential Score: %s\n", output.Score(a.PotentialScore))
	output.Printf("  Recommendation:  %s\n", output.Recommendation(a.Recommendation))
	output.Println()

	output.Bold("Technical Indicators")
	output.Printf("  EMA 20:          %s\n", FormatOptional(a.Indicators.EMA20))
	output.Printf("  EMA 50:          %s\n", FormatOptional(a.Indicators.EMA50))
	output.Printf("  Candlesticks:    %s\n", a.Indicators.CandlestickPattern)
	output.Println()

	output.Bold("Fundamentals")
	table := NewTable(output, "Metric", "Value", "Metric", "Value")
	f := a.Fundamentals
	table.AddRow("P/E", FormatOptional(f.PERatio), "Beta", FormatOptional(f.Beta))
	table.AddRow("Forward P/E", FormatOptional(f.ForwardPE), "Dividend %", FormatOptional(f.DividendYield))
	table.AddRow("PEG", FormatOptional(f.PEGRatio), "RSI (14)", FormatOptional(f.RSI))
	table.AddRow("P/S", FormatOptional(f.PSRatio), "ROE %", FormatOptional(f.ROE))
	table.AddRow("P/B", FormatOptional(f.PBRatio), "ROA %", FormatOptional(f.ROA))
	table.AddRow("EPS (ttm)", FormatOptional(f.EPSttm), "Profit Margin %", FormatOptional(f.ProfitMargin))
	table.AddRow("Debt/Eq", FormatOptional(f.DebtEquity), "Target Price", FormatOptionalUSD(f.TargetPrice))
	table.Render()
	output.Println()

	if a.Narrative != "" {
		output.Bold("AI Analysis")
		for _, line := range strings.Split(strings.TrimSpace(a.Narrative), "\n") {
			output.Printf("  %s\n", line)
		}
		output.Println()
	}
}
