package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stock-analyzer/internal/advisor"
	"stock-analyzer/internal/analyzer"
	"stock-analyzer/internal/config"
	"stock-analyzer/internal/fundamentals"
	"stock-analyzer/internal/logging"
	"stock-analyzer/internal/marketdata"
	"stock-analyzer/internal/portfolio"
	"stock-analyzer/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-06-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Analyzer  *analyzer.Service
	Portfolio *portfolio.Manager
	Store     store.PortfolioStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	market := marketdata.NewPolygonProvider(cfg.Credentials.Polygon.APIKey, logger)
	finviz := fundamentals.NewFinvizSource(logger)

	var adviceProvider analyzer.AdviceProvider
	if cfg.Credentials.OpenAI.APIKey != "" {
		llm := advisor.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Advisor.Model)
		adviceProvider = advisor.New(llm, logger)
		logger.Debug().Str("model", cfg.Advisor.Model).Msg("OpenAI advisor initialized")
	} else {
		adviceProvider = advisor.New(unavailableLLM{}, logger)
		logger.Warn().Msg("No OpenAI API key, AI analysis will be unavailable")
	}

	app.Analyzer = analyzer.NewService(market, finviz, adviceProvider, cfg.Analysis, logger)

	if portfolioStore, err := store.NewSQLiteStore(cfg.Database.Path); err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, portfolio commands unavailable")
	} else {
		app.Store = portfolioStore
		app.Portfolio = portfolio.NewManager(portfolioStore, market, cfg.Analysis.ValuationDays, logger)
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Stock Analyzer - fundamentals, technicals and AI recommendations",
		Long: `Stock Analyzer scores US equities by combining scraped fundamentals,
EMA trend indicators and candlestick patterns into a 0-100 potential
score, with an AI-generated recommendation on top. It also tracks a
local portfolio and values it against current market prices.

Use 'analyzer help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stock-analyzer)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newSearchCmd(app))
	rootCmd.AddCommand(newPortfolioCmd(app))

	return rootCmd
}

// unavailableLLM stands in when no OpenAI key is configured, so the
// advisor always degrades to its fallback advice.
type unavailableLLM struct{}

func (unavailableLLM) CompleteWithSystem(_ context.Context, _, _ string) (string, error) {
	return "", errors.New("openai api key not configured")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Stock Analyzer v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Show configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			output.Info("Configuration file: %s", filepath.Join(config.DefaultConfigDir(), "config.toml"))
			output.Println("Edit this file to change settings.")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Analysis Configuration")
	output.Printf("  Lookback Days:   %d\n", cfg.Analysis.LookbackDays)
	output.Printf("  Pattern Window:  %d\n", cfg.Analysis.PatternWindow)
	output.Printf("  Recent Closes:   %d\n", cfg.Analysis.RecentCloses)
	output.Printf("  Valuation Days:  %d\n", cfg.Analysis.ValuationDays)
	output.Println()

	output.Bold("Advisor Configuration")
	output.Printf("  Model:           %s\n", cfg.Advisor.Model)
	output.Println()

	output.Bold("Database")
	output.Printf("  Path:            %s\n", cfg.Database.Path)
	output.Println()

	output.Bold("Credentials")
	output.Printf("  Polygon key:     %s\n", maskKey(cfg.Credentials.Polygon.APIKey))
	output.Printf("  OpenAI key:      %s\n", maskKey(cfg.Credentials.OpenAI.APIKey))
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
