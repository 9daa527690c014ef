package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfold/stratsim/backtest"
	"github.com/quantfold/stratsim/config"
	"github.com/quantfold/stratsim/logger"
	"github.com/quantfold/stratsim/market"
	"github.com/quantfold/stratsim/pkg/id"
	"github.com/quantfold/stratsim/provider"
	"github.com/quantfold/stratsim/report"
	"github.com/quantfold/stratsim/risk"
	"github.com/quantfold/stratsim/store"
	"github.com/quantfold/stratsim/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a strategy simulation over daily price history",
	Long: `Run fetches daily bars, generates a trading signal, backtests it into
returns, applies the stop-loss clamp, and prints a run summary.

Supported strategies:
  - sma-cross:     long while the short SMA is above the long SMA
  - rsi-reversion: enter below the oversold level, exit above the overbought level

Examples:
  stratsim run --symbol AAPL --strategy sma-cross --short 20 --long 50
  stratsim run --config simulation.yaml --csv results.csv
  stratsim run --data bars/aapl.csv.xz --strategy rsi-reversion`,
	RunE: runRun,
}

var (
	runConfigPath string
	runDataPath   string
	runCSVPath    string

	runSymbol     string
	runStart      string
	runEnd        string
	runStrategy   string
	runShort      int
	runLong       int
	runRSIWindow  int
	runOversold   int
	runOverbought int
	runMaxLoss    float64
	runCachePath  string
	runLogLevel   string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to a YAML/JSON config file")
	runCmd.Flags().StringVarP(&runDataPath, "data", "d", "", "local bar CSV (.csv, .csv.xz or .zip) instead of the network source")
	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "write the per-bar result table to this CSV file")

	runCmd.Flags().StringVarP(&runSymbol, "symbol", "s", "AAPL", "ticker symbol")
	runCmd.Flags().StringVar(&runStart, "start", "", "range start (2006-01-02, default two years ago)")
	runCmd.Flags().StringVar(&runEnd, "end", "", "range end (2006-01-02, default today)")

	runCmd.Flags().StringVar(&runStrategy, "strategy", "sma-cross", "strategy name (sma-cross, rsi-reversion)")
	runCmd.Flags().IntVar(&runShort, "short", 20, "sma-cross: short window in bars")
	runCmd.Flags().IntVar(&runLong, "long", 50, "sma-cross: long window in bars")
	runCmd.Flags().IntVar(&runRSIWindow, "rsi-window", 14, "rsi-reversion: lookback window in bars")
	runCmd.Flags().IntVar(&runOversold, "oversold", 30, "rsi-reversion: entry threshold")
	runCmd.Flags().IntVar(&runOverbought, "overbought", 70, "rsi-reversion: exit threshold")

	runCmd.Flags().Float64Var(&runMaxLoss, "max-loss", 0.02, "per-day loss cap as a fraction (0.02 = 2%)")
	runCmd.Flags().StringVar(&runCachePath, "cache", "", "SQLite bar cache path (empty disables caching)")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	runID := id.New()
	start, end, err := cfg.Run.Range()
	if err != nil {
		return err
	}

	src, closer, err := buildProvider(cfg, log)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	log.Info("starting run",
		zap.String("run_id", runID),
		zap.String("symbol", cfg.Run.Symbol),
		zap.String("strategy", cfg.Strategy.Name))

	ctx := context.Background()
	series, err := src.Fetch(ctx, cfg.Run.Symbol, start, end)
	if err != nil {
		return fmt.Errorf("fetch bars: %w", err)
	}
	if series.Empty() {
		log.Warn("no bars in range", zap.String("symbol", cfg.Run.Symbol))
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, cfg.Strategy.Params())
	if err != nil {
		return err
	}

	pol := risk.Policy{MaxLossPerTrade: cfg.Risk.MaxLossPerTrade}
	adj := pol.Apply(backtest.Run(strat.Generate(series)))

	summary := report.New(runID, strat.Name(), pol, adj)
	report.Print(os.Stdout, summary)

	if runCSVPath != "" {
		if err := writeResultCSV(runCSVPath, adj); err != nil {
			return fmt.Errorf("write result csv: %w", err)
		}
		log.Info("wrote result table", zap.String("path", runCSVPath))
	}

	return nil
}

// resolveConfig builds the run configuration: file if given, defaults
// otherwise, with explicitly set flags overriding either.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
		cfg.Cache.Path = ""
	}

	flags := cmd.Flags()
	if flags.Changed("symbol") {
		cfg.Run.Symbol = runSymbol
	}
	if flags.Changed("start") {
		cfg.Run.Start = runStart
	}
	if flags.Changed("end") {
		cfg.Run.End = runEnd
	}
	if flags.Changed("strategy") {
		cfg.Strategy.Name = runStrategy
	}
	if flags.Changed("short") {
		cfg.Strategy.ShortWindow = runShort
	}
	if flags.Changed("long") {
		cfg.Strategy.LongWindow = runLong
	}
	if flags.Changed("rsi-window") {
		cfg.Strategy.RSIWindow = runRSIWindow
	}
	if flags.Changed("oversold") {
		cfg.Strategy.Oversold = runOversold
	}
	if flags.Changed("overbought") {
		cfg.Strategy.Overbought = runOverbought
	}
	if flags.Changed("max-loss") {
		cfg.Risk.MaxLossPerTrade = runMaxLoss
	}
	if flags.Changed("cache") {
		cfg.Cache.Path = runCachePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = runLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildProvider selects the bar source: a local file when --data is given,
// otherwise the Stooq daily endpoint, optionally wrapped in the SQLite cache.
// The returned closer releases the cache handle and may be nil.
func buildProvider(cfg *config.Config, log *zap.Logger) (provider.Provider, func(), error) {
	var src provider.Provider
	if runDataPath != "" {
		src = &provider.CSVFile{Path: runDataPath, Symbol: cfg.Run.Symbol}
	} else {
		src = provider.NewStooqClient(provider.DefaultStooqURL)
	}

	if cfg.Cache.Path == "" {
		return src, nil, nil
	}

	cache, err := store.Open(cfg.Cache.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open bar cache: %w", err)
	}
	return provider.NewCached(src, cache, log), func() { _ = cache.Close() }, nil
}

// writeResultCSV dumps the per-bar result table. Undefined cells are left
// empty, matching how the download command round-trips bars.
func writeResultCSV(path string, adj risk.AdjustedReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"date", "close",
		"short_sma", "long_sma", "rsi",
		"signal", "position",
		"market_return", "strategy_return",
		"cum_market_return", "cum_strategy_return",
		"risk_breach",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, bar := range adj.Signals.Series.Bars {
		row := []string{
			bar.Time.Format("2006-01-02"),
			strconv.FormatFloat(bar.Close, 'f', -1, 64),
			cell(adj.Signals.ShortSMA, i),
			cell(adj.Signals.LongSMA, i),
			cell(adj.Signals.RSI, i),
			cell(adj.Signals.Signal, i),
			cell(adj.Signals.Position, i),
			cell(adj.MarketReturn, i),
			cell(adj.StrategyReturn, i),
			cell(adj.CumMarketReturn, i),
			cell(adj.CumStrategyReturn, i),
			breachCell(adj.RiskBreach, i),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func cell(col []float64, i int) string {
	if i >= len(col) || !market.Defined(col[i]) {
		return ""
	}
	return strconv.FormatFloat(col[i], 'f', -1, 64)
}

func breachCell(col []bool, i int) string {
	if i >= len(col) {
		return ""
	}
	return strconv.FormatBool(col[i])
}
