package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfold/stratsim/market"
	"github.com/quantfold/stratsim/provider"
	"github.com/quantfold/stratsim/store"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Download and manage daily bar data",
	Long: `Manage the daily bar data simulations run against.

Subcommands:
  download - Fetch daily bars and write them to CSV and/or the SQLite cache
  convert  - Unpack a local dataset (.csv.xz, .zip) to plain CSV or the cache

Example:
  stratsim data download -s AAPL --start 2022-01-01 --end 2024-01-01 -o aapl.csv`,
}

var dataDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Fetch daily bars for a symbol",
	Long: `Download daily bars from the network source.

Bars are written as CSV (date,open,high,low,close,volume) and can additionally
be stored in the SQLite cache for later runs.

Example:
  stratsim data download -s AAPL --start 2022-01-01 --end 2024-01-01 -o aapl.csv --db bars.db`,
	RunE: runDataDownload,
}

var dataConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Unpack a local bar dataset",
	Long: `Read a local dataset (.csv, .csv.xz or .zip) and write it out as plain
CSV and/or into the SQLite cache.

Example:
  stratsim data convert -i bars/aapl.csv.xz -o aapl.csv --db bars.db`,
	RunE: runDataConvert,
}

var (
	dlSymbol string
	dlStart  string
	dlEnd    string
	dlOutput string
	dlDBPath string

	cvInput  string
	cvSymbol string
	cvOutput string
	cvDBPath string
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataDownloadCmd)
	dataCmd.AddCommand(dataConvertCmd)

	dataDownloadCmd.Flags().StringVarP(&dlSymbol, "symbol", "s", "", "ticker symbol (required)")
	dataDownloadCmd.Flags().StringVar(&dlStart, "start", "", "range start (2006-01-02) (required)")
	dataDownloadCmd.Flags().StringVar(&dlEnd, "end", "", "range end (2006-01-02) (required)")
	dataDownloadCmd.Flags().StringVarP(&dlOutput, "output", "o", "", "CSV output path")
	dataDownloadCmd.Flags().StringVar(&dlDBPath, "db", "", "SQLite cache path to store bars in")

	dataDownloadCmd.MarkFlagRequired("symbol")
	dataDownloadCmd.MarkFlagRequired("start")
	dataDownloadCmd.MarkFlagRequired("end")

	dataConvertCmd.Flags().StringVarP(&cvInput, "input", "i", "", "dataset path (.csv, .csv.xz or .zip) (required)")
	dataConvertCmd.Flags().StringVarP(&cvSymbol, "symbol", "s", "", "symbol override (default derived from the file name)")
	dataConvertCmd.Flags().StringVarP(&cvOutput, "output", "o", "", "plain CSV output path")
	dataConvertCmd.Flags().StringVar(&cvDBPath, "db", "", "SQLite cache path to store bars in")

	dataConvertCmd.MarkFlagRequired("input")
}

func runDataConvert(cmd *cobra.Command, args []string) error {
	if cvOutput == "" && cvDBPath == "" {
		return fmt.Errorf("nothing to do: give --output and/or --db")
	}

	src := &provider.CSVFile{Path: cvInput, Symbol: cvSymbol}
	series, err := src.Fetch(context.Background(), cvSymbol, time.Time{}, time.Time{})
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	fmt.Printf("Read %d bars for %s from %s\n", series.Len(), series.Symbol, cvInput)

	if cvOutput != "" {
		if err := writeBarCSV(cvOutput, series); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Printf("  CSV:   %s\n", cvOutput)
	}

	if cvDBPath != "" {
		cache, err := store.Open(cvDBPath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer cache.Close()

		if err := cache.SaveSeries(context.Background(), series); err != nil {
			return fmt.Errorf("store bars: %w", err)
		}
		fmt.Printf("  Cache: %s\n", cvDBPath)
	}

	return nil
}

func runDataDownload(cmd *cobra.Command, args []string) error {
	start, err := time.Parse("2006-01-02", dlStart)
	if err != nil {
		return fmt.Errorf("bad start %q: %w", dlStart, err)
	}
	end, err := time.Parse("2006-01-02", dlEnd)
	if err != nil {
		return fmt.Errorf("bad end %q: %w", dlEnd, err)
	}
	if dlOutput == "" && dlDBPath == "" {
		return fmt.Errorf("nothing to do: give --output and/or --db")
	}

	client := provider.NewStooqClient(provider.DefaultStooqURL)
	series, err := client.Fetch(context.Background(), dlSymbol, start, end)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	fmt.Printf("Downloaded %d bars for %s\n", series.Len(), series.Symbol)

	if dlOutput != "" {
		if err := writeBarCSV(dlOutput, series); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Printf("  CSV:   %s\n", dlOutput)
	}

	if dlDBPath != "" {
		cache, err := store.Open(dlDBPath)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer cache.Close()

		if err := cache.SaveSeries(context.Background(), series); err != nil {
			return fmt.Errorf("store bars: %w", err)
		}
		fmt.Printf("  Cache: %s\n", dlDBPath)
	}

	return nil
}

func writeBarCSV(path string, series market.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Open", "High", "Low", "Close", "Volume"}); err != nil {
		return err
	}
	for _, bar := range series.Bars {
		row := []string{
			bar.Time.Format("2006-01-02"),
			strconv.FormatFloat(bar.Open, 'f', -1, 64),
			strconv.FormatFloat(bar.High, 'f', -1, 64),
			strconv.FormatFloat(bar.Low, 'f', -1, 64),
			strconv.FormatFloat(bar.Close, 'f', -1, 64),
			strconv.FormatFloat(bar.Volume, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
