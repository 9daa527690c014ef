package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/xyproto/unzip"

	"github.com/quantfold/stratsim/market"
)

// CSVFile serves daily bars from a local dataset instead of the network.
// Plain .csv files are read directly; .xz files are decompressed on the fly;
// .zip archives are extracted to a scratch directory and the first .csv
// member is used. Rows follow the download format:
//
//	Date,Open,High,Low,Close[,Volume]
//
// with dates as 2006-01-02 and an optional header row.
type CSVFile struct {
	Path string

	// Symbol overrides the symbol derived from the file name.
	Symbol string
}

// Fetch loads the dataset and returns the bars inside [start, end]. The
// symbol argument is ignored when the dataset names its own; a zero start or
// end leaves that side of the range open.
func (f *CSVFile) Fetch(_ context.Context, symbol string, start, end time.Time) (market.Series, error) {
	all, err := f.load(symbol)
	if err != nil {
		return market.Series{}, err
	}

	out := market.Series{Symbol: all.Symbol}
	for _, b := range all.Bars {
		if !start.IsZero() && b.Time.Before(start) {
			continue
		}
		if !end.IsZero() && b.Time.After(end) {
			continue
		}
		if err := out.Append(b); err != nil {
			return market.Series{}, err
		}
	}
	return out, nil
}

func (f *CSVFile) load(symbol string) (market.Series, error) {
	if f.Symbol != "" {
		symbol = f.Symbol
	}
	if symbol == "" {
		symbol = symbolFromPath(f.Path)
	}

	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".xz":
		return f.loadXZ(symbol)
	case ".zip":
		return f.loadZip(symbol)
	default:
		return f.loadPlain(f.Path, symbol)
	}
}

func (f *CSVFile) loadPlain(path, symbol string) (market.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return market.Series{}, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	s, err := parseDailyCSV(symbol, file)
	if err != nil {
		return market.Series{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

func (f *CSVFile) loadXZ(symbol string) (market.Series, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return market.Series{}, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	r, err := xz.NewReader(file)
	if err != nil {
		return market.Series{}, fmt.Errorf("open xz stream %s: %w", f.Path, err)
	}

	s, err := parseDailyCSV(symbol, r)
	if err != nil {
		return market.Series{}, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return s, nil
}

func (f *CSVFile) loadZip(symbol string) (market.Series, error) {
	dir, err := os.MkdirTemp("", "stratsim-zip-")
	if err != nil {
		return market.Series{}, err
	}
	defer os.RemoveAll(dir)

	if err := unzip.Extract(f.Path, dir); err != nil {
		return market.Series{}, fmt.Errorf("extract %s: %w", f.Path, err)
	}

	var member string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if member == "" && !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			member = path
		}
		return nil
	})
	if err != nil {
		return market.Series{}, err
	}
	if member == "" {
		return market.Series{}, fmt.Errorf("no .csv member in %s", f.Path)
	}

	return f.loadPlain(member, symbol)
}

// symbolFromPath derives a symbol from a dataset file name:
// "data/aapl.csv.xz" -> "AAPL".
func symbolFromPath(path string) string {
	name := filepath.Base(path)
	for {
		ext := filepath.Ext(name)
		if ext == "" {
			break
		}
		name = strings.TrimSuffix(name, ext)
	}
	return strings.ToUpper(name)
}
