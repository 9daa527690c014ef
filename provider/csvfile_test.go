package provider

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVFilePlain(t *testing.T) {
	path := writeFixture(t, "aapl.csv", sampleCSV)

	f := &CSVFile{Path: path}
	s, err := f.Fetch(context.Background(), "", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, 3, s.Len())
}

func TestCSVFileRangeFilter(t *testing.T) {
	path := writeFixture(t, "aapl.csv", sampleCSV)

	f := &CSVFile{Path: path}
	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	s, err := f.Fetch(context.Background(), "", start, time.Time{})
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, start, s.Bars[0].Time)
}

func TestCSVFileXZ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msft.csv.xz")
	file, err := os.Create(path)
	require.NoError(t, err)

	w, err := xz.NewWriter(file)
	require.NoError(t, err)
	_, err = w.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, file.Close())

	f := &CSVFile{Path: path}
	s, err := f.Fetch(context.Background(), "", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "MSFT", s.Symbol)
	assert.Equal(t, 3, s.Len())
}

func TestCSVFileZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.zip")
	file, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(file)
	member, err := zw.Create("spy.csv")
	require.NoError(t, err)
	_, err = member.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, file.Close())

	f := &CSVFile{Path: path, Symbol: "SPY"}
	s, err := f.Fetch(context.Background(), "", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "SPY", s.Symbol)
	assert.Equal(t, 3, s.Len())
}

func TestSymbolFromPath(t *testing.T) {
	assert.Equal(t, "AAPL", symbolFromPath("data/aapl.csv"))
	assert.Equal(t, "MSFT", symbolFromPath("/tmp/msft.csv.xz"))
	assert.Equal(t, "SPY", symbolFromPath("spy.zip"))
}
