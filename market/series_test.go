package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestSeriesAppendOrdering(t *testing.T) {
	var s Series
	require.NoError(t, s.Append(Bar{Time: day(0), Close: 100}))
	require.NoError(t, s.Append(Bar{Time: day(3), Close: 101})) // holiday gap is fine

	// Duplicate timestamp rejected.
	err := s.Append(Bar{Time: day(3), Close: 102})
	assert.Error(t, err)

	// Going backwards rejected.
	err = s.Append(Bar{Time: day(1), Close: 103})
	assert.Error(t, err)

	assert.Equal(t, 2, s.Len())
}

func TestNewSeriesRejectsUnsorted(t *testing.T) {
	_, err := NewSeries("TEST", []Bar{
		{Time: day(1), Close: 100},
		{Time: day(0), Close: 101},
	})
	assert.Error(t, err)
}

func TestCloses(t *testing.T) {
	s, err := NewSeries("TEST", []Bar{
		{Time: day(0), Close: 100},
		{Time: day(1), Close: 102},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 102}, s.Closes())
}

func TestUndefinedMarker(t *testing.T) {
	u := Undefined()
	assert.False(t, Defined(u))
	assert.True(t, Defined(0))

	// NaN compares false against everything, so an undefined SMA can never
	// win a crossover comparison.
	assert.False(t, u > 0)
	assert.False(t, u < 0)

	col := UndefinedColumn(3)
	for _, v := range col {
		assert.False(t, Defined(v))
	}
}
