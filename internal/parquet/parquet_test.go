package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardcache/schema"
)

func int32Ptr(v int32) *int32 { return &v }

func TestConvertPriceSnapshots(t *testing.T) {
	ts := time.Now().Truncate(time.Second)
	snaps := []schema.PriceSnapshot{
		{
			CardID:        "base1-4",
			VariationID:   "holo",
			Timestamp:     ts,
			Prices:        map[string]float64{"market": 420.69},
			Source:        "tcgplayer",
			Condition:     "NM",
			Currency:      "USD",
			Volume:        int32Ptr(12),
			ListingsCount: int32Ptr(34),
		},
		{
			CardID:    "jungle-60",
			Timestamp: ts,
			Prices:    map[string]float64{"market": 3.50},
			Source:    "tcgplayer",
			Currency:  "USD",
		},
	}

	rows, err := ConvertPriceSnapshots(snaps)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "base1-4", rows[0].CardID)
	assert.Equal(t, "holo", rows[0].VariationID)
	assert.JSONEq(t, `{"market":420.69}`, rows[0].Prices)
	require.NotNil(t, rows[0].Condition)
	assert.Equal(t, "NM", *rows[0].Condition)
	require.NotNil(t, rows[0].Volume)
	assert.Equal(t, int32(12), *rows[0].Volume)

	assert.Nil(t, rows[1].Condition, "absent condition must export as null")
	assert.Nil(t, rows[1].Volume)
}

func TestWritePriceSnapshotsParquetRoundTrip(t *testing.T) {
	ts := time.Now().Truncate(time.Second)
	rows, err := ConvertPriceSnapshots([]schema.PriceSnapshot{
		{
			CardID:    "base1-4",
			Timestamp: ts,
			Prices:    map[string]float64{"market": 420.69},
			Source:    "tcgplayer",
			Currency:  "USD",
		},
	})
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "prices.parquet")
	require.NoError(t, WritePriceSnapshotsParquet(rows, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[PriceSnapshotRow](file)
	defer func() { _ = reader.Close() }()
	assert.Equal(t, int64(1), reader.NumRows())

	readBack := make([]PriceSnapshotRow, 1)
	n, _ := reader.Read(readBack)
	require.Equal(t, 1, n)
	assert.Equal(t, "base1-4", readBack[0].CardID)
	assert.JSONEq(t, `{"market":420.69}`, readBack[0].Prices)
}

func TestWritePriceSnapshotsParquetEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WritePriceSnapshotsParquet(nil, outputPath))

	_, err := os.Stat(outputPath)
	assert.NoError(t, err, "an empty export still produces a valid file")
}
