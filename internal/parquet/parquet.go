// Package parquet provides data structures and functions for exporting price
// snapshot data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"cardcache/schema"
)

// PriceSnapshotRow represents a single price observation for a card.
// This struct maps to the cardcache_price_snapshots database table.
type PriceSnapshotRow struct {
	// CardID is the canonical card identifier
	CardID string `parquet:"card_id,snappy"`

	// VariationID distinguishes printings of the same card (empty for the base printing)
	VariationID string `parquet:"variation_id,snappy"`

	// SnapshotTime is when the prices were observed (stored as TIMESTAMP with nanosecond precision)
	SnapshotTime time.Time `parquet:"snapshot_time,snappy"`

	// Prices contains the JSON-encoded price points (market, low, high, ...)
	Prices string `parquet:"prices,snappy"`

	// Source is the marketplace the prices came from
	Source string `parquet:"price_source,snappy"`

	// Condition is the card condition the prices apply to (nullable)
	Condition *string `parquet:"card_condition,optional,snappy"`

	// Currency is the ISO currency code for all price points
	Currency string `parquet:"currency,snappy"`

	// Volume is the sales volume behind the observation (nullable)
	Volume *int32 `parquet:"volume,optional,snappy"`

	// ListingsCount is the number of active listings behind the observation (nullable)
	ListingsCount *int32 `parquet:"listings_count,optional,snappy"`
}

// ConvertPriceSnapshots converts store snapshots to their Parquet row form.
func ConvertPriceSnapshots(snaps []schema.PriceSnapshot) ([]PriceSnapshotRow, error) {
	rows := make([]PriceSnapshotRow, 0, len(snaps))
	for _, snap := range snaps {
		pricesJSON, err := json.Marshal(snap.Prices)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal prices for %s: %w", snap.CardID, err)
		}
		row := PriceSnapshotRow{
			CardID:        snap.CardID,
			VariationID:   snap.VariationID,
			SnapshotTime:  snap.Timestamp,
			Prices:        string(pricesJSON),
			Source:        snap.Source,
			Currency:      snap.Currency,
			Volume:        snap.Volume,
			ListingsCount: snap.ListingsCount,
		}
		if snap.Condition != "" {
			condition := snap.Condition
			row.Condition = &condition
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MockFetchPriceSnapshots generates sample PriceSnapshot data for demonstration.
func MockFetchPriceSnapshots() []schema.PriceSnapshot {
	now := time.Now().Truncate(time.Second)
	volume1 := int32(14)
	listings1 := int32(37)

	return []schema.PriceSnapshot{
		{
			CardID:        "base1-4",
			VariationID:   "holo",
			Timestamp:     now.Add(-48 * time.Hour),
			Prices:        map[string]float64{"market": 389.50, "low": 310.00, "high": 475.00},
			Source:        "tcgplayer",
			Condition:     "NM",
			Currency:      "USD",
			Volume:        &volume1,
			ListingsCount: &listings1,
		},
		{
			CardID:      "base1-4",
			VariationID: "holo",
			Timestamp:   now.Add(-24 * time.Hour),
			Prices:      map[string]float64{"market": 402.25, "low": 325.00, "high": 480.00},
			Source:      "tcgplayer",
			Condition:   "NM",
			Currency:    "USD",
		},
		{
			CardID:    "swsh45-SV107",
			Timestamp: now,
			Prices:    map[string]float64{"market": 118.00},
			Source:    "cardmarket",
			Currency:  "EUR",
			// No condition recorded - nullable field
		},
	}
}

// WritePriceSnapshotsParquet writes a slice of PriceSnapshotRow structs to a Parquet file.
func WritePriceSnapshotsParquet(data []PriceSnapshotRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the PriceSnapshotRow struct tags
	writer := parquet.NewGenericWriter[PriceSnapshotRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
