package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	entry := Entry{
		Namespace:   NamespacePricing,
		Fingerprint: "abc123",
		Value: &PriceQuote{
			CardID:      "base1-4",
			Prices:      map[string]float64{"market": 420.69},
			PriceSource: "pokemontcg",
			Condition:   "NM",
			Currency:    "USD",
		},
		CreatedAt: created,
		TTL:       24 * time.Hour,
		Source:    SourceAPI,
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded Entry
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, entry.Namespace, decoded.Namespace)
	assert.Equal(t, entry.Fingerprint, decoded.Fingerprint)
	assert.Equal(t, entry.TTL, decoded.TTL)
	assert.Equal(t, entry.Source, decoded.Source)
	assert.True(t, entry.CreatedAt.Equal(decoded.CreatedAt))

	quote, ok := decoded.Value.(*PriceQuote)
	require.True(t, ok, "pricing entry should decode to a PriceQuote")
	assert.Equal(t, "base1-4", quote.CardID)
	assert.InDelta(t, 420.69, quote.Prices["market"], 0.001)
}

func TestEntryExpiry(t *testing.T) {
	entry := Entry{
		CreatedAt: time.Now().Add(-2 * time.Hour),
		TTL:       time.Hour,
	}
	assert.True(t, entry.Expired(time.Now()), "entry past its TTL should be stale")

	entry.TTL = 3 * time.Hour
	assert.False(t, entry.Expired(time.Now()), "entry within its TTL should be fresh")
}

func TestDecodeValueRejectsCorruptPayloads(t *testing.T) {
	tests := []struct {
		name string
		ns   Namespace
		raw  string
	}{
		{"not json", NamespacePricing, `{"prices": `},
		{"missing required fields", NamespacePricing, `{"condition": "NM"}`},
		{"empty prices", NamespacePricing, `{"prices": {}, "currency": "USD"}`},
		{"card record without id", NamespaceCardData, `{"name": "Charizard"}`},
		{"empty url", NamespaceEbayURL, `{"url": ""}`},
		{"unknown namespace", Namespace("bogus"), `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeValue(tt.ns, json.RawMessage(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestDecodeValueShapes(t *testing.T) {
	ident, err := DecodeValue(NamespaceIdentification, json.RawMessage(`{"name": "Charizard", "set_name": "Base Set", "confidence": 0.97}`))
	require.NoError(t, err)
	assert.Equal(t, NamespaceIdentification, ident.CacheNamespace())

	title, err := DecodeValue(NamespaceTitle, json.RawMessage(`{"title": "Charizard Base Set 4/102 Holo NM"}`))
	require.NoError(t, err)
	assert.Equal(t, NamespaceTitle, title.CacheNamespace())
}

func TestEntryUnmarshalRejectsMissingEnvelopeFields(t *testing.T) {
	// A torn write or truncated record must never decode into a usable entry.
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"missing value", `{"namespace": "pricing", "fingerprint": "abc", "created_at": "2026-03-14T10:30:00Z", "ttl_seconds": 60, "source": "api"}`},
		{"missing created_at", `{"namespace": "pricing", "fingerprint": "abc", "value": {"prices": {"market": 1}, "currency": "USD"}, "ttl_seconds": 60}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry Entry
			assert.Error(t, json.Unmarshal([]byte(tt.raw), &entry))
		})
	}
}
