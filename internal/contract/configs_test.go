package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardcache/schema"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		CacheRoot:      "/tmp/cardcache-test",
		Workers:        4,
		SyncBatchSize:  25,
		PriceDBBackend: "sqlite",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, "/tmp/cardcache-test", cfg.CacheRoot)
	assert.Equal(t, DefaultPricingTTL, cfg.TTLFor(schema.NamespacePricing))
	assert.Equal(t, DefaultIdentificationTTL, cfg.TTLFor(schema.NamespaceIdentification))
	assert.Equal(t, DefaultWaitTimeout, cfg.WaitTimeout)
	assert.Equal(t, 25, cfg.SyncBatchSize)
	assert.Equal(t, schema.SQLiteBackend, cfg.PriceDBBackend)
}

func TestProcessAndValidateTTLOrdering(t *testing.T) {
	// Pricing entries must expire faster than identification entries by default.
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))
	assert.Less(t, cfg.TTLFor(schema.NamespacePricing), cfg.TTLFor(schema.NamespaceIdentification))
}

func TestProcessAndValidateCustomTTL(t *testing.T) {
	input := validInput()
	input.PricingTTL = "6h"
	input.WaitTimeout = "5s"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 6*time.Hour, cfg.TTLFor(schema.NamespacePricing))
	assert.Equal(t, 5*time.Second, cfg.WaitTimeout)
}

func TestProcessAndValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"bad ttl", func(in *ConfigRawInput) { in.PricingTTL = "one day" }},
		{"negative ttl", func(in *ConfigRawInput) { in.PricingTTL = "-1h" }},
		{"bad wait timeout", func(in *ConfigRawInput) { in.WaitTimeout = "soon" }},
		{"zero workers", func(in *ConfigRawInput) { in.Workers = 0 }},
		{"oversized batch", func(in *ConfigRawInput) { in.SyncBatchSize = MaxSyncBatchSize + 1 }},
		{"unknown backend", func(in *ConfigRawInput) { in.PriceDBBackend = "oracle" }},
		{"mysql without connect", func(in *ConfigRawInput) { in.PriceDBBackend = "mysql" }},
		{"postgres without connect", func(in *ConfigRawInput) { in.PriceDBBackend = "postgresql" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}
