// Package schema has the data model, constants and shared output types for all parts of cardcache.
package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

// Value is the payload of a cache entry. Each namespace has exactly one
// concrete payload shape, so a mismatched or partially corrupt payload is
// caught at deserialization rather than producing a silently wrong result.
type Value interface {
	// CacheNamespace returns the namespace this payload belongs to.
	CacheNamespace() Namespace

	// Validate reports whether the payload's required fields are present.
	Validate() error
}

// Identification is the result of identifying a physical card image.
// Stored in the identification namespace.
type Identification struct {
	Game            string   `json:"game"`
	Name            string   `json:"name"`
	SetName         string   `json:"set_name"`
	Number          string   `json:"number"`
	Finish          string   `json:"finish"`
	Language        string   `json:"language"`
	Characteristics []string `json:"unique_characteristics,omitempty"`
	Confidence      float64  `json:"confidence"`
}

// CacheNamespace implements the Value interface.
func (v *Identification) CacheNamespace() Namespace { return NamespaceIdentification }

// Validate implements the Value interface.
func (v *Identification) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("identification payload missing card name")
	}
	return nil
}

// CardRecord is a validated card record from the card database.
// Stored in the card_data namespace.
type CardRecord struct {
	CardID      string   `json:"card_id"`
	Name        string   `json:"name"`
	SetName     string   `json:"set_name"`
	Number      string   `json:"number"`
	Rarity      string   `json:"rarity"`
	Types       []string `json:"types,omitempty"`
	Subtypes    []string `json:"subtypes,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
}

// CacheNamespace implements the Value interface.
func (v *CardRecord) CacheNamespace() Namespace { return NamespaceCardData }

// Validate implements the Value interface.
func (v *CardRecord) Validate() error {
	if v.CardID == "" {
		return fmt.Errorf("card record missing card_id")
	}
	if v.Name == "" {
		return fmt.Errorf("card record missing name")
	}
	return nil
}

// HostedImage is an externally hosted image URL (eBay picture service).
// Stored in the ebay_url namespace.
type HostedImage struct {
	URL string `json:"url"`
}

// CacheNamespace implements the Value interface.
func (v *HostedImage) CacheNamespace() Namespace { return NamespaceEbayURL }

// Validate implements the Value interface.
func (v *HostedImage) Validate() error {
	if v.URL == "" {
		return fmt.Errorf("hosted image payload missing url")
	}
	return nil
}

// PriceQuote is a point-in-time price observation for a card.
// Stored in the pricing namespace.
type PriceQuote struct {
	CardID        string             `json:"card_id,omitempty"`
	VariationID   string             `json:"variation_id,omitempty"`
	Prices        map[string]float64 `json:"prices"`
	PriceSource   string             `json:"price_source"`
	Condition     string             `json:"condition"`
	Currency      string             `json:"currency"`
	Volume        *int32             `json:"volume,omitempty"`
	ListingsCount *int32             `json:"listings_count,omitempty"`
}

// CacheNamespace implements the Value interface.
func (v *PriceQuote) CacheNamespace() Namespace { return NamespacePricing }

// Validate implements the Value interface.
func (v *PriceQuote) Validate() error {
	if len(v.Prices) == 0 {
		return fmt.Errorf("price quote has no prices")
	}
	if v.Currency == "" {
		return fmt.Errorf("price quote missing currency")
	}
	return nil
}

// ListingTitle is a composed marketplace listing title.
// Stored in the title namespace.
type ListingTitle struct {
	Title string `json:"title"`
}

// CacheNamespace implements the Value interface.
func (v *ListingTitle) CacheNamespace() Namespace { return NamespaceTitle }

// Validate implements the Value interface.
func (v *ListingTitle) Validate() error {
	if v.Title == "" {
		return fmt.Errorf("listing title payload is empty")
	}
	return nil
}

// DecodeValue deserializes a raw payload for the given namespace and validates it.
// An unknown namespace or a payload that fails validation is an error; callers
// treat that as a corrupt entry.
func DecodeValue(ns Namespace, raw json.RawMessage) (Value, error) {
	var value Value
	switch ns {
	case NamespaceIdentification:
		value = &Identification{}
	case NamespaceCardData:
		value = &CardRecord{}
	case NamespaceEbayURL:
		value = &HostedImage{}
	case NamespacePricing:
		value = &PriceQuote{}
	case NamespaceTitle:
		value = &ListingTitle{}
	default:
		return nil, fmt.Errorf("unknown namespace %q", ns)
	}
	if err := json.Unmarshal(raw, value); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", ns, err)
	}
	if err := value.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", ns, err)
	}
	return value, nil
}

// Entry is a single cached result. Entries are immutable once written;
// updates are overwrite-by-key, never in-place mutation.
type Entry struct {
	Namespace   Namespace
	Fingerprint string
	Value       Value
	CreatedAt   time.Time
	TTL         time.Duration
	Source      Source
}

// ExpiresAt returns the instant the entry becomes stale.
func (e Entry) ExpiresAt() time.Time {
	return e.CreatedAt.Add(e.TTL)
}

// Expired reports whether the entry is stale at the given instant.
// A stale entry is operationally equivalent to an absent one.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt())
}

// entryEnvelope is the persisted wire form of an Entry.
type entryEnvelope struct {
	Namespace   Namespace       `json:"namespace"`
	Fingerprint string          `json:"fingerprint"`
	Value       json.RawMessage `json:"value"`
	CreatedAt   time.Time       `json:"created_at"`
	TTLSeconds  int64           `json:"ttl_seconds"`
	Source      Source          `json:"source"`
}

// MarshalJSON implements json.Marshaler for Entry.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Value == nil {
		return nil, fmt.Errorf("entry %s/%s has no value", e.Namespace, e.Fingerprint)
	}
	raw, err := json.Marshal(e.Value)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", e.Namespace, err)
	}
	return json.Marshal(entryEnvelope{
		Namespace:   e.Namespace,
		Fingerprint: e.Fingerprint,
		Value:       raw,
		CreatedAt:   e.CreatedAt,
		TTLSeconds:  int64(e.TTL / time.Second),
		Source:      e.Source,
	})
}

// UnmarshalJSON implements json.Unmarshaler for Entry. The payload is decoded
// against the namespace's fixed shape and validated, so structural corruption
// surfaces here instead of downstream.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var env entryEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode entry envelope: %w", err)
	}
	if env.Fingerprint == "" {
		return fmt.Errorf("entry envelope missing fingerprint")
	}
	if env.CreatedAt.IsZero() {
		return fmt.Errorf("entry envelope missing created_at")
	}
	if len(env.Value) == 0 {
		return fmt.Errorf("entry envelope missing value")
	}
	value, err := DecodeValue(env.Namespace, env.Value)
	if err != nil {
		return err
	}
	e.Namespace = env.Namespace
	e.Fingerprint = env.Fingerprint
	e.Value = value
	e.CreatedAt = env.CreatedAt
	e.TTL = time.Duration(env.TTLSeconds) * time.Second
	e.Source = env.Source
	return nil
}
