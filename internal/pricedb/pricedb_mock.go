package pricedb

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"cardcache/internal/contract"
	"cardcache/schema"
)

// MockPriceStore is a mock implementation of PriceStore for testing.
type MockPriceStore struct {
	mock.Mock
}

var _ contract.PriceStore = &MockPriceStore{} // Compile-time check

// StoreSnapshot implements the PriceStore interface.
func (m *MockPriceStore) StoreSnapshot(ctx context.Context, snap schema.PriceSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

// RecentSnapshot implements the PriceStore interface.
func (m *MockPriceStore) RecentSnapshot(ctx context.Context, cardID, variationID string, cutoff time.Time) (schema.PriceSnapshot, bool, error) {
	args := m.Called(ctx, cardID, variationID, cutoff)
	return args.Get(0).(schema.PriceSnapshot), args.Bool(1), args.Error(2)
}

// AllSnapshots implements the PriceStore interface.
func (m *MockPriceStore) AllSnapshots(ctx context.Context) ([]schema.PriceSnapshot, error) {
	args := m.Called(ctx)
	snaps, _ := args.Get(0).([]schema.PriceSnapshot)
	return snaps, args.Error(1)
}

// Status implements the PriceStore interface.
func (m *MockPriceStore) Status(ctx context.Context) (schema.PriceDBStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.PriceDBStatus), args.Error(1)
}

// Close implements the PriceStore interface.
func (m *MockPriceStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
