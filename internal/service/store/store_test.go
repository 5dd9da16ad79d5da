package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalRelay/internal/domain/models"
)

func payload(symbol string) *models.SignalPayload {
	return &models.SignalPayload{
		Market: models.MarketInfo{Symbol: symbol},
		Signal: models.SignalInfo{Type: "breakout", Extras: models.SignalExtras{Filters: []string{"volume"}}},
	}
}

func TestGetMissingDestination(t *testing.T) {
	s := NewLastSignal()
	_, ok := s.Get(42)
	assert.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	s := NewLastSignal()
	s.Put(42, payload("EURUSD"))
	s.Put(42, payload("BTCUSD"))

	got, ok := s.Get(42)
	require.True(t, ok)
	assert.Equal(t, "BTCUSD", got.Market.Symbol)
}

func TestDestinationsAreIndependent(t *testing.T) {
	s := NewLastSignal()
	s.Put(1, payload("EURUSD"))
	s.Put(2, payload("XAUUSD"))

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "EURUSD", got.Market.Symbol)
}

func TestStoredCopyIsIsolated(t *testing.T) {
	s := NewLastSignal()
	p := payload("EURUSD")
	s.Put(1, p)

	// Mutating the caller's payload or a returned copy must not leak into
	// the stored value.
	p.Market.Symbol = "mutated"
	p.Signal.Extras.Filters[0] = "mutated"

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "EURUSD", got.Market.Symbol)
	assert.Equal(t, []string{"volume"}, got.Signal.Extras.Filters)

	got.Signal.Type = "mutated"
	again, _ := s.Get(1)
	assert.Equal(t, "breakout", again.Signal.Type)
}
